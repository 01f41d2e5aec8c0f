package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/korean-tutor-bot/internal/service"
)

func newStatsCmd(a *app) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the progress statistics of a learner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == 0 {
				return errUserRequired
			}

			ctx := cmd.Context()
			progress, store, err := a.progress(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			content, err := a.content()
			if err != nil {
				return err
			}

			sum := progress.Summary(ctx, userID)
			stars := progress.Stars(ctx, userID, len(content.Lessons()))
			items, lessons := service.RecordCount(progress.Tracker(userID).Progress(ctx))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "records:        %d items, %d lessons\n", items, lessons)
			fmt.Fprintf(out, "mastered:       %d\n", sum.Mastered)
			fmt.Fprintf(out, "learning:       %d\n", sum.Learning)
			fmt.Fprintf(out, "new:            %d\n", sum.New)
			fmt.Fprintf(out, "due for review: %d\n", sum.DueForReview)
			fmt.Fprintf(out, "accuracy:       %d%%\n", sum.Accuracy)
			fmt.Fprintf(out, "lessons done:   %d/%d\n", sum.LessonsCompleted, len(content.Lessons()))
			fmt.Fprintf(out, "stars:          %d/%d\n", stars.TotalStars, stars.MaxStars)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "learner (Telegram user) ID")
	return cmd
}
