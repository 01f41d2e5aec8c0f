package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/korean-tutor-bot/internal/repository"
)

func newDueCmd(a *app) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List the items a learner has due for review",
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

			due := progress.Tracker(userID).DueItems(ctx)
			out := cmd.OutOrStdout()
			for _, id := range due {
				fmt.Fprintf(out, "%s\t%s\n", id, describeItem(content, id))
			}
			fmt.Fprintf(out, "%d item(s) due\n", len(due))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "learner (Telegram user) ID")
	return cmd
}

// describeItem gives a short label for a word or exercise.
func describeItem(content *repository.ContentRepository, id string) string {
	if w, err := content.Word(id); err == nil {
		return fmt.Sprintf("%s (%s)", w.Korean, w.English)
	}
	if ex, err := content.Exercise(id); err == nil {
		return fmt.Sprintf("%s exercise in lesson %s", ex.Kind(), ex.LessonID)
	}
	return "unknown item"
}
