package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/answer"
)

func newCheckCmd() *cobra.Command {
	var noTypos bool

	cmd := &cobra.Command{
		Use:   "check <answer> <correct> [alternates...]",
		Short: "Validate an answer the way the bot does",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := answer.NewValidator(answer.WithTypos(!noTypos))
			res := v.ValidateAny(args[0], args[1:])

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "correct:    %t\n", res.Correct)
			fmt.Fprintf(out, "confidence: %s\n", res.Confidence)
			fmt.Fprintf(out, "distance:   %d\n", res.Distance)
			fmt.Fprintf(out, "similarity: %d%%\n", res.Similarity)
			fmt.Fprintf(out, "feedback:   %s\n", res.Feedback)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noTypos, "no-typos", false, "reject answers with typos")
	return cmd
}
