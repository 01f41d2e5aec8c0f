package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/repository"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-xlsx <workbook.xlsx> <vocabulary.json>",
		Short: "Convert a vocabulary workbook into content JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fs.Open(args[0])
			if err != nil {
				return fmt.Errorf("open workbook: %w", err)
			}
			defer func() { _ = f.Close() }()

			res, err := repository.ImportWorkbook(f)
			if err != nil {
				return err
			}

			for _, msg := range res.Skipped {
				a.log.Warn("row skipped", zap.String("reason", msg))
			}

			// Validate before writing so a bad import never replaces good content.
			if _, err := repository.NewContentRepository(res.Words, nil, nil); err != nil {
				return err
			}

			if err := repository.WriteVocabulary(a.fs, args[1], res.Words); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d word(s), skipped %d row(s)\n", len(res.Words), len(res.Skipped))
			return nil
		},
	}
}
