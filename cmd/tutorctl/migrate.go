package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/config"
	"github.com/aliskhannn/korean-tutor-bot/internal/repository"
	"github.com/aliskhannn/korean-tutor-bot/internal/service"
)

var errMigrateTarget = errors.New("migrate needs storage.backend sqlite or postgres")

func newMigrateCmd(a *app) *cobra.Command {
	var (
		userID int64
		from   string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy a learner's local progress file into the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == 0 {
				return errUserRequired
			}

			cfg, err := a.config()
			if err != nil {
				return err
			}
			if cfg.Storage.Backend != config.BackendSQLite && cfg.Storage.Backend != config.BackendPostgres {
				return errMigrateTarget
			}
			if from == "" {
				from = cfg.Storage.Dir
			}

			ctx := cmd.Context()
			_, store, err := a.progress(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			source := repository.NewFileProgressBackend(a.fs, from, userID)
			n, err := service.MigrateProgress(ctx, source, store.Backends(userID))
			if err != nil {
				return err
			}

			a.log.Info("progress migrated",
				zap.Int64("user_id", userID),
				zap.String("from", source.Path()),
				zap.String("to", cfg.Storage.Backend),
				zap.Int("records", n),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d record(s) from %s\n", n, source.Path())
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "learner (Telegram user) ID")
	cmd.Flags().StringVar(&from, "from", "", "directory of progress files (default storage.dir)")
	return cmd
}
