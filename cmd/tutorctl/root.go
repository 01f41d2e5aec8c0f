package main

import (
	"context"
	"errors"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/bootstrap"
	"github.com/aliskhannn/korean-tutor-bot/internal/config"
	"github.com/aliskhannn/korean-tutor-bot/internal/logger"
	"github.com/aliskhannn/korean-tutor-bot/internal/repository"
	"github.com/aliskhannn/korean-tutor-bot/internal/service"
)

var errUserRequired = errors.New("--user is required")

// app holds what the subcommands share. Config and storage are opened on
// demand so that commands like check run without any setup.
type app struct {
	configDir string
	verbose   bool
	fs        afero.Fs

	log *zap.Logger
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithFs(afero.NewOsFs())
}

func newRootCmdWithFs(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	root := &cobra.Command{
		Use:           "tutorctl",
		Short:         "Inspect and maintain Korean tutor progress and content",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.NewCLI(a.verbose)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config", "./config", "directory holding config.yaml")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log everything")

	root.AddCommand(
		newDueCmd(a),
		newStatsCmd(a),
		newCheckCmd(),
		newImportCmd(a),
		newMigrateCmd(a),
	)

	return root
}

func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.LoadFrom(a.configDir)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

func (a *app) content() (*repository.ContentRepository, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return repository.LoadContent(a.fs, cfg.Content.VocabularyPath, cfg.Content.GrammarPath)
}

// progress opens the configured storage. Saves happen inline, there is no
// worker pool in a one-shot command.
func (a *app) progress(ctx context.Context) (*service.ProgressService, *bootstrap.Storage, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}

	store, err := bootstrap.OpenStorage(ctx, cfg, a.fs, a.log)
	if err != nil {
		return nil, nil, err
	}

	return service.NewProgressService(store.Backends, nil, a.log), store, nil
}
