package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tgienger/todo/internal/devserver"
	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr     string
		basePath string
		seed     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory task service for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if basePath == "" {
				basePath = cfg.Server.BasePath
			}

			// The server has the terminal to itself, so it logs to stdout.
			log, closeLog, err := logger.New(logger.Config{
				Level:    cfg.Log.Level,
				Encoding: cfg.Log.Encoding,
			})
			if err != nil {
				return err
			}
			defer closeLog()
			defer log.Sync()

			srv := devserver.New(basePath, log)
			if seed {
				srv.Seed(sampleTasks(time.Now().UTC())...)
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe(addr)
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
			defer signal.Stop(sigCh)

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("dev server: %w", err)
				}
				return nil
			case sig := <-sigCh:
				log.Info("shutdown signal received", zap.String("signal", sig.String()))
			case <-cmd.Context().Done():
			}

			if err := srv.Shutdown(); err != nil {
				return fmt.Errorf("dev server shutdown: %w", err)
			}
			log.Info("dev server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :3000)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "collection path (default from config, /todo)")
	cmd.Flags().BoolVar(&seed, "seed", false, "start with a few sample tasks")

	return cmd
}

func sampleTasks(now time.Time) []models.Task {
	return []models.Task{
		{ID: "sample-1", Title: "Try the search box", Description: "Press `/` and type part of a title.", CreatedAt: now.Add(-3 * time.Minute)},
		{ID: "sample-2", Title: "Mark me as done", Description: "Press *space* on a task.", CreatedAt: now.Add(-2 * time.Minute)},
		{ID: "sample-3", Title: "Pick a font", Description: "Press `f` to open the font list.", Done: true, CreatedAt: now.Add(-time.Minute)},
	}
}
