package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tgienger/todo/internal/api"
	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
	"github.com/tgienger/todo/internal/prefs"
	"github.com/tgienger/todo/internal/store"
	"github.com/tgienger/todo/internal/ui"
	"github.com/tgienger/todo/internal/ui/styles"
)

func fontChoices() string {
	names := make([]string, len(models.Fonts))
	for i, f := range models.Fonts {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}

	// The TUI owns stdout, so logs go to a file.
	log, closeLog, err := logger.New(logger.Config{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
		Path:     cfg.Log.Path,
	})
	if err != nil {
		return err
	}
	defer closeLog()
	defer log.Sync()

	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}
	client, err := api.New(cfg.BaseURL, api.WithTimeout(timeout), api.WithLogger(log))
	if err != nil {
		return err
	}

	font, ok := models.ParseFont(cfg.Font)
	if !ok {
		log.Warn("unknown font, using default", zap.String("font", cfg.Font))
	}
	opts := []store.Option{store.WithLogger(log), store.WithFont(font)}

	db, err := prefs.Open(cfg.PrefsPath)
	if err != nil {
		log.Warn("preferences unavailable", zap.String("path", cfg.PrefsPath), zap.Error(err))
		db = nil
	} else {
		defer db.Close()
		opts = append(opts, store.WithTab(db.LastTab()))
	}

	log.Info("starting",
		zap.String("version", app.Build.Version),
		zap.String("base_url", client.BaseURL()),
		zap.Duration("timeout", timeout),
	)

	st := store.New(client, opts...)

	styles.ApplyColorProfile()
	model := ui.NewApp(cmd.Context(), st, db, log)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
