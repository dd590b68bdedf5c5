package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tudu/internal/config"
	"tudu/internal/logging"
	"tudu/internal/storage"
	"tudu/internal/ui"
)

type App struct {
	ConfigPath string
	LogLevel   string
}

// session is everything a command needs once the config is loaded.
type session struct {
	cfg    config.Config
	store  *storage.Adapter
	logger *log.Logger
	closer io.Closer
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close store", "err", err)
	}
	if s.closer != nil {
		s.closer.Close()
	}
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tudu",
		Short:        "A small to-do list for the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive list
  tudu

  # Scriptable commands
  tudu add "Buy milk" --category Errands
  tudu list
  tudu done 1
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(app)
			if err != nil {
				return err
			}
			defer s.Close()
			return ui.Run(s.store, s.cfg, s.logger)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TUDU_CONFIG", ""), "Path to config.toml (default: $XDG_CONFIG_HOME/tudu/config.toml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TUDU_LOG_LEVEL", ""), "Log level (debug|info|warn|error); overrides config")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newMvCmd(app))
	cmd.AddCommand(newClearCmd(app))

	return cmd
}

func open(app *App) (*session, error) {
	path := app.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.Log.Level
	if app.LogLevel != "" {
		level = app.LogLevel
	}
	logger, closer, err := logging.Open(cfg.Log.Path, level)
	if err != nil {
		return nil, err
	}

	kv, err := storage.OpenKV(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		logger.Error("open store", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path, "err", err)
		closer.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
	return &session{
		cfg:    cfg,
		store:  storage.NewAdapter(kv, cfg.Storage.Key, logger),
		logger: logger,
		closer: closer,
	}, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
