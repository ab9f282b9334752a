package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hudo-ng/ShoppingList/internal/app"
	"github.com/hudo-ng/ShoppingList/internal/auth"
	"github.com/hudo-ng/ShoppingList/internal/model"
	"github.com/hudo-ng/ShoppingList/internal/notify"
	"github.com/hudo-ng/ShoppingList/internal/store"
)

type flags struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
}

func main() {
	ctx := context.Background()
	f := &flags{}

	cmd := &cli.Command{
		Name:  "shoppinglist",
		Usage: "Shopping list and recurring task reminders in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SHOPPINGLIST_CONFIG"),
				Value:       model.DefaultConfigPath(),
				Destination: &f.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "db",
				Usage:       "path to the local database",
				Sources:     cli.EnvVars("SHOPPINGLIST_DB"),
				Value:       model.DefaultDBPath(),
				Destination: &f.DBPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("SHOPPINGLIST_LOG_LEVEL"),
				Value:       "warn",
				Destination: &f.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(f.LogLevel)
			if err != nil {
				return ctx, fmt.Errorf("parsing log level %q: %w", f.LogLevel, err)
			}

			// Logs go to stderr so they never corrupt the TUI frame.
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().
				Timestamp().
				Logger()

			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return run(f)
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("fatal error")
		os.Exit(1)
	}
}

func run(f *flags) error {
	cfg, err := model.LoadConfig(f.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	s, err := store.NewSQLiteStore(f.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	scheduler := notify.NewLocalScheduler(
		cfg.Notifications.Enabled,
		log.With().Str("component", "notify").Logger(),
	)
	defer scheduler.Stop()

	authn := auth.NewAuthenticator(
		auth.NewClient(cfg.API.BaseURL),
		log.With().Str("component", "auth").Logger(),
	)

	root := app.New(s, scheduler, authn, cfg, log.With().Str("component", "countdown").Logger())

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
