package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
	"github.com/valerio/go-spacegame/spacegame/config"
	"github.com/valerio/go-spacegame/spacegame/logging"
	"github.com/valerio/go-spacegame/spacegame/session"
)

func main() {
	// .env values become visible to the flag EnvVars below
	base, err := config.Load()
	if err != nil {
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	app := newApp(base)
	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running spacegame", "error", err)
		os.Exit(1)
	}
}

func newApp(base *config.Config) *cli.App {
	app := cli.NewApp()
	app.Name = "spacegame"
	app.Description = "Terminal client for the space strategy game"
	app.Usage = "spacegame [global options] command [command options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "api-url",
			Usage:  "Base URL of the game API",
			EnvVar: "FAST_API_URL",
			Value:  base.APIURL,
		},
		cli.StringFlag{
			Name:   "token-dir",
			Usage:  "Directory holding the saved login token (default: user config dir)",
			EnvVar: "SPACEGAME_TOKEN_DIR",
			Value:  base.TokenDir,
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "debug, info, warn or error",
			EnvVar: "LOG_LEVEL",
			Value:  base.LogLevel,
		},
		cli.StringFlag{
			Name:   "log-format",
			Usage:  "text or json",
			EnvVar: "LOG_FORMAT",
			Value:  base.LogFormat,
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.NArg() == 0 || c.Args().First() == "help" || c.Args().First() == "h" {
			return nil
		}
		cfg := configFromFlags(c)
		if err := cfg.Validate(); err != nil {
			return err
		}
		logging.InitLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		return nil
	}
	app.Commands = []cli.Command{
		loginCommand(),
		registerCommand(),
		logoutCommand(),
		whoamiCommand(),
		ordersCommand(),
		statusCommand(),
		submitCommand(),
		mapCommand(),
		playCommand(),
	}
	return app
}

func configFromFlags(c *cli.Context) *config.Config {
	return &config.Config{
		APIURL:    c.GlobalString("api-url"),
		TokenDir:  c.GlobalString("token-dir"),
		LogLevel:  c.GlobalString("log-level"),
		LogFormat: c.GlobalString("log-format"),
	}
}

// commandContext is cancelled on SIGINT or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openSession restores the saved login, if any.
func openSession(ctx context.Context, c *cli.Context) (*session.Session, error) {
	cfg := configFromFlags(c)

	dir := cfg.TokenDir
	if dir == "" {
		var err error
		if dir, err = session.DefaultDir(); err != nil {
			return nil, fmt.Errorf("failed to locate token directory: %w", err)
		}
	}

	sess := session.New(cfg.APIURL, session.NewFileStore(dir))
	sess.Init(ctx)
	return sess, nil
}

// requireLogin is openSession for commands that need a logged in user.
func requireLogin(ctx context.Context, c *cli.Context) (*session.Session, error) {
	sess, err := openSession(ctx, c)
	if err != nil {
		return nil, err
	}
	if _, err := sess.RequireUser(); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			return nil, errors.New("not logged in, run 'spacegame login' first")
		}
		return nil, err
	}
	return sess, nil
}
