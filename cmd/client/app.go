package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/koinonia-app/core/config"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/session"
	"github.com/koinonia-app/core/pkg/logger"
	"github.com/koinonia-app/core/pkg/storage"
	"github.com/koinonia-app/core/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

type app struct {
	app *cli.App

	configs *config.Configs
	logger  logger.Logger
	remote  remote.Client
	blob    storage.Storage
	session *session.Manager
}

func (a *app) loadApp() {
	a.app = &cli.App{
		Name:  "koinonia",
		Usage: "Synchronized client for the community service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the TOML config file",
			},
		},
		Commands: []*cli.Command{
			{
				Action:      a.run,
				Name:        "run",
				Usage:       "Start a session",
				Description: `Signs in with ACCESS_TOKEN, loads the snapshot, and follows the change feed until interrupted.`,
			},
		},
	}
}

func (a *app) load(c *cli.Context) error {
	var err error
	a.configs, err = config.Load(c.String("config"))
	if err != nil {
		return err
	}

	a.logger = logger.NewLogger(a.configs.LogLevel)
	a.remote = remote.NewClient(a.configs.Remote)
	a.blob = storage.NewS3Storage(a.configs.Storage)
	a.session = session.NewManager(a.remote, a.blob, a.configs)
	return nil
}

func (a *app) run(c *cli.Context) error {
	if err := a.load(c); err != nil {
		return err
	}

	ctx := xcontext.WithLogger(context.Background(), a.logger)

	if err := a.session.SignIn(ctx, os.Getenv("ACCESS_TOKEN")); err != nil {
		return err
	}

	a.logger.Infof("Session started for user %s", a.session.UserID())

	go func() {
		for message := range a.session.Feedback().Watch() {
			a.logger.Infof("[%s] %s", message.Kind, message.Text)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.session.SignOut(ctx)
	a.logger.Infof("Signed out")
	return nil
}
