package main

import (
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/indrastratagem/thunderbolt"
	"github.com/indrastratagem/thunderbolt/views"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address (overrides ADDR)",
			},
			&cli.StringFlag{
				Name:  "static",
				Value: "public",
				Usage: "Directory served under /public",
			},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg := siteConfig(c)
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := thunderbolt.New(cfg, views.Default(cfg), thunderbolt.WithStaticDir(c.String("static")))
	defer app.Close()

	if err := app.Start(ctx); err != nil {
		return cli.Exit(err.Error(), ExitGeneralError)
	}
	return nil
}
