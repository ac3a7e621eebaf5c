package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/indrastratagem/thunderbolt"
	"github.com/indrastratagem/thunderbolt/logger"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "thunderbolt",
		Usage:   "Serve and manage a thunderbolt blog",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "content",
				Aliases: []string{"c"},
				Usage:   "YAML content file (overrides CONTENT_PATH)",
			},
			&cli.StringFlag{
				Name:  "subscribers",
				Usage: "Subscriber storage DSN: memory:, file:<dir>, sqlite:<path>, redis://..., s3://bucket/prefix (overrides SUBSCRIBERS_DSN)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (overrides LOG_LEVEL)",
			},
		},
		Before: loadConfig,
		Commands: []*cli.Command{
			serveCommand(),
			postsCommand(),
			subscribersCommand(),
			newCommand(),
			mediaCommand(),
			{
				Name:  "version",
				Usage: "Print the thunderbolt version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "thunderbolt %s\n", version)
					return nil
				},
			},
		},
	}
}

const configKey = "config"

func loadConfig(c *cli.Context) error {
	cfg := thunderbolt.ConfigFromEnv()
	if c.IsSet("content") {
		cfg.ContentPath = c.String("content")
	}
	if c.IsSet("subscribers") {
		cfg.SubscribersDSN = c.String("subscribers")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	logger.Init(cfg.Log)
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func siteConfig(c *cli.Context) thunderbolt.SiteConfig {
	cfg, _ := c.App.Metadata[configKey].(thunderbolt.SiteConfig)
	return cfg
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
