package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/indrastratagem/thunderbolt/logger"
	"github.com/indrastratagem/thunderbolt/newsletter"
	"github.com/indrastratagem/thunderbolt/storage"
)

func subscribersCommand() *cli.Command {
	return &cli.Command{
		Name:  "subscribers",
		Usage: "Manage newsletter subscribers",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List subscribers in signup order",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output JSON"}},
				Action: withStore(listSubscribers),
			},
			{
				Name:   "count",
				Usage:  "Print the number of subscribers",
				Action: withStore(countSubscribers),
			},
			{
				Name:      "add",
				Usage:     "Subscribe an email address",
				ArgsUsage: "<email>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Value: "cli", Usage: "Signup source tag"},
				},
				Action: withStore(addSubscriber),
			},
			{
				Name:      "remove",
				Usage:     "Unsubscribe an email address",
				ArgsUsage: "<email>",
				Action:    withStore(removeSubscriber),
			},
		},
	}
}

// withStore opens the configured slot around action.
func withStore(action func(*cli.Context, *newsletter.Store) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		slot, err := storage.Open(c.Context, siteConfig(c).SubscribersDSN)
		if err != nil {
			return cli.Exit(err.Error(), ExitDataError)
		}
		defer storage.Close(slot)
		store := newsletter.NewStore(slot,
			newsletter.WithDelay(0),
			newsletter.WithLogger(logger.Component("newsletter")),
		)
		return action(c, store)
	}
}

func listSubscribers(c *cli.Context, store *newsletter.Store) error {
	subs := store.List(c.Context)
	if c.Bool("json") {
		return outputJSON(c.App.Writer, subs)
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tSUBSCRIBED\tSOURCE")
	for _, s := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Email, s.SubscribedAt.Format(time.RFC3339), s.Source)
	}
	return w.Flush()
}

func countSubscribers(c *cli.Context, store *newsletter.Store) error {
	fmt.Fprintln(c.App.Writer, store.Count(c.Context))
	return nil
}

func addSubscriber(c *cli.Context, store *newsletter.Store) error {
	if c.NArg() != 1 {
		return cli.Exit("Usage: thunderbolt subscribers add <email>", ExitUsageError)
	}
	res, err := store.Subscribe(c.Context, strings.TrimSpace(c.Args().First()), c.String("source"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	if !res.Success {
		return cli.Exit(res.Message, ExitUsageError)
	}
	fmt.Fprintln(c.App.Writer, res.Message)
	return nil
}

func removeSubscriber(c *cli.Context, store *newsletter.Store) error {
	if c.NArg() != 1 {
		return cli.Exit("Usage: thunderbolt subscribers remove <email>", ExitUsageError)
	}
	removed, err := store.Unsubscribe(c.Context, strings.TrimSpace(c.Args().First()))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	if !removed {
		return cli.Exit("Not subscribed: "+c.Args().First(), ExitDataError)
	}
	fmt.Fprintln(c.App.Writer, "Removed", c.Args().First())
	return nil
}
