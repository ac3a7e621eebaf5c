package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/indrastratagem/thunderbolt"
	"github.com/indrastratagem/thunderbolt/content"
	"github.com/indrastratagem/thunderbolt/scaffold"
)

func newCommand() *cli.Command {
	appendFlag := &cli.StringFlag{
		Name:  "append",
		Usage: "Append the entry to this file instead of printing it",
	}
	return &cli.Command{
		Name:  "new",
		Usage: "Scaffold content entries",
		Subcommands: []*cli.Command{
			{
				Name:      "post",
				Usage:     "Print a new posts: entry",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "slug", Usage: "Post slug (default: derived from the title)"},
					&cli.StringFlag{Name: "excerpt"},
					&cli.StringFlag{Name: "category", Value: "General"},
					&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
					&cli.StringFlag{Name: "format", Value: string(content.FormatMarkdown), Usage: "html or markdown"},
					&cli.StringFlag{Name: "author", EnvVars: []string{"SITE_AUTHOR"}},
					&cli.StringFlag{Name: "date", Usage: "Publication date YYYY-MM-DD (default: today)"},
					&cli.IntFlag{Name: "read-time", Value: 5, Usage: "Minutes"},
					&cli.BoolFlag{Name: "featured"},
					appendFlag,
				},
				Action: newPost,
			},
			{
				Name:      "tweet",
				Usage:     "Print a new hall_of_fame: entry",
				ArgsUsage: "<tweet-url>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Entry ID (default: the status ID from the URL)"},
					&cli.IntFlag{Name: "rank", Value: 1},
					&cli.StringFlag{Name: "category", Value: string(content.BrutalReply), Usage: "brutal-reply, savage-post, mic-drop or ratio-king"},
					&cli.StringFlag{Name: "commentary"},
					appendFlag,
				},
				Action: newTweet,
			},
		},
	}
}

func newPost(c *cli.Context) error {
	title := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if title == "" {
		return cli.Exit("Usage: thunderbolt new post <title>", ExitUsageError)
	}
	slug := c.String("slug")
	if slug == "" {
		slug = content.Slugify(title)
	}
	format := c.String("format")
	if format != string(content.FormatHTML) && format != string(content.FormatMarkdown) {
		return cli.Exit("--format must be html or markdown", ExitUsageError)
	}
	date := c.String("date")
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	} else if _, err := content.ParseDate(date); err != nil {
		return cli.Exit(fmt.Sprintf("Invalid --date: %v", err), ExitUsageError)
	}
	if c.Int("read-time") <= 0 {
		return cli.Exit("--read-time must be positive", ExitUsageError)
	}

	p := scaffold.Post{
		ID:       slug,
		Slug:     slug,
		Title:    title,
		Excerpt:  c.String("excerpt"),
		Format:   format,
		Category: c.String("category"),
		Tags:     thunderbolt.FilterEmpty(strings.Split(c.String("tags"), ",")),
		Author:   c.String("author"),
		Date:     date,
		ReadTime: c.Int("read-time"),
		Featured: c.Bool("featured"),
	}
	return writeEntry(c, func(w io.Writer) error { return scaffold.WritePost(w, p) })
}

func newTweet(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("Usage: thunderbolt new tweet <tweet-url>", ExitUsageError)
	}
	url := c.Args().First()
	category := content.TweetCategory(c.String("category"))
	if !category.Valid() {
		return cli.Exit(fmt.Sprintf("Unknown category %q", category), ExitUsageError)
	}
	if c.Int("rank") <= 0 {
		return cli.Exit("--rank must be positive", ExitUsageError)
	}
	id := c.String("id")
	if id == "" {
		id = url[strings.LastIndex(url, "/")+1:]
	}

	t := scaffold.Tweet{
		ID:         id,
		Rank:       c.Int("rank"),
		URL:        url,
		Category:   string(category),
		Commentary: c.String("commentary"),
	}
	return writeEntry(c, func(w io.Writer) error { return scaffold.WriteTweet(w, t) })
}

func writeEntry(c *cli.Context, write func(io.Writer) error) error {
	path := c.String("append")
	if path == "" {
		return write(c.App.Writer)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	if err := write(f); err != nil {
		f.Close()
		return cli.Exit(err.Error(), ExitDataError)
	}
	if err := f.Close(); err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	fmt.Fprintf(c.App.Writer, "appended to %s\n", path)
	return nil
}
