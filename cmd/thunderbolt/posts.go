package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/indrastratagem/thunderbolt"
	"github.com/indrastratagem/thunderbolt/content"
	"github.com/indrastratagem/thunderbolt/richtext"
)

func postsCommand() *cli.Command {
	jsonFlag := &cli.BoolFlag{Name: "json", Usage: "Output JSON"}
	categoryFlag := &cli.StringFlag{
		Name:  "category",
		Value: string(content.AllCategories),
		Usage: "Restrict to one category",
	}
	return &cli.Command{
		Name:  "posts",
		Usage: "Query the post catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List posts, newest first",
				Flags: []cli.Flag{
					categoryFlag,
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum number of posts (0 = all)"},
					&cli.BoolFlag{Name: "featured", Usage: "Only featured posts"},
					jsonFlag,
				},
				Action: listPosts,
			},
			{
				Name:      "search",
				Usage:     "Search titles, excerpts and tags",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					categoryFlag,
					&cli.BoolFlag{Name: "full", Usage: "Full-text search of post bodies"},
					jsonFlag,
				},
				Action: searchPosts,
			},
			{
				Name:      "show",
				Usage:     "Show one post",
				ArgsUsage: "<slug>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    showPost,
			},
		},
	}
}

func repository(c *cli.Context) (content.Repository, error) {
	posts, _, err := thunderbolt.LoadContent(siteConfig(c))
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitDataError)
	}
	return posts, nil
}

func listPosts(c *cli.Context) error {
	repo, err := repository(c)
	if err != nil {
		return err
	}
	var posts []content.Post
	if c.Bool("featured") {
		posts = repo.Featured()
	} else {
		posts = repo.Search("", content.Category(c.String("category")))
	}
	if n := c.Int("limit"); n > 0 && n < len(posts) {
		posts = posts[:n]
	}
	return printPosts(c, posts)
}

func searchPosts(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: thunderbolt posts search <query>", ExitUsageError)
	}
	query := strings.Join(c.Args().Slice(), " ")
	repo, err := repository(c)
	if err != nil {
		return err
	}
	if !c.Bool("full") {
		return printPosts(c, repo.Search(query, content.Category(c.String("category"))))
	}

	idx, err := content.NewIndex(repo.Search("", content.AllCategories))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer idx.Close()
	hits, err := idx.FullText(query, 0)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Invalid query: %v", err), ExitUsageError)
	}
	if c.Bool("json") {
		return outputJSON(c.App.Writer, hits)
	}
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tSLUG\tTITLE")
	for _, h := range hits {
		fmt.Fprintf(w, "%.3f\t%s\t%s\n", h.Score, h.Slug, h.Title)
	}
	return w.Flush()
}

func showPost(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("Usage: thunderbolt posts show <slug>", ExitUsageError)
	}
	repo, err := repository(c)
	if err != nil {
		return err
	}
	post, ok := repo.GetBySlug(c.Args().First())
	if !ok {
		return cli.Exit(fmt.Sprintf("No post with slug %q", c.Args().First()), ExitDataError)
	}
	if c.Bool("json") {
		return outputJSON(c.App.Writer, post)
	}
	w := c.App.Writer
	fmt.Fprintf(w, "%s\n%s\n\n", post.Title, strings.Repeat("=", len(post.Title)))
	fmt.Fprintf(w, "Slug:      %s\n", post.Slug)
	fmt.Fprintf(w, "Published: %s\n", post.Date())
	fmt.Fprintf(w, "Category:  %s\n", post.Category)
	fmt.Fprintf(w, "Tags:      %s\n", strings.Join(post.Tags, ", "))
	fmt.Fprintf(w, "Read time: %d min\n", post.ReadTime)
	if post.Featured {
		fmt.Fprintln(w, "Featured:  yes")
	}
	fmt.Fprintf(w, "\n%s\n", richtext.PlainText(string(post.ContentFormat), post.Content))
	return nil
}

func printPosts(c *cli.Context, posts []content.Post) error {
	if c.Bool("json") {
		return outputJSON(c.App.Writer, posts)
	}
	return writePostTable(c.App.Writer, posts)
}

func writePostTable(out io.Writer, posts []content.Post) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSLUG\tCATEGORY\tTITLE")
	for _, p := range posts {
		title := p.Title
		if p.Featured {
			title += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Date(), p.Slug, p.Category, title)
	}
	return w.Flush()
}
