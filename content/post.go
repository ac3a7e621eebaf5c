// Package content holds the blog's post catalog and hall of fame, and answers
// the read-only queries the pages are built from.
package content

import (
	"slices"
	"time"
)

// Category is a free-form post category label. New categories appear by
// adding posts that use them.
type Category string

// AllCategories is the Search sentinel meaning "no category restriction".
const AllCategories Category = "All"

// Format names how a post body is encoded.
type Format string

const (
	FormatHTML         Format = "html"
	FormatMarkdown     Format = "markdown"
	FormatPortableText Format = "portabletext"
)

// Post is one content item.
type Post struct {
	ID            string
	Slug          string
	Title         string
	Excerpt       string
	Content       string
	ContentFormat Format
	CoverImage    string
	Category      Category
	Tags          []string
	Author        string
	AuthorAvatar  string
	PublishedAt   time.Time
	ReadTime      int // minutes
	Featured      bool
}

func (p Post) clone() Post {
	p.Tags = slices.Clone(p.Tags)
	return p
}

func clonePosts(posts []Post) []Post {
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = p.clone()
	}
	return out
}

// Link is the site-relative URL of the post detail page.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// Date formats PublishedAt as YYYY-MM-DD.
func (p Post) Date() string {
	return p.PublishedAt.Format(time.DateOnly)
}
