package content

import "context"

// Repository is the query contract every page depends on. Implementations
// never fail: a missing slug or category yields an absent value or an empty
// slice.
type Repository interface {
	GetBySlug(slug string) (Post, bool)
	Latest(n int) []Post
	Featured() []Post
	ByCategory(c Category) []Post
	Categories() []Category
	Search(query string, active Category) []Post
	Tags() []string
	Related(p Post, n int) []Post
}

// Source is a remote content backend returning every post, newest first.
type Source interface {
	AllPosts(ctx context.Context) ([]Post, error)
}

// SlugSource is implemented by sources that can fetch a single post, which
// lets a cached repository find posts published after its last refresh.
type SlugSource interface {
	PostBySlug(ctx context.Context, slug string) (Post, bool, error)
}
