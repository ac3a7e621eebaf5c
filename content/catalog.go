package content

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrEmptyID         = errors.New("content: post id is empty")
	ErrEmptySlug       = errors.New("content: post slug is empty")
	ErrDuplicateID     = errors.New("content: duplicate post id")
	ErrDuplicateSlug   = errors.New("content: duplicate post slug")
	ErrMissingDate     = errors.New("content: post has no published date")
	ErrInvalidReadTime = errors.New("content: read time must be positive")
)

// Catalog is an immutable, in-memory post catalog. All queries are pure
// functions of the posts it was built from and may be called concurrently.
type Catalog struct {
	posts      []Post
	bySlug     map[string]int
	categories []Category
	tags       []string
}

var _ Repository = (*Catalog)(nil)

// NewCatalog validates posts and builds the catalog. Catalog order is the
// order of posts.
func NewCatalog(posts []Post) (*Catalog, error) {
	c := &Catalog{
		posts:  make([]Post, len(posts)),
		bySlug: make(map[string]int, len(posts)),
	}
	ids := make(map[string]struct{}, len(posts))
	seenCat := make(map[Category]struct{})
	seenTag := make(map[string]struct{})

	for i, p := range posts {
		switch {
		case p.ID == "":
			return nil, fmt.Errorf("%w (slug %q)", ErrEmptyID, p.Slug)
		case p.Slug == "":
			return nil, fmt.Errorf("%w (id %q)", ErrEmptySlug, p.ID)
		case p.PublishedAt.IsZero():
			return nil, fmt.Errorf("%w: %q", ErrMissingDate, p.Slug)
		case p.ReadTime <= 0:
			return nil, fmt.Errorf("%w: %q has %d", ErrInvalidReadTime, p.Slug, p.ReadTime)
		}
		if _, dup := ids[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlug, p.Slug)
		}
		if p.ContentFormat == "" {
			p.ContentFormat = FormatHTML
		}
		p.Tags = slices.Clone(p.Tags)
		ids[p.ID] = struct{}{}
		c.bySlug[p.Slug] = i
		c.posts[i] = p

		if _, ok := seenCat[p.Category]; !ok {
			seenCat[p.Category] = struct{}{}
			c.categories = append(c.categories, p.Category)
		}
		for _, t := range p.Tags {
			if _, ok := seenTag[t]; !ok {
				seenTag[t] = struct{}{}
				c.tags = append(c.tags, t)
			}
		}
	}
	return c, nil
}

// Len returns the number of posts.
func (c *Catalog) Len() int {
	return len(c.posts)
}

// All returns every post in catalog order.
func (c *Catalog) All() []Post {
	return clonePosts(c.posts)
}

// GetBySlug returns the post whose slug matches exactly (case-sensitive).
func (c *Catalog) GetBySlug(slug string) (Post, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Post{}, false
	}
	return c.posts[i].clone(), true
}

// Latest returns up to n posts, most recently published first. Posts
// published on the same date keep catalog order.
func (c *Catalog) Latest(n int) []Post {
	if n <= 0 {
		return []Post{}
	}
	sorted := sortByDate(clonePosts(c.posts))
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Featured returns featured posts in catalog order.
func (c *Catalog) Featured() []Post {
	return c.filter(func(p Post) bool { return p.Featured })
}

// ByCategory returns posts whose category equals cat exactly, in catalog order.
func (c *Catalog) ByCategory(cat Category) []Post {
	return c.filter(func(p Post) bool { return p.Category == cat })
}

// Categories returns distinct categories in first-seen order.
func (c *Catalog) Categories() []Category {
	return slices.Clone(c.categories)
}

// Tags returns distinct tags in first-seen order.
func (c *Catalog) Tags() []string {
	return slices.Clone(c.tags)
}

// Search restricts posts to active (unless it is AllCategories), then keeps
// posts whose title, excerpt or any tag contains query case-insensitively.
// A blank query keeps everything. The result is sorted newest first.
func (c *Catalog) Search(query string, active Category) []Post {
	posts := clonePosts(c.posts)
	if active != AllCategories {
		posts = slices.DeleteFunc(posts, func(p Post) bool { return p.Category != active })
	}
	if strings.TrimSpace(query) != "" {
		q := strings.ToLower(query)
		posts = slices.DeleteFunc(posts, func(p Post) bool { return !matches(p, q) })
	}
	return sortByDate(posts)
}

// Related returns up to n of the latest posts other than p.
func (c *Catalog) Related(p Post, n int) []Post {
	if n <= 0 {
		return []Post{}
	}
	related := slices.DeleteFunc(c.Latest(n+1), func(o Post) bool { return o.ID == p.ID })
	if len(related) > n {
		related = related[:n]
	}
	return related
}

func (c *Catalog) filter(keep func(Post) bool) []Post {
	out := []Post{}
	for _, p := range c.posts {
		if keep(p) {
			out = append(out, p.clone())
		}
	}
	return out
}

func matches(p Post, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(p.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Excerpt), lowerQuery) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), lowerQuery) {
			return true
		}
	}
	return false
}

func sortByDate(posts []Post) []Post {
	slices.SortStableFunc(posts, func(a, b Post) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return posts
}
