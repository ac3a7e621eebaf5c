package content

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testPosts() []Post {
	return []Post{
		{ID: "1", Slug: "intro", Title: "The Introduction to my Blog", Excerpt: "Who I am", Category: "General",
			Tags: []string{"introduction", "vision"}, PublishedAt: date("2025-02-09"), ReadTime: 7, Featured: true},
		{ID: "2", Slug: "budget", Title: "Reading the Union Budget", Excerpt: "Fiscal deficit, explained", Category: "Finance",
			Tags: []string{"economy", "tax"}, PublishedAt: date("2025-03-01"), ReadTime: 9},
		{ID: "3", Slug: "spaces", Title: "Minutes of an X Space", Excerpt: "Notes from a long evening", Category: "General",
			Tags: []string{"Spaces", "notes"}, PublishedAt: date("2025-03-01"), ReadTime: 4},
		{ID: "4", Slug: "gst", Title: "GST in Plain Words", Excerpt: "Indirect taxes without jargon", Category: "Finance",
			Tags: []string{"tax"}, PublishedAt: date("2024-12-20"), ReadTime: 5, Featured: true},
		{ID: "5", Slug: "elections", Title: "Counting Day", Excerpt: "What the numbers say", Category: "Politics",
			Tags: []string{"elections"}, PublishedAt: date("2025-01-15"), ReadTime: 6},
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(testPosts())
	require.NoError(t, err)
	return c
}

func slugs(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestNewCatalogRejectsInvalidPosts(t *testing.T) {
	base := testPosts()[0]
	tests := []struct {
		name  string
		posts func() []Post
		want  error
	}{
		{"duplicate slug", func() []Post { p := base; p.ID = "9"; return []Post{base, p} }, ErrDuplicateSlug},
		{"duplicate id", func() []Post { p := base; p.Slug = "other"; return []Post{base, p} }, ErrDuplicateID},
		{"zero read time", func() []Post { p := base; p.ReadTime = 0; return []Post{p} }, ErrInvalidReadTime},
		{"missing date", func() []Post { p := base; p.PublishedAt = time.Time{}; return []Post{p} }, ErrMissingDate},
		{"empty slug", func() []Post { p := base; p.Slug = ""; return []Post{p} }, ErrEmptySlug},
		{"empty id", func() []Post { p := base; p.ID = ""; return []Post{p} }, ErrEmptyID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.posts())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewCatalogDefaultsFormat(t *testing.T) {
	c := newTestCatalog(t)
	p, _ := c.GetBySlug("intro")
	assert.Equal(t, FormatHTML, p.ContentFormat)
}

func TestGetBySlugRoundTrips(t *testing.T) {
	c := newTestCatalog(t)
	for _, p := range c.All() {
		got, ok := c.GetBySlug(p.Slug)
		require.True(t, ok, p.Slug)
		assert.Equal(t, p.ID, got.ID)
	}
}

func TestGetBySlugIsCaseSensitive(t *testing.T) {
	c := newTestCatalog(t)
	_, ok := c.GetBySlug("INTRO")
	assert.False(t, ok)
	_, ok = c.GetBySlug("missing")
	assert.False(t, ok)
}

func TestLatest(t *testing.T) {
	c := newTestCatalog(t)

	// Equal dates keep catalog order: budget before spaces.
	assert.Equal(t, []string{"budget", "spaces", "intro"}, slugs(c.Latest(3)))
	assert.Equal(t, []string{"budget", "spaces", "intro", "elections", "gst"}, slugs(c.Latest(50)))
	assert.Empty(t, c.Latest(0))
	assert.Empty(t, c.Latest(-3))
	assert.NotNil(t, c.Latest(0))

	for n := 0; n <= c.Len()+1; n++ {
		got := c.Latest(n)
		assert.Len(t, got, min(n, c.Len()))
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].PublishedAt.After(got[i-1].PublishedAt), "not sorted at %d", i)
		}
	}
}

func TestLatestDoesNotReorderCatalog(t *testing.T) {
	c := newTestCatalog(t)
	c.Latest(5)
	assert.Equal(t, []string{"intro", "budget", "spaces", "gst", "elections"}, slugs(c.All()))
}

func TestFeaturedIsIdempotent(t *testing.T) {
	c := newTestCatalog(t)
	first := c.Featured()
	assert.Equal(t, []string{"intro", "gst"}, slugs(first))
	if diff := cmp.Diff(first, c.Featured()); diff != "" {
		t.Errorf("Featured changed between calls (-first +second):\n%s", diff)
	}
}

func TestCategories(t *testing.T) {
	c := newTestCatalog(t)
	want := []Category{"General", "Finance", "Politics"}
	assert.Equal(t, want, c.Categories())
	assert.Equal(t, want, c.Categories())

	cats := c.Categories()
	cats[0] = "Mutated"
	assert.Equal(t, want, c.Categories())
}

func TestByCategoryPartitionsCatalog(t *testing.T) {
	c := newTestCatalog(t)
	seen := map[string]int{}
	for _, cat := range c.Categories() {
		for _, p := range c.ByCategory(cat) {
			assert.Equal(t, cat, p.Category)
			seen[p.Slug]++
		}
	}
	assert.Len(t, seen, c.Len())
	for slug, n := range seen {
		assert.Equal(t, 1, n, slug)
	}
	assert.Equal(t, []string{"budget", "gst"}, slugs(c.ByCategory("Finance")))
	assert.Empty(t, c.ByCategory("finance"))
}

func TestSearch(t *testing.T) {
	c := newTestCatalog(t)
	tests := []struct {
		name     string
		query    string
		category Category
		want     []string
	}{
		{"empty query returns all date sorted", "", AllCategories, []string{"budget", "spaces", "intro", "elections", "gst"}},
		{"whitespace query", "   ", AllCategories, []string{"budget", "spaces", "intro", "elections", "gst"}},
		{"title substring", "introduction", AllCategories, []string{"intro"}},
		{"case insensitive title", "UNION", AllCategories, []string{"budget"}},
		{"excerpt substring", "jargon", AllCategories, []string{"gst"}},
		{"tag substring", "tax", AllCategories, []string{"budget", "gst"}},
		{"tag case insensitive", "spaces", AllCategories, []string{"spaces"}},
		{"category only", "", "General", []string{"spaces", "intro"}},
		{"category and query", "tax", "General", []string{}},
		{"unknown category", "", "Sports", []string{}},
		{"no match", "zzz", AllCategories, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugs(c.Search(tt.query, tt.category)))
		})
	}
}

func TestSearchFindsEveryTitle(t *testing.T) {
	c := newTestCatalog(t)
	for _, p := range c.All() {
		found := false
		for _, got := range c.Search(p.Title[2:6], AllCategories) {
			found = found || got.Slug == p.Slug
		}
		assert.True(t, found, p.Slug)
	}
}

func TestTags(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, []string{"introduction", "vision", "economy", "tax", "Spaces", "notes", "elections"}, c.Tags())
}

func TestRelated(t *testing.T) {
	c := newTestCatalog(t)
	intro, _ := c.GetBySlug("intro")
	assert.Equal(t, []string{"budget", "spaces", "elections"}, slugs(c.Related(intro, 3)))

	gst, _ := c.GetBySlug("gst")
	assert.Equal(t, []string{"budget", "spaces", "intro"}, slugs(c.Related(gst, 3)))
	assert.Empty(t, c.Related(gst, 0))
}

func TestCatalogIsolatedFromInput(t *testing.T) {
	posts := testPosts()
	c, err := NewCatalog(posts)
	require.NoError(t, err)
	posts[0].Title = "changed"
	posts[0].Tags[0] = "changed"
	p, _ := c.GetBySlug("intro")
	assert.Equal(t, "The Introduction to my Blog", p.Title)
	assert.Equal(t, "introduction", p.Tags[0])
}

func TestCatalogIsolatedFromResults(t *testing.T) {
	c := newTestCatalog(t)

	p, _ := c.GetBySlug("intro")
	p.Tags[0] = "mutated"
	c.Latest(10)[2].Tags[1] = "mutated"
	c.Featured()[0].Tags[0] = "mutated"
	c.Search("", AllCategories)[2].Tags[0] = "mutated"
	c.All()[0].Tags[0] = "mutated"

	p, _ = c.GetBySlug("intro")
	assert.Equal(t, []string{"introduction", "vision"}, p.Tags)
	assert.Equal(t, []string{"intro"}, slugs(c.Search("introduction", AllCategories)))
}

func TestPostLinkAndDate(t *testing.T) {
	p := testPosts()[0]
	assert.Equal(t, "/blog/intro/", p.Link())
	assert.Equal(t, "2025-02-09", p.Date())
}
