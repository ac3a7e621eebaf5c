package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/indrastratagem/thunderbolt/content"
	"github.com/indrastratagem/thunderbolt/newsletter"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(&out)
	app.ErrWriter = &bytes.Buffer{}
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"thunderbolt"}, args...))
	return out.String(), err
}

func exitCode(err error) int {
	if ec, ok := err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	return -1
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "thunderbolt dev\n", out)
}

func TestPostsList(t *testing.T) {
	out, err := run(t, "posts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "The-Intro-to-my-blog")

	out, err = run(t, "posts", "list", "--json")
	require.NoError(t, err)
	var posts []content.Post
	require.NoError(t, json.Unmarshal([]byte(out), &posts))
	assert.NotEmpty(t, posts)
}

func TestPostsShow(t *testing.T) {
	out, err := run(t, "posts", "show", "The-Intro-to-my-blog")
	require.NoError(t, err)
	assert.Contains(t, out, "Slug:      The-Intro-to-my-blog")
	assert.Contains(t, out, "Hi readers")
	assert.NotContains(t, out, "<p>")

	_, err = run(t, "posts", "show", "missing")
	assert.Equal(t, ExitDataError, exitCode(err))

	_, err = run(t, "posts", "show")
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestPostsSearch(t *testing.T) {
	out, err := run(t, "posts", "search", "introduction")
	require.NoError(t, err)
	assert.Contains(t, out, "The-Intro-to-my-blog")

	out, err = run(t, "posts", "search", "--full", "exams")
	require.NoError(t, err)
	assert.Contains(t, out, "The-Intro-to-my-blog")
}

func TestSubscribers(t *testing.T) {
	dsn := "file:" + t.TempDir()

	out, err := run(t, "--subscribers", dsn, "subscribers", "add", "Reader@Example.com")
	require.NoError(t, err)
	assert.Equal(t, newsletter.MsgWelcome+"\n", out)

	_, err = run(t, "--subscribers", dsn, "subscribers", "add", "reader@example.com")
	require.Error(t, err)
	assert.Equal(t, newsletter.MsgDuplicate, err.Error())

	_, err = run(t, "--subscribers", dsn, "subscribers", "add", "bogus")
	assert.Equal(t, ExitUsageError, exitCode(err))

	out, err = run(t, "--subscribers", dsn, "subscribers", "count")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = run(t, "--subscribers", dsn, "subscribers", "list", "--json")
	require.NoError(t, err)
	var subs []newsletter.Subscriber
	require.NoError(t, json.Unmarshal([]byte(out), &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "reader@example.com", subs[0].Email)
	assert.Equal(t, "cli", subs[0].Source)

	_, err = run(t, "--subscribers", dsn, "subscribers", "remove", "READER@example.com")
	require.NoError(t, err)
	out, err = run(t, "--subscribers", dsn, "subscribers", "count")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestNewPost(t *testing.T) {
	out, err := run(t, "new", "post", "--tags", "go, ,web", "--date", "2025-03-01", "--author", "Sam", "Hello", "World")
	require.NoError(t, err)
	assert.Contains(t, out, `slug: "hello-world"`)

	catalog, _, err := content.Load(strings.NewReader("posts:\n" + out))
	require.NoError(t, err)
	post, ok := catalog.GetBySlug("hello-world")
	require.True(t, ok)
	assert.Equal(t, "Hello World", post.Title)
	assert.Equal(t, []string{"go", "web"}, post.Tags)
	assert.Equal(t, content.FormatMarkdown, post.ContentFormat)

	_, err = run(t, "new", "post", "--format", "docx", "x")
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestNewTweetAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hall_of_fame:\n"), 0o644))

	_, err := run(t, "new", "tweet", "--append", path, "--category", "ratio-king", "--rank", "2", "https://x.com/a/status/123")
	require.NoError(t, err)

	_, hof, err := content.LoadFile(path)
	require.NoError(t, err)
	items := hof.Items(content.RatioKing)
	require.Len(t, items, 1)
	assert.Equal(t, "123", items[0].ID)
	assert.Equal(t, 2, items[0].Rank)

	_, err = run(t, "new", "tweet", "--category", "meh", "https://x.com/a/status/1")
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestMediaCover(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Big Photo.png")
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 300, 150))))
	require.NoError(t, f.Close())

	outDir := filepath.Join(dir, "uploads")
	out, err := run(t, "media", "cover", "--width", "100", "--out", outDir, src)
	require.NoError(t, err)
	assert.Contains(t, out, "big-photo.jpg (100x50")

	_, err = os.Stat(filepath.Join(outDir, "big-photo.jpg"))
	assert.NoError(t, err)
}
