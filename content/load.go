package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type fileYAML struct {
	Posts      []postYAML  `yaml:"posts"`
	HallOfFame []tweetYAML `yaml:"hall_of_fame"`
}

type postYAML struct {
	ID           string   `yaml:"id"`
	Slug         string   `yaml:"slug"`
	Title        string   `yaml:"title"`
	Excerpt      string   `yaml:"excerpt"`
	Content      string   `yaml:"content"`
	Format       string   `yaml:"format"`
	CoverImage   string   `yaml:"cover_image"`
	Category     string   `yaml:"category"`
	Tags         []string `yaml:"tags"`
	Author       string   `yaml:"author"`
	AuthorAvatar string   `yaml:"author_avatar"`
	PublishedAt  string   `yaml:"published_at"`
	ReadTime     int      `yaml:"read_time"`
	Featured     bool     `yaml:"featured"`
}

// tweetYAML accepts both entry shapes: the short rank/url/commentary form and
// the denormalized form that also carries author and metrics fields.
type tweetYAML struct {
	ID          string `yaml:"id"`
	Rank        int    `yaml:"rank"`
	TweetURL    string `yaml:"tweet_url"`
	Category    string `yaml:"category"`
	Commentary  string `yaml:"commentary"`
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
	AvatarURL   string `yaml:"avatar_url"`
	Verified    bool   `yaml:"verified"`
	TweetText   string `yaml:"tweet_text"`
	Likes       int    `yaml:"likes"`
	Retweets    int    `yaml:"retweets"`
	Replies     int    `yaml:"replies"`
	Date        string `yaml:"date"`
}

// Default returns the catalog and hall of fame compiled into the binary.
func Default() (*Catalog, *HallOfFame, error) {
	return Load(bytes.NewReader(defaultYAML))
}

// LoadFile reads a YAML content file.
func LoadFile(path string) (*Catalog, *HallOfFame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("content: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML document with top-level posts and hall_of_fame lists.
func Load(r io.Reader) (*Catalog, *HallOfFame, error) {
	var doc fileYAML
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("content: decode: %w", err)
	}

	posts := make([]Post, 0, len(doc.Posts))
	for _, py := range doc.Posts {
		published, err := ParseDate(py.PublishedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("content: post %q: %w", py.Slug, err)
		}
		posts = append(posts, Post{
			ID:            py.ID,
			Slug:          py.Slug,
			Title:         py.Title,
			Excerpt:       py.Excerpt,
			Content:       py.Content,
			ContentFormat: Format(py.Format),
			CoverImage:    py.CoverImage,
			Category:      Category(py.Category),
			Tags:          py.Tags,
			Author:        py.Author,
			AuthorAvatar:  py.AuthorAvatar,
			PublishedAt:   published,
			ReadTime:      py.ReadTime,
			Featured:      py.Featured,
		})
	}
	catalog, err := NewCatalog(posts)
	if err != nil {
		return nil, nil, err
	}

	items := make([]HallOfFameItem, 0, len(doc.HallOfFame))
	for _, ty := range doc.HallOfFame {
		it := HallOfFameItem{
			ID:         ty.ID,
			Rank:       ty.Rank,
			TweetURL:   ty.TweetURL,
			Category:   TweetCategory(ty.Category),
			Commentary: ty.Commentary,
		}
		if ty.Username != "" || ty.DisplayName != "" || ty.TweetText != "" {
			it.Snapshot = &TweetSnapshot{
				Username:    ty.Username,
				DisplayName: ty.DisplayName,
				AvatarURL:   ty.AvatarURL,
				Verified:    ty.Verified,
				Text:        ty.TweetText,
				Likes:       ty.Likes,
				Retweets:    ty.Retweets,
				Replies:     ty.Replies,
				Date:        ty.Date,
			}
		}
		items = append(items, it)
	}
	hof, err := NewHallOfFame(items)
	if err != nil {
		return nil, nil, err
	}
	return catalog, hof, nil
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrMissingDate
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("content: invalid date %q", s)
	}
	return t, nil
}
