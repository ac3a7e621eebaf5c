// Package sanity reads posts from a Sanity headless CMS dataset over its HTTP
// query API.
package sanity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/indrastratagem/thunderbolt/content"
	"github.com/indrastratagem/thunderbolt/logger"
	"github.com/indrastratagem/thunderbolt/richtext"
)

const (
	postsQuery = `*[_type == "post"] | order(publishedAt desc) {
  _id, _createdAt, title, slug, author, publishedAt, "mainImage": mainImage{asset->{url}}, category, excerpt, body, tags
}`
	postQuery = `*[_type == "post" && slug.current == $slug][0] {
  _id, _createdAt, title, slug, author, publishedAt, "mainImage": mainImage{asset->{url}}, category, excerpt, body, tags
}`
	postsByCategoryQuery = `*[_type == "post" && category == $category] | order(publishedAt desc) {
  _id, _createdAt, title, slug, author, publishedAt, "mainImage": mainImage{asset->{url}}, category, excerpt, body, tags
}`
)

// DefaultCategory is used for documents without a category.
const DefaultCategory content.Category = "General"

// Config identifies a dataset.
type Config struct {
	ProjectID  string
	Dataset    string        // default "production"
	APIVersion string        // default "2024-01-01"
	UseCDN     bool          // query the cached apicdn host
	Token      string        // optional read token for private datasets
	Timeout    time.Duration // default 10s
	BaseURL    string        // overrides the computed host, for tests
}

// Client implements content.Source.
type Client struct {
	http    *resty.Client
	dataset string
	log     zerolog.Logger
}

var (
	_ content.Source     = (*Client)(nil)
	_ content.SlugSource = (*Client)(nil)
)

// New builds a client with retries on transient failures.
func New(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("sanity: project id is required")
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01-01"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	base := cfg.BaseURL
	if base == "" {
		host := "api"
		if cfg.UseCDN {
			host = "apicdn"
		}
		base = fmt.Sprintf("https://%s.%s.sanity.io", cfg.ProjectID, host)
	}

	rc := resty.New().
		SetBaseURL(base+"/v"+cfg.APIVersion).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(3*time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}
	return &Client{http: rc, dataset: cfg.Dataset, log: logger.Component("sanity")}, nil
}

// query runs a GROQ query. Params are JSON encoded as the API requires.
func (c *Client) query(ctx context.Context, groq string, params map[string]string, out any) error {
	req := c.http.R().SetContext(ctx).SetQueryParam("query", groq)
	for k, v := range params {
		enc, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("sanity: encode param %s: %w", k, err)
		}
		req.SetQueryParam("$"+k, string(enc))
	}
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	resp, err := req.SetResult(&envelope).Get("/data/query/" + c.dataset)
	if err != nil {
		return fmt.Errorf("sanity: query: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("sanity: query returned status %d", resp.StatusCode())
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("sanity: decode result: %w", err)
	}
	return nil
}

// AllPosts returns every post, newest first.
func (c *Client) AllPosts(ctx context.Context) ([]content.Post, error) {
	var docs []document
	if err := c.query(ctx, postsQuery, nil, &docs); err != nil {
		return nil, err
	}
	return c.toPosts(docs), nil
}

// PostBySlug returns the post with the given slug, if any.
func (c *Client) PostBySlug(ctx context.Context, slug string) (content.Post, bool, error) {
	var doc *document
	if err := c.query(ctx, postQuery, map[string]string{"slug": slug}, &doc); err != nil {
		return content.Post{}, false, err
	}
	if doc == nil {
		return content.Post{}, false, nil
	}
	p, err := doc.post()
	if err != nil {
		c.log.Warn().Err(err).Str("slug", slug).Msg("skipping invalid document")
		return content.Post{}, false, nil
	}
	return p, true, nil
}

// PostsByCategory returns the category's posts, newest first.
func (c *Client) PostsByCategory(ctx context.Context, category content.Category) ([]content.Post, error) {
	var docs []document
	if err := c.query(ctx, postsByCategoryQuery, map[string]string{"category": string(category)}, &docs); err != nil {
		return nil, err
	}
	return c.toPosts(docs), nil
}

type document struct {
	ID   string `json:"_id"`
	Slug struct {
		Current string `json:"current"`
	} `json:"slug"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	PublishedAt string `json:"publishedAt"`
	CreatedAt   string `json:"_createdAt"`
	MainImage   *struct {
		Asset *struct {
			URL string `json:"url"`
		} `json:"asset"`
	} `json:"mainImage"`
	Category string          `json:"category"`
	Excerpt  string          `json:"excerpt"`
	Body     json.RawMessage `json:"body"`
	Tags     []string        `json:"tags"`
}

// post maps a document to a Post. Drafts without publishedAt are dated by
// _createdAt.
func (d document) post() (content.Post, error) {
	if d.ID == "" || d.Slug.Current == "" {
		return content.Post{}, fmt.Errorf("sanity: document %q has no slug", d.ID)
	}
	date := d.PublishedAt
	if date == "" {
		date = d.CreatedAt
	}
	published, err := content.ParseDate(date)
	if err != nil {
		return content.Post{}, fmt.Errorf("sanity: post %q: %w", d.ID, err)
	}
	body := string(d.Body)
	if body == "" || body == "null" {
		body = "[]"
	}
	p := content.Post{
		ID:            d.ID,
		Slug:          d.Slug.Current,
		Title:         d.Title,
		Excerpt:       d.Excerpt,
		Content:       body,
		ContentFormat: content.FormatPortableText,
		Category:      content.Category(d.Category),
		Tags:          d.Tags,
		Author:        d.Author,
		PublishedAt:   published,
		ReadTime:      richtext.ReadTime(richtext.PlainText(richtext.PortableText, body)),
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if d.MainImage != nil && d.MainImage.Asset != nil {
		p.CoverImage = d.MainImage.Asset.URL
	}
	return p, nil
}

// toPosts maps documents in order, dropping invalid ones and any whose ID or
// slug was already seen so one bad document cannot empty the catalog.
func (c *Client) toPosts(docs []document) []content.Post {
	posts := make([]content.Post, 0, len(docs))
	ids := make(map[string]bool, len(docs))
	slugs := make(map[string]bool, len(docs))
	for _, d := range docs {
		p, err := d.post()
		if err != nil {
			c.log.Warn().Err(err).Msg("skipping invalid document")
			continue
		}
		if ids[p.ID] || slugs[p.Slug] {
			c.log.Warn().Str("id", p.ID).Str("slug", p.Slug).Msg("skipping duplicate document")
			continue
		}
		ids[p.ID], slugs[p.Slug] = true, true
		posts = append(posts, p)
	}
	return posts
}
