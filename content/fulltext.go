package content

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/indrastratagem/thunderbolt/richtext"
)

// Index is an in-memory full-text index over post bodies. It complements
// Search, which only looks at titles, excerpts and tags.
type Index struct {
	index bleve.Index
}

// Hit is one full-text result.
type Hit struct {
	Slug      string
	Title     string
	Score     float64
	Fragments []string // highlighted body snippets (HTML)
}

type indexedPost struct {
	Title    string
	Excerpt  string
	Tags     []string
	Category string
	Body     string
}

func buildMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	english := bleve.NewTextFieldMapping()
	english.Analyzer = "en"
	keyword := bleve.NewKeywordFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("Title", english)
	doc.AddFieldMappingsAt("Excerpt", english)
	doc.AddFieldMappingsAt("Body", english)
	doc.AddFieldMappingsAt("Tags", text)
	doc.AddFieldMappingsAt("Category", keyword)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	// Unqualified queries go to _all, which must stem the same way.
	m.DefaultAnalyzer = "en"
	return m
}

// NewIndex indexes every post, keyed by slug.
func NewIndex(posts []Post) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("content: create index: %w", err)
	}
	batch := idx.NewBatch()
	for _, p := range posts {
		doc := indexedPost{
			Title:    p.Title,
			Excerpt:  p.Excerpt,
			Tags:     p.Tags,
			Category: string(p.Category),
			Body:     richtext.PlainText(string(p.ContentFormat), p.Content),
		}
		if err := batch.Index(p.Slug, doc); err != nil {
			idx.Close()
			return nil, fmt.Errorf("content: index %q: %w", p.Slug, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("content: index batch: %w", err)
	}
	return &Index{index: idx}, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}

// FullText runs a bleve query-string query (quotes, +/-, fuzzy ~) and returns
// up to limit hits, best first.
func (i *Index) FullText(query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 20
	}
	req := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(query), limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField("Body")
	req.Fields = []string{"Title"}

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("content: search: %w", err)
	}
	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{Slug: h.ID, Score: h.Score, Fragments: h.Fragments["Body"]}
		if title, ok := h.Fields["Title"].(string); ok {
			hit.Title = title
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
