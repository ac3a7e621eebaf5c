package thunderbolt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/indrastratagem/thunderbolt/content"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"http://example.com", nil, "http://example.com"},
		{"http://example.com", []string{"/"}, "http://example.com/"},
		{"http://example.com", []string{"blog", "hello"}, "http://example.com/blog/hello/"},
		{"http://example.com/sub", []string{"/blog/"}, "http://example.com/sub/blog/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{" go ", "", "  ", "web"})
	if diff := cmp.Diff([]string{"go", "web"}, got); diff != "" {
		t.Errorf("FilterEmpty mismatch (-want +got):\n%s", diff)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	post := content.Post{
		Slug:        "hello",
		Title:       "Hello",
		Excerpt:     "Hi there",
		Category:    "Tech",
		Tags:        []string{"go", "web"},
		PublishedAt: time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC),
		ReadTime:    4,
	}
	cfg := SiteConfig{Name: "Bolt", URL: "https://bolt.example", Author: "Sam"}

	var got map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(post, cfg)), &got); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	want := map[string]any{
		"@context":       "https://schema.org",
		"@type":          "BlogPosting",
		"headline":       "Hello",
		"description":    "Hi there",
		"datePublished":  "2025-02-09",
		"url":            "https://bolt.example/blog/hello/",
		"timeRequired":   "PT4M",
		"articleSection": "Tech",
		"keywords":       "go, web",
		"author":         map[string]any{"@type": "Person", "name": "Sam"},
		"publisher":      map[string]any{"@type": "Organization", "name": "Bolt"},
		"mainEntityOfPage": map[string]any{
			"@type": "WebPage",
			"@id":   "https://bolt.example/blog/hello/",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON-LD mismatch (-want +got):\n%s", diff)
	}
}

func TestWebsiteJsonLD(t *testing.T) {
	var got map[string]any
	if err := json.Unmarshal([]byte(WebsiteJsonLD(SiteConfig{Name: "Bolt", URL: "https://bolt.example"})), &got); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if got["name"] != "Bolt" || got["@type"] != "WebSite" {
		t.Errorf("unexpected JSON-LD: %v", got)
	}
	if _, ok := got["author"]; ok {
		t.Errorf("author must be omitted when unset")
	}
}
