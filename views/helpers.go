package views

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/indrastratagem/thunderbolt"
	"github.com/indrastratagem/thunderbolt/content"
	"github.com/indrastratagem/thunderbolt/newsletter"
	"github.com/indrastratagem/thunderbolt/richtext"
)

var tweetEmoji = map[content.TweetCategory]string{
	content.BrutalReply: "💀",
	content.SavagePost:  "🔥",
	content.MicDrop:     "🎤",
	content.RatioKing:   "👑",
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"body":         body,
		"highlight":    func(s string) template.HTML { return template.HTML(richtext.Highlight(s)) },
		"jsonld":       func(s string) template.JS { return template.JS(s) },
		"longDate":     func(p content.Post) string { return p.PublishedAt.Format("January 2, 2006") },
		"joinTags":     JoinTags,
		"pathEscape":   url.PathEscape,
		"tagClass":     TagClass,
		"tweetLabel":   func(c content.TweetCategory) string { return c.Label() },
		"tweetEmoji":   func(c content.TweetCategory) string { return tweetEmoji[c] },
		"tweetFilters": tweetFilters,
		"compact":      FormatCount,
		"form":         newForm,
		"navClass":     navClass,
	}
}

// body renders a post's content as sanitized HTML. A body that cannot be
// rendered shows nothing rather than failing the page.
func body(p content.Post) template.HTML {
	out, err := richtext.ToHTML(string(p.ContentFormat), p.Content)
	if err != nil {
		return ""
	}
	return template.HTML(out)
}

func tweetFilters() []content.TweetCategory {
	return append([]content.TweetCategory{content.AllTweets}, content.TweetCategories()...)
}

// JoinTags formats a tag slice as a comma-separated string.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// TagClass returns CSS classes for a filter pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "pill pill-active"
	}
	return "pill"
}

func navClass(current, prefix string) string {
	if prefix == "/" && current == "/" || prefix != "/" && strings.HasPrefix(current, prefix) {
		return "nav-link nav-active"
	}
	return "nav-link"
}

// FormatCount abbreviates engagement numbers: 950, 1.2K, 3.4M.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprint(n)
}

type newsletterForm struct {
	Source    string
	Variant   string
	CSRFToken string
	Flash     *newsletter.Result
}

func newForm(meta thunderbolt.PageMeta, source, variant string) newsletterForm {
	return newsletterForm{
		Source:    source,
		Variant:   variant,
		CSRFToken: meta.CSRFToken,
		Flash:     meta.Flash,
	}
}
