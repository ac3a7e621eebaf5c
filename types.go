package thunderbolt

import "github.com/indrastratagem/thunderbolt/newsletter"

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template,
// plus the request-scoped values every page's newsletter form needs.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string

	Path      string // site-relative path, for navigation state
	CSRFToken string
	Flash     *newsletter.Result // outcome of a non-HTMX signup, shown once
}
