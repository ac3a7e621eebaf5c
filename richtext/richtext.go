// Package richtext turns post bodies (HTML, Markdown or Portable Text) into
// sanitized HTML and plain text.
package richtext

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	HTML         = "html"
	Markdown     = "markdown"
	PortableText = "portabletext"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
	marks  = bluemonday.NewPolicy().AllowElements("mark")
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

func init() {
	ugc.AddTargetBlankToFullyQualifiedLinks(true)
	ugc.RequireNoReferrerOnLinks(true)
}

// Highlight sanitizes a search snippet, keeping only <mark> elements.
func Highlight(fragment string) string {
	return marks.Sanitize(fragment)
}

// Render returns a templ.Component writing the sanitized HTML of body.
func Render(format, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := ToHTML(format, body)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// ToHTML converts body to sanitized HTML. An empty format is treated as HTML.
func ToHTML(format, body string) (string, error) {
	raw, err := unsafeHTML(format, body)
	if err != nil {
		return "", err
	}
	return ugc.Sanitize(raw), nil
}

func unsafeHTML(format, body string) (string, error) {
	switch format {
	case "", HTML:
		return body, nil
	case Markdown:
		var buf bytes.Buffer
		if err := md.Convert([]byte(body), &buf); err != nil {
			return "", fmt.Errorf("richtext: markdown: %w", err)
		}
		return buf.String(), nil
	case PortableText:
		blocks, err := ParseBlocks([]byte(body))
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		RenderBlocks(&buf, blocks)
		return buf.String(), nil
	default:
		return "", fmt.Errorf("richtext: unknown format %q", format)
	}
}

// PlainText strips markup from body and collapses whitespace. Bodies that
// fail to parse yield an empty string.
func PlainText(format, body string) string {
	if format == PortableText {
		blocks, err := ParseBlocks([]byte(body))
		if err != nil {
			return ""
		}
		parts := make([]string, 0, len(blocks))
		for _, b := range blocks {
			parts = append(parts, b.Text())
		}
		return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	}
	raw, err := unsafeHTML(format, body)
	if err != nil {
		return ""
	}
	// Keep block boundaries as word boundaries before stripping tags.
	raw = strings.ReplaceAll(raw, "<", " <")
	text := html.UnescapeString(strict.Sanitize(raw))
	return strings.Join(strings.Fields(text), " ")
}

// ReadTime estimates minutes to read text at 200 words per minute, at least 1.
func ReadTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}
