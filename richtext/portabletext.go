package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"slices"
	"strings"
)

// Block is one Portable Text block as returned by the CMS.
type Block struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key"`
	Style    string    `json:"style"`
	ListItem string    `json:"listItem"`
	Level    int       `json:"level"`
	Children []Span    `json:"children"`
	MarkDefs []MarkDef `json:"markDefs"`
}

// Span is a run of text with decorator marks or references to MarkDefs.
type Span struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

// MarkDef is an annotation referenced from Span.Marks by key.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href"`
}

// Text returns the concatenated span text of the block.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Children {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// ParseBlocks decodes a JSON array of blocks.
func ParseBlocks(data []byte) ([]Block, error) {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("richtext: portable text: %w", err)
	}
	return blocks, nil
}

var styleTags = map[string]string{
	"normal":     "p",
	"h1":         "h1",
	"h2":         "h2",
	"h3":         "h3",
	"h4":         "h4",
	"blockquote": "blockquote",
}

var decorators = map[string]string{
	"strong":         "strong",
	"em":             "em",
	"code":           "code",
	"underline":      "u",
	"strike-through": "s",
}

// RenderBlocks writes blocks as HTML. Consecutive list items of the same kind
// are grouped into one list; non-text blocks are skipped.
func RenderBlocks(buf *bytes.Buffer, blocks []Block) {
	openList := ""
	closeList := func() {
		if openList != "" {
			buf.WriteString("</" + openList + ">")
			openList = ""
		}
	}

	for _, b := range blocks {
		if b.Type != "block" {
			continue
		}
		if b.ListItem != "" {
			tag := "ul"
			if b.ListItem == "number" {
				tag = "ol"
			}
			if openList != tag {
				closeList()
				buf.WriteString("<" + tag + ">")
				openList = tag
			}
			buf.WriteString("<li>")
			renderSpans(buf, b)
			buf.WriteString("</li>")
			continue
		}
		closeList()

		tag, ok := styleTags[b.Style]
		if !ok {
			tag = "p"
		}
		buf.WriteString("<" + tag + ">")
		renderSpans(buf, b)
		buf.WriteString("</" + tag + ">")
	}
	closeList()
}

func renderSpans(buf *bytes.Buffer, b Block) {
	for _, s := range b.Children {
		var closers []string
		for _, m := range s.Marks {
			if tag, ok := decorators[m]; ok {
				buf.WriteString("<" + tag + ">")
				closers = append(closers, "</"+tag+">")
				continue
			}
			i := slices.IndexFunc(b.MarkDefs, func(d MarkDef) bool { return d.Key == m })
			if i >= 0 && b.MarkDefs[i].Type == "link" {
				buf.WriteString(`<a href="` + html.EscapeString(b.MarkDefs[i].Href) + `">`)
				closers = append(closers, "</a>")
			}
		}
		buf.WriteString(html.EscapeString(s.Text))
		for i := len(closers) - 1; i >= 0; i-- {
			buf.WriteString(closers[i])
		}
	}
}
