// Package scaffold renders YAML entries for new posts and hall of fame items,
// ready to paste (or append) into a content file.
package scaffold

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"text/template"
)

// Templates contains the entry templates. Files use Go text/template syntax
// and have a .tmpl suffix.
//
//go:embed templates/*.tmpl
var Templates embed.FS

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{"quote": quote}).ParseFS(Templates, "templates/*.tmpl"))

// Post holds the fields of a new post entry.
type Post struct {
	ID       string
	Slug     string
	Title    string
	Excerpt  string
	Format   string
	Category string
	Tags     []string
	Author   string
	Date     string // YYYY-MM-DD
	ReadTime int
	Featured bool
}

// Tweet holds the fields of a new hall of fame entry.
type Tweet struct {
	ID         string
	Rank       int
	URL        string
	Category   string
	Commentary string
}

// WritePost renders a posts: list item for p.
func WritePost(w io.Writer, p Post) error {
	return execute(w, "post.yaml.tmpl", p)
}

// WriteTweet renders a hall_of_fame: list item for t.
func WriteTweet(w io.Writer, t Tweet) error {
	return execute(w, "tweet.yaml.tmpl", t)
}

func execute(w io.Writer, name string, data any) error {
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("scaffold: %s: %w", name, err)
	}
	return nil
}

// quote renders s as a double-quoted YAML scalar.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
