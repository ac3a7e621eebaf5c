// Package views provides default page components for a thunderbolt site.
// Pages are html/template files embedded in the binary and exposed as
// templ.Components, so a site can replace any one of them with its own
// templ template.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/indrastratagem/thunderbolt"
	"github.com/indrastratagem/thunderbolt/content"
	"github.com/indrastratagem/thunderbolt/newsletter"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "blog", "post", "halloffame", "about", "search", "notfound", "error"}

// page is the data every page template receives. Each page reads the
// fields it needs.
type page struct {
	Site thunderbolt.SiteConfig
	Meta thunderbolt.PageMeta

	Featured   []content.Post
	Latest     []content.Post
	Posts      []content.Post
	Post       content.Post
	Related    []content.Post
	Categories []content.Category
	Tags       []string
	Query      string
	Active     string

	Items []content.HallOfFameItem
	Hits  []content.Hit
}

type renderer struct {
	site  thunderbolt.SiteConfig
	pages map[string]*template.Template
}

func parse() map[string]*template.Template {
	base := template.Must(template.New("").Funcs(funcs()).ParseFS(templateFS,
		"templates/base.html", "templates/partials.html"))
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t := template.Must(base.Clone())
		pages[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return pages
}

func (r *renderer) execute(page, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return r.pages[page].ExecuteTemplate(w, name, data)
	})
}

func (r *renderer) page(name string, data page) templ.Component {
	data.Site = r.site
	return r.execute(name, "base", data)
}

// Default returns components for every ViewFuncs slot, titled and linked
// with the site's name and author.
func Default(site thunderbolt.SiteConfig) thunderbolt.ViewFuncs {
	r := &renderer{site: site, pages: parse()}
	notFoundMeta := thunderbolt.PageMeta{Title: "Page not found | " + site.Name}
	errorMeta := thunderbolt.PageMeta{Title: "Something went wrong | " + site.Name}

	return thunderbolt.ViewFuncs{
		Home: func(featured, latest []content.Post, meta thunderbolt.PageMeta) templ.Component {
			return r.page("home", page{Meta: meta, Featured: featured, Latest: latest})
		},
		Blog: func(posts []content.Post, categories []content.Category, tags []string, query string, active content.Category, meta thunderbolt.PageMeta) templ.Component {
			return r.page("blog", page{
				Meta:       meta,
				Posts:      posts,
				Categories: append([]content.Category{content.AllCategories}, categories...),
				Tags:       tags,
				Query:      query,
				Active:     string(active),
			})
		},
		BlogPosts: func(posts []content.Post, query string) templ.Component {
			return r.execute("blog", "posts", page{Site: site, Posts: posts, Query: query})
		},
		Post: func(post content.Post, related []content.Post, meta thunderbolt.PageMeta) templ.Component {
			return r.page("post", page{Meta: meta, Post: post, Related: related})
		},
		HallOfFame: func(items []content.HallOfFameItem, active content.TweetCategory, meta thunderbolt.PageMeta) templ.Component {
			return r.page("halloffame", page{Meta: meta, Items: items, Active: string(active)})
		},
		About: func(meta thunderbolt.PageMeta) templ.Component {
			return r.page("about", page{Meta: meta})
		},
		Search: func(query string, hits []content.Hit, meta thunderbolt.PageMeta) templ.Component {
			return r.page("search", page{Meta: meta, Query: query, Hits: hits})
		},
		NewsletterResult: func(res newsletter.Result) templ.Component {
			return r.execute("home", "newsletter-result", res)
		},
		NotFound: func() templ.Component {
			return r.page("notfound", page{Meta: notFoundMeta})
		},
		ServerError: func() templ.Component {
			return r.page("error", page{Meta: errorMeta})
		},
	}
}
