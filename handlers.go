package thunderbolt

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/indrastratagem/thunderbolt/content"
	"github.com/indrastratagem/thunderbolt/newsletter"
)

const (
	homeLatest   = 6
	relatedPosts = 3
	searchLimit  = 20
)

// Signup messages the store itself does not produce.
const (
	MsgTooManySignups = "Too many attempts. Please try again in a minute."
	MsgUnsubscribed   = "You have been unsubscribed."
	MsgNotSubscribed  = "That email is not subscribed."
)

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func (a *App) pageMeta(c echo.Context, title, description, ogType string) PageMeta {
	if description == "" {
		description = a.Config.Description
	}
	path := c.Request().URL.Path
	return PageMeta{
		Title:       title,
		Description: description,
		URL:         BuildURL(a.Config.URL, path),
		OGType:      ogType,
		Path:        path,
		CSRFToken:   CsrfToken(c),
		Flash:       popFlash(c),
	}
}

func (a *App) handleHome(c echo.Context) error {
	meta := a.pageMeta(c, a.Config.Name, "", "website")
	meta.JSONLD = WebsiteJsonLD(a.Config)
	return Render(c, a.Views.Home(a.Posts.Featured(), a.Posts.Latest(homeLatest), meta))
}

func (a *App) handleBlog(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		query = c.QueryParam("tag")
	}
	active := content.Category(c.QueryParam("category"))
	if active == "" {
		active = content.AllCategories
	}
	posts := a.Posts.Search(query, active)

	if isHTMX(c) && c.QueryParam("partial") == "posts" {
		return Render(c, a.Views.BlogPosts(posts, query))
	}
	meta := a.pageMeta(c, "Blog | "+a.Config.Name, "", "website")
	return Render(c, a.Views.Blog(posts, a.Posts.Categories(), a.Posts.Tags(), query, active, meta))
}

func (a *App) handlePost(c echo.Context) error {
	post, ok := a.Posts.GetBySlug(c.Param("slug"))
	if !ok {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	meta := a.pageMeta(c, post.Title+" | "+a.Config.Name, post.Excerpt, "article")
	meta.JSONLD = BlogPostingJsonLD(post, a.Config)
	return Render(c, a.Views.Post(post, a.Posts.Related(post, relatedPosts), meta))
}

func (a *App) handleHallOfFame(c echo.Context) error {
	active := content.TweetCategory(c.QueryParam("category"))
	if !active.Valid() {
		active = content.AllTweets
	}
	meta := a.pageMeta(c, "Hall of Fame | "+a.Config.Name, "", "website")
	return Render(c, a.Views.HallOfFame(a.HallOfFame.Items(active), active, meta))
}

func (a *App) handleAbout(c echo.Context) error {
	meta := a.pageMeta(c, "About | "+a.Config.Name, "", "profile")
	return Render(c, a.Views.About(meta))
}

func (a *App) handleSearch(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	var hits []content.Hit
	if query != "" {
		var err error
		hits, err = a.Index.FullText(query, searchLimit)
		if err != nil {
			a.Log.Debug().Err(err).Str("q", query).Msg("full-text query rejected")
			hits = nil
		}
	}
	meta := a.pageMeta(c, "Search | "+a.Config.Name, "", "website")
	return Render(c, a.Views.Search(query, hits, meta))
}

func (a *App) handleSubscribe(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return a.respondSignup(c, newsletter.Result{Message: MsgTooManySignups})
	}
	email := strings.TrimSpace(c.FormValue("email"))
	source := strings.TrimSpace(c.FormValue("source"))

	res, err := a.Subscribers.Subscribe(c.Request().Context(), email, source)
	if err != nil {
		return err
	}
	return a.respondSignup(c, res)
}

func (a *App) handleUnsubscribe(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return a.respondSignup(c, newsletter.Result{Message: MsgTooManySignups})
	}
	email := strings.TrimSpace(c.FormValue("email"))

	removed, err := a.Subscribers.Unsubscribe(c.Request().Context(), email)
	if err != nil {
		return err
	}
	res := newsletter.Result{Success: removed, Message: MsgNotSubscribed}
	if removed {
		res.Message = MsgUnsubscribed
	}
	return a.respondSignup(c, res)
}

// respondSignup renders the result fragment for HTMX requests and otherwise
// flashes it and redirects back to the form.
func (a *App) respondSignup(c echo.Context, res newsletter.Result) error {
	if isHTMX(c) {
		return Render(c, a.Views.NewsletterResult(res))
	}
	if err := setFlash(c, res); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, backTo(c))
}

// backTo returns the same-site path of the Referer, or "/".
func backTo(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") {
		return "/"
	}
	if ref.Host != "" && ref.Host != c.Request().Host {
		return "/"
	}
	back := ref.EscapedPath()
	if ref.RawQuery != "" {
		back += "?" + ref.RawQuery
	}
	return back
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Posts.Search("", content.AllCategories))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Posts.Search("", content.AllCategories))
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
