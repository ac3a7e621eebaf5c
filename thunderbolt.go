// Package thunderbolt is a personal blog engine built with Go, Echo, and templ.
// It serves a post catalog (static YAML or a headless CMS), a hall of fame of
// social posts, full-text search, RSS, a sitemap, and a newsletter signup
// persisted to a pluggable storage slot.
//
// Sites provide their own templ templates via the ViewFuncs struct (the views
// package has defaults), and thunderbolt handles the handler logic,
// middleware, and storage.
package thunderbolt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/indrastratagem/thunderbolt/content"
	"github.com/indrastratagem/thunderbolt/logger"
	"github.com/indrastratagem/thunderbolt/newsletter"
	"github.com/indrastratagem/thunderbolt/sanity"
	"github.com/indrastratagem/thunderbolt/storage"
)

// ViewFuncs holds the templ components the App calls when rendering pages.
type ViewFuncs struct {
	Home       func(featured, latest []content.Post, meta PageMeta) templ.Component
	Blog       func(posts []content.Post, categories []content.Category, tags []string, query string, active content.Category, meta PageMeta) templ.Component
	BlogPosts  func(posts []content.Post, query string) templ.Component
	Post       func(post content.Post, related []content.Post, meta PageMeta) templ.Component
	HallOfFame func(items []content.HallOfFameItem, active content.TweetCategory, meta PageMeta) templ.Component
	About      func(meta PageMeta) templ.Component
	Search     func(query string, hits []content.Hit, meta PageMeta) templ.Component

	// NewsletterResult is the fragment swapped in after an HTMX signup.
	NewsletterResult func(res newsletter.Result) templ.Component

	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App wires together the content repository, subscriber store, handlers,
// middleware, and templates.
type App struct {
	Config      SiteConfig
	Echo        *echo.Echo
	Views       ViewFuncs
	Posts       content.Repository
	HallOfFame  *content.HallOfFame
	Index       *content.Index
	Subscribers *newsletter.Store
	Log         zerolog.Logger

	slot         storage.Slot
	ownsSlot     bool
	limiter      *SubscribeLimiter
	customRoutes []func(*App)
	staticDir    string
	ready        bool
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		Log:       logger.Component("web"),
		staticDir: "public",
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup loads content, opens the subscriber slot, and registers middleware
// and routes. Start calls it; tests call it to drive a.Echo directly.
func (a *App) Setup(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	if err := a.loadContent(); err != nil {
		return fmt.Errorf("thunderbolt: load content: %w", err)
	}

	if a.Index == nil {
		idx, err := content.NewIndex(a.Posts.Search("", content.AllCategories))
		if err != nil {
			return fmt.Errorf("thunderbolt: build search index: %w", err)
		}
		a.Index = idx
	}

	if a.Subscribers == nil {
		if a.slot == nil {
			slot, err := storage.Open(ctx, a.Config.SubscribersDSN)
			if err != nil {
				return fmt.Errorf("thunderbolt: open subscriber storage: %w", err)
			}
			a.slot = slot
			a.ownsSlot = true
		}
		a.Subscribers = newsletter.NewStore(a.slot,
			newsletter.WithDelay(a.Config.NewsletterDelay),
			newsletter.WithLogger(logger.Component("newsletter")),
		)
	}

	a.limiter = NewSubscribeLimiter(a.Config.SubscribeLimit, a.Config.SubscribeWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

func (a *App) loadContent() error {
	if a.Posts != nil && a.HallOfFame != nil {
		return nil
	}
	posts, hof, err := LoadContent(a.Config)
	if err != nil {
		return err
	}
	if a.Posts == nil {
		a.Posts = posts
	}
	if a.HallOfFame == nil {
		a.HallOfFame = hof
	}
	a.Log.Info().
		Str("source", a.Config.ContentSource).
		Int("hall_of_fame", a.HallOfFame.Len()).
		Msg("content loaded")
	return nil
}

// LoadContent opens the configured post repository and reads the hall of
// fame from ContentPath, or from the embedded default content when unset.
// With the sanity source, posts come from the CMS through a TTL cache and the
// static file supplies only the hall of fame.
func LoadContent(cfg SiteConfig) (content.Repository, *content.HallOfFame, error) {
	var (
		catalog *content.Catalog
		hof     *content.HallOfFame
		err     error
	)
	if cfg.ContentPath != "" {
		catalog, hof, err = content.LoadFile(cfg.ContentPath)
	} else {
		catalog, hof, err = content.Default()
	}
	if err != nil {
		return nil, nil, err
	}

	if cfg.ContentSource != SourceSanity {
		return catalog, hof, nil
	}
	client, err := sanity.New(cfg.Sanity)
	if err != nil {
		return nil, nil, err
	}
	ttl := cfg.ContentCacheTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return content.NewCachedRepository(client, ttl, logger.Component("content")), hof, nil
}

// Start sets up the App and serves until ctx is cancelled, then shuts the
// server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info().Str("addr", a.Config.Addr).Msg("listening")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.ShutdownTimeout)
		defer cancel()
		a.Log.Info().Msg("shutting down")
		return a.Echo.Shutdown(sctx)
	})
	return g.Wait()
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/hall-of-fame/", a.handleHallOfFame)
	e.GET("/about/", a.handleAbout)
	e.GET("/search/", a.handleSearch)

	e.POST("/newsletter/", a.handleSubscribe)
	e.POST("/newsletter/unsubscribe/", a.handleUnsubscribe)
}

// Close releases the search index, the rate limiter, and any storage slot
// the App opened itself.
func (a *App) Close() error {
	var errs []error
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.Index != nil {
		errs = append(errs, a.Index.Close())
	}
	if a.ownsSlot {
		errs = append(errs, storage.Close(a.slot))
	}
	return errors.Join(errs...)
}
