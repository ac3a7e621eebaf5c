package thunderbolt

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/indrastratagem/thunderbolt/content"
	"github.com/indrastratagem/thunderbolt/logger"
	"github.com/indrastratagem/thunderbolt/sanity"
	"github.com/indrastratagem/thunderbolt/storage"
)

// Content sources.
const (
	SourceStatic = "static"
	SourceSanity = "sanity"
)

// SiteConfig holds all configuration for a thunderbolt site.
type SiteConfig struct {
	Name        string // Site name (default "Thunderbolt")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr            string        // Listen address (default ":3000")
	ShutdownTimeout time.Duration // Graceful shutdown budget (default 10s)

	ContentSource   string        // "static" (default) or "sanity"
	ContentPath     string        // YAML catalog; empty uses the embedded default
	Sanity          sanity.Config // used when ContentSource is "sanity"
	ContentCacheTTL time.Duration // remote content cache TTL (default 5min)

	SubscribersDSN  string        // storage slot DSN (default "file:data")
	NewsletterDelay time.Duration // artificial signup latency; zero disables it

	SubscribeLimit  int           // signups per IP per window (default 5)
	SubscribeWindow time.Duration // default 1min

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	Log logger.Config
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Thunderbolt"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.ContentSource == "" {
		c.ContentSource = SourceStatic
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
	if c.SubscribersDSN == "" {
		c.SubscribersDSN = "file:data"
	}
	if c.SubscribeLimit == 0 {
		c.SubscribeLimit = 5
	}
	if c.SubscribeWindow == 0 {
		c.SubscribeWindow = time.Minute
	}
}

// Validate reports configuration that cannot serve a site.
func (c *SiteConfig) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("thunderbolt: SessionSecret is required")
	}
	switch c.ContentSource {
	case SourceStatic:
	case SourceSanity:
		if c.Sanity.ProjectID == "" {
			return errors.New("thunderbolt: SANITY_PROJECT_ID is required for the sanity content source")
		}
	default:
		return errors.New("thunderbolt: unknown content source " + strconv.Quote(c.ContentSource))
	}
	return nil
}

// ConfigFromEnv reads the site configuration from the environment, loading a
// .env file first when one exists.
func ConfigFromEnv() SiteConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Get().Warn().Err(err).Msg("error loading .env file")
	}

	cfg := SiteConfig{
		Name:        getEnv("SITE_NAME", ""),
		URL:         getEnv("SITE_URL", ""),
		Description: getEnv("SITE_DESCRIPTION", ""),
		Author:      getEnv("SITE_AUTHOR", ""),

		Addr:            getEnv("ADDR", ""),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		ContentSource: getEnv("CONTENT_SOURCE", SourceStatic),
		ContentPath:   getEnv("CONTENT_PATH", ""),
		Sanity: sanity.Config{
			ProjectID:  getEnv("SANITY_PROJECT_ID", ""),
			Dataset:    getEnv("SANITY_DATASET", "production"),
			APIVersion: getEnv("SANITY_API_VERSION", "2024-01-01"),
			UseCDN:     getEnvAsBool("SANITY_USE_CDN", true),
			Token:      getEnv("SANITY_TOKEN", ""),
		},
		ContentCacheTTL: getEnvAsDuration("CONTENT_CACHE_TTL", 5*time.Minute),

		SubscribersDSN:  getEnv("SUBSCRIBERS_DSN", "file:data"),
		NewsletterDelay: getEnvAsDuration("NEWSLETTER_DELAY", 800*time.Millisecond),

		SubscribeLimit:  getEnvAsInt("SUBSCRIBE_LIMIT", 5),
		SubscribeWindow: getEnvAsDuration("SUBSCRIBE_WINDOW", time.Minute),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		CookieSecure:  getEnvAsBool("COOKIE_SECURE", false),

		Log: logger.Config{
			Level:  getEnv("LOG_LEVEL", "info"),
			Output: getEnv("LOG_OUTPUT", "stderr"),
			Pretty: getEnvAsBool("LOG_PRETTY", false),
		},
	}
	cfg.setDefaults()
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logger.Get().Warn().Str("key", name).Err(err).Int("default", defaultVal).Msg("invalid integer, using default")
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		logger.Get().Warn().Str("key", name).Err(err).Bool("default", defaultVal).Msg("invalid boolean, using default")
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logger.Get().Warn().Str("key", name).Err(err).Dur("default", defaultVal).Msg("invalid duration, using default")
		return defaultVal
	}
	return value
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for site-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithRepository serves posts from repo instead of the configured source.
func WithRepository(repo content.Repository) Option {
	return func(a *App) {
		a.Posts = repo
	}
}

func WithHallOfFame(h *content.HallOfFame) Option {
	return func(a *App) {
		a.HallOfFame = h
	}
}

// WithSlot persists subscribers to slot instead of opening SubscribersDSN.
// The caller keeps ownership of slot.
func WithSlot(slot storage.Slot) Option {
	return func(a *App) {
		a.slot = slot
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}
