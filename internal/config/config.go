package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline applied by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Catalog
	CatalogFile    string        // path to tours.yaml
	ReloadInterval time.Duration // interval to reload the catalog (default: 1h)

	// Widgets
	WidgetInitialDelay   time.Duration // settle delay before the first readiness poll
	WidgetPollInterval   time.Duration // delay between readiness polls
	WidgetMaxAttempts    int           // readiness polls before giving up
	ActivityVendorScript string        // script URL of the availability/discovery vendor
	ActivityVendorMatch  string        // substring identifying an existing activity script tag
	BookingVendorScript  string        // script URL of the booking-widget vendor
	BookingVendorMatch   string        // substring identifying an existing booking script tag
	BookingFrameURL      string        // embed page used by the frame variant

	// Recently viewed
	RecentCapacity int           // max entries kept in the cookie (6 card variant, 10 generic)
	RecentMaxAge   time.Duration // sliding cookie lifetime
	CookieSecure   bool          // set Secure on the recentlyViewed cookie

	// Popularity
	PopularKeep  int           // number of tours kept in the popularity ranking
	PopularLimit int           // default size of /popular
	TrimInterval time.Duration // interval of the popularity trimmer
	GCThreshold  time.Duration // disabled tours older than this are deleted

	// Search
	SearchLimit    int           // max results returned by /search
	SearchCacheTTL time.Duration // lifetime of cached search results in redis

	// Redis (optional, empty address disables popularity and snapshots)
	RedisAddr             string
	RedisUser             string
	RedisPassword         string
	RedisPasswordRequired bool
	RedisDB               int
	RedisDT               time.Duration // dial timeout
	RedisRT               time.Duration // read timeout
	RedisWT               time.Duration // write timeout
	RedisMaxWait          time.Duration // max wait between connect retries
	RedisPingTimeout      time.Duration // timeout for each ping attempt
	RedisPoolSize         int
	RedisConnectTimeout   time.Duration // total time to retry connecting
	RedisRetryInterval    time.Duration // initial wait between retries, doubles each attempt
	RedisWarnThreshold    int           // warn after this many attempts

	// Access restrictions
	AllowedHosts []string // optional, restrict Host headers on public routes
	AllowedCIDRS []string // optional, restrict ops endpoints (reload, infra, metrics)
	TrustProxy   bool     // trust X-Forwarded-For and friends

	// Rate limiting on view-recording routes
	RateLimitBurst  int
	RateLimitPerMin int
}

func Load() *Config {
	cfg := &Config{
		ListenPort:      getenv("WAYFARE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("WAYFARE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("WAYFARE_REQUEST_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("WAYFARE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("WAYFARE_PRETTY_LOG", false),

		CatalogFile:    requireEnv("WAYFARE_CATALOG_FILE"),
		ReloadInterval: mustDuration("WAYFARE_RELOAD_INTERVAL", time.Hour),

		WidgetInitialDelay:   mustDuration("WAYFARE_WIDGET_INITIAL_DELAY", 300*time.Millisecond),
		WidgetPollInterval:   mustDuration("WAYFARE_WIDGET_POLL_INTERVAL", 100*time.Millisecond),
		WidgetMaxAttempts:    getenvInt("WAYFARE_WIDGET_MAX_ATTEMPTS", 20),
		ActivityVendorScript: getenv("WAYFARE_ACTIVITY_VENDOR_SCRIPT", "https://widget.activities.example/dist/pa.umd.production.min.js"),
		ActivityVendorMatch:  getenv("WAYFARE_ACTIVITY_VENDOR_MATCH", "widget.activities.example"),
		BookingVendorScript:  getenv("WAYFARE_BOOKING_VENDOR_SCRIPT", "https://booking.widgets.example/embed.js"),
		BookingVendorMatch:   getenv("WAYFARE_BOOKING_VENDOR_MATCH", "booking.widgets.example"),
		BookingFrameURL:      getenv("WAYFARE_BOOKING_FRAME_URL", "https://booking.widgets.example/frame"),

		RecentCapacity: getenvInt("WAYFARE_RECENT_CAPACITY", 6),
		RecentMaxAge:   mustDuration("WAYFARE_RECENT_MAX_AGE", 30*24*time.Hour),
		CookieSecure:   mustBool("WAYFARE_COOKIE_SECURE", true),

		PopularKeep:  getenvInt("WAYFARE_POPULAR_KEEP", 500),
		PopularLimit: getenvInt("WAYFARE_POPULAR_LIMIT", 10),
		TrimInterval: mustDuration("WAYFARE_TRIM_INTERVAL", 6*time.Hour),
		GCThreshold:  mustDuration("WAYFARE_GC_THRESHOLD", 30*24*time.Hour),

		SearchLimit:    getenvInt("WAYFARE_SEARCH_LIMIT", 20),
		SearchCacheTTL: mustDuration("WAYFARE_SEARCH_CACHE_TTL", 10*time.Minute),

		RedisAddr:             getenv("WAYFARE_REDIS_ADDR", ""),
		RedisUser:             getenv("WAYFARE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("WAYFARE_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("WAYFARE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("WAYFARE_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		AllowedHosts: splitAndTrim(getenv("WAYFARE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("WAYFARE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("WAYFARE_TRUST_PROXY", true),

		RateLimitBurst:  getenvInt("WAYFARE_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("WAYFARE_RATE_LIMIT_PER_MIN", 120),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate checks cross-field constraints that single getters can't express.
func (c *Config) Validate() error {
	if c.RedisAddr != "" && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("WAYFARE_REDIS_PASSWORD is required when WAYFARE_REDIS_PASSWORD_REQUIRED=true")
	}
	if c.WidgetMaxAttempts < 1 {
		return fmt.Errorf("WAYFARE_WIDGET_MAX_ATTEMPTS must be >= 1, got %d", c.WidgetMaxAttempts)
	}
	if c.WidgetPollInterval <= 0 {
		return fmt.Errorf("WAYFARE_WIDGET_POLL_INTERVAL must be > 0, got %v", c.WidgetPollInterval)
	}
	if c.RecentCapacity < 1 {
		return fmt.Errorf("WAYFARE_RECENT_CAPACITY must be >= 1, got %d", c.RecentCapacity)
	}
	if c.RecentMaxAge <= 0 {
		return fmt.Errorf("WAYFARE_RECENT_MAX_AGE must be > 0, got %v", c.RecentMaxAge)
	}
	return nil
}

// RedisEnabled reports whether popularity and snapshots are backed by redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
