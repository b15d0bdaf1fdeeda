package deps

import (
	"time"

	"github.com/MrSnakeDoc/wayfare/internal/httpserver/mw"
	"github.com/MrSnakeDoc/wayfare/internal/index"
	"github.com/MrSnakeDoc/wayfare/internal/logger"
	"github.com/MrSnakeDoc/wayfare/internal/page"
	"github.com/MrSnakeDoc/wayfare/internal/recent"
	redisstore "github.com/MrSnakeDoc/wayfare/internal/store/redis"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time   // for testing, defaults to time.Now
	AllowedHosts   []string           // Host headers allowed on public routes
	AllowedCIDRS   []string           // IPs allowed to access ops endpoints
	TrustProxy     bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CatalogFile    string             // Path to the tour catalog
	Index          *index.MemoryIndex // In-memory tour index
	Store          *redisstore.Store  // nil when redis is disabled
	Recent         *recent.Store      // recentlyViewed cookie store
	Pages          *page.Builder      // tour page renderer
	ReloadTrigger  chan struct{}      // Channel to trigger manual catalog reload
	RateLimit      mw.RateLimitConfig // limits on view-recording routes
	PopularLimit   int                // default size of /popular
	SearchLimit    int                // max results of /search
	SearchCacheTTL time.Duration      // lifetime of cached search results
}

// Now returns the injected clock or time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
