package recent

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/wayfare/internal/logger"
	"github.com/MrSnakeDoc/wayfare/internal/metrics"
)

const (
	CookieName     = "recentlyViewed"
	DefaultMaxAge  = 30 * 24 * time.Hour
	// MaxCookieBytes bounds name=value of the written cookie, under the
	// 4096 bytes browsers accept per cookie.
	MaxCookieBytes = 4000
)

var ErrEntryTooLarge = errors.New("entry does not fit in the cookie")

// Options configures the cookie written by a Store.
type Options struct {
	CookieName string
	Path       string
	Capacity   int
	MaxAge     time.Duration
	Secure     bool
	SameSite   http.SameSite
	MaxBytes   int // limit on len(name)+1+len(value); oldest entries are dropped to fit
}

// DefaultOptions is the product-card configuration.
func DefaultOptions() Options {
	return Options{
		CookieName: CookieName,
		Path:       "/",
		Capacity:   CardCapacity,
		MaxAge:     DefaultMaxAge,
		Secure:     true,
		SameSite:   http.SameSiteLaxMode,
		MaxBytes:   MaxCookieBytes,
	}
}

// Store reads and writes the recently viewed list of one client through its
// cookie. Concurrent tabs are last-write-wins.
type Store struct {
	opts     Options
	log      logger.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewStore(opts Options, log logger.Logger) *Store {
	def := DefaultOptions()
	if opts.CookieName == "" {
		opts.CookieName = def.CookieName
	}
	if opts.Path == "" {
		opts.Path = def.Path
	}
	if opts.Capacity < 1 {
		opts.Capacity = def.Capacity
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = def.MaxAge
	}
	if opts.SameSite == 0 {
		opts.SameSite = def.SameSite
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = def.MaxBytes
	}
	return &Store{
		opts:     opts,
		log:      log,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Capacity is the configured maximum list length.
func (s *Store) Capacity() int { return s.opts.Capacity }

// Read rehydrates the list from the request cookie. A missing or malformed
// cookie yields an empty list; Read never fails.
func (s *Store) Read(r *http.Request) []Entry {
	c, err := r.Cookie(s.opts.CookieName)
	if err != nil {
		return []Entry{}
	}
	list, err := Decode(c.Value)
	if err != nil {
		metrics.RecentCorrupt.Inc()
		s.log.Debug("discarding malformed recently viewed cookie",
			logger.Int("bytes", len(c.Value)),
			logger.Error(err))
		return []Entry{}
	}
	return Normalize(list, s.opts.Capacity)
}

// RecordView moves e to the front of the client's list and rewrites the whole
// cookie with a fresh expiry. It returns the list as written. An entry without
// a usable key is ignored and the current list returned unchanged.
func (s *Store) RecordView(w http.ResponseWriter, r *http.Request, e Entry) []Entry {
	current := s.Read(r)

	if err := s.Validate(e); err != nil {
		s.log.Warn("ignoring invalid recently viewed entry",
			logger.String("key", e.Key()),
			logger.Error(err))
		return current
	}

	now := s.now()
	next, value, err := s.fit(Record(current, e, s.opts.Capacity, now))
	if err != nil {
		s.log.Warn("failed to encode recently viewed",
			logger.String("key", e.Key()),
			logger.Error(err))
		return current
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.MaxAge / time.Second),
		Expires:  now.Add(s.opts.MaxAge).UTC(),
		Secure:   s.opts.Secure,
		HttpOnly: false, // read by client scripts
		SameSite: s.opts.SameSite,
	})
	metrics.RecentWrites.Inc()
	return next
}

// fit encodes list, dropping its oldest entries until the cookie stays within
// MaxBytes. The newest entry is never dropped; if it alone is too large fit
// returns ErrEntryTooLarge.
func (s *Store) fit(list []Entry) ([]Entry, string, error) {
	budget := s.opts.MaxBytes - len(s.opts.CookieName) - 1
	for n := len(list); n > 0; n-- {
		value, err := Encode(list[:n])
		if err != nil {
			return nil, "", err
		}
		if len(value) <= budget {
			if n < len(list) {
				s.log.Debug("trimmed recently viewed to fit the cookie",
					logger.Int("kept", n),
					logger.Int("dropped", len(list)-n))
			}
			return list[:n], value, nil
		}
	}
	return nil, "", ErrEntryTooLarge
}

// Validate checks e before it is stored.
func (s *Store) Validate(e Entry) error {
	if e.Key() == "" {
		return ErrMissingKey
	}
	if err := s.validate.Struct(e); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s failed on %q", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	return nil
}
