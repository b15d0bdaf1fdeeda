package widget

import (
	"strings"
	"sync"
	"time"
)

// manualClock fires timers only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward, running due timers in order.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		var next *manualTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func (c *manualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

type initCall struct {
	cfg Config
	at  time.Duration
}

// stubDoc records scripts and serves vendor entry points.
type stubDoc struct {
	mu      sync.Mutex
	clock   *manualClock
	scripts []Script
	entries map[string]InitFunc
	calls   []initCall
	initErr error
}

func newStubDoc(clock *manualClock) *stubDoc {
	return &stubDoc{clock: clock, entries: make(map[string]InitFunc)}
}

func (d *stubDoc) HasScript(pattern string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.scripts {
		if strings.Contains(s.Src, pattern) {
			return true
		}
	}
	return false
}

func (d *stubDoc) AppendScript(s Script) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scripts = append(d.scripts, s)
}

func (d *stubDoc) Entrypoint(vendorID string) (InitFunc, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn, ok := d.entries[vendorID]
	return fn, ok
}

// define makes the vendor ready; its entry point records every call.
func (d *stubDoc) define(vendorID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[vendorID] = func(cfg Config) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		var at time.Duration
		if d.clock != nil {
			at = d.clock.Now()
		}
		d.calls = append(d.calls, initCall{cfg: cfg, at: at})
		return d.initErr
	}
}

func (d *stubDoc) initCalls() []initCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]initCall(nil), d.calls...)
}

func (d *stubDoc) scriptCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.scripts)
}

// stubContainer is a flat container.
type stubContainer struct {
	mu       sync.Mutex
	attrs    map[string]string
	children []Element
}

func newStubContainer() *stubContainer {
	return &stubContainer{attrs: make(map[string]string)}
}

func (c *stubContainer) HasChild(tag, attr, value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, el := range c.children {
		if el.Tag == tag && el.Attrs[attr] == value {
			return true
		}
	}
	return false
}

func (c *stubContainer) AppendChild(el Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = append(c.children, el)
}

func (c *stubContainer) RemoveChild(tag, attr, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.children[:0]
	for _, el := range c.children {
		if el.Tag == tag && el.Attrs[attr] == value {
			continue
		}
		kept = append(kept, el)
	}
	c.children = kept
}

func (c *stubContainer) ReplaceChildren(els ...Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = append([]Element(nil), els...)
}

func (c *stubContainer) SetAttributes(attrs map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range attrs {
		c.attrs[k] = v
	}
}

func (c *stubContainer) childCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.children)
}

var (
	testActivity = Vendor{ID: "activities", ScriptURL: "https://widget.activities.example/dist/pa.js", Pattern: "widget.activities.example"}
	testBooking  = Vendor{ID: "booking", ScriptURL: "https://booking.widgets.example/embed.js", Pattern: "booking.widgets.example"}
)

func newTestCoordinator(doc Document, clock Clock) *Coordinator {
	return NewCoordinator(doc,
		WithClock(clock),
		WithStrategies(DefaultStrategies(Vendors{
			Activity: testActivity,
			Booking:  testBooking,
			FrameURL: "https://booking.widgets.example/frame",
			Timing:   DefaultTiming(),
		})),
	)
}
