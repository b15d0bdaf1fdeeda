// Package page assembles server-rendered tour pages. Widgets are mounted
// through the widget coordinator against an in-memory document, and the
// resulting markup is sent to the browser where the vendor scripts take over.
package page

import (
	"strings"
	"sync"

	"github.com/MrSnakeDoc/wayfare/internal/widget"
)

// Document is an in-memory widget.Document collecting the script tags of one
// rendered page. No vendor script runs server side, so entry points and load
// failures are only installed by tests.
type Document struct {
	mu      sync.Mutex
	scripts []widget.Script
	entries map[string]widget.InitFunc
	failing map[string]error
}

func NewDocument() *Document {
	return &Document{
		entries: make(map[string]widget.InitFunc),
		failing: make(map[string]error),
	}
}

func (d *Document) HasScript(pattern string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.scripts {
		if strings.Contains(s.Src, pattern) {
			return true
		}
	}
	return false
}

// AppendScript records s. Scripts matching a registered load failure report
// it through s.OnError.
func (d *Document) AppendScript(s widget.Script) {
	d.mu.Lock()
	d.scripts = append(d.scripts, s)
	var failure error
	for pattern, err := range d.failing {
		if strings.Contains(s.Src, pattern) {
			failure = err
			break
		}
	}
	d.mu.Unlock()

	if failure != nil && s.OnError != nil {
		s.OnError(failure)
	}
}

func (d *Document) Entrypoint(vendorID string) (widget.InitFunc, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn, ok := d.entries[vendorID]
	return fn, ok
}

// Scripts returns the src of every appended script in order.
func (d *Document) Scripts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.scripts))
	for i, s := range d.scripts {
		out[i] = s.Src
	}
	return out
}
