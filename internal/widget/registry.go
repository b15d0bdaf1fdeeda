package widget

import (
	"sync"

	"github.com/MrSnakeDoc/wayfare/internal/logger"
	"github.com/MrSnakeDoc/wayfare/internal/metrics"
)

// Vendor describes a third-party loader script.
type Vendor struct {
	ID        string
	ScriptURL string
	Pattern   string // substring identifying the vendor's script tag, defaults to ScriptURL
}

func (v Vendor) match() string {
	if v.Pattern != "" {
		return v.Pattern
	}
	return v.ScriptURL
}

// LoaderState is the per-vendor loading state of one document.
type LoaderState struct {
	ScriptPresent bool
	VendorReady   bool
	LoadFailed    bool
}

// Registry tracks which vendor scripts a document already carries. The
// document scan is only a fallback for tags added outside the registry.
type Registry struct {
	mu     sync.Mutex
	states map[string]*LoaderState
	log    logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		states: make(map[string]*LoaderState),
		log:    log,
	}
}

// Ensure appends the vendor script unless it is already present and reports
// whether a script was appended. It never waits for the script to load.
func (r *Registry) Ensure(doc Document, v Vendor) bool {
	r.mu.Lock()
	st := r.stateLocked(v.ID)
	if st.ScriptPresent {
		r.mu.Unlock()
		return false
	}
	if doc.HasScript(v.match()) {
		st.ScriptPresent = true
		r.mu.Unlock()
		r.log.Debug("vendor script already on page",
			logger.String("vendor", v.ID))
		return false
	}
	st.ScriptPresent = true
	r.mu.Unlock()

	// Appended outside the lock: a document may report load errors synchronously.
	vendorID := v.ID
	doc.AppendScript(Script{
		Src:   v.ScriptURL,
		Async: true,
		OnError: func(err error) {
			r.markFailed(vendorID, err)
		},
	})
	metrics.VendorScriptInjections.WithLabelValues(v.ID).Inc()
	r.log.Debug("vendor script injected",
		logger.String("vendor", v.ID),
		logger.String("src", v.ScriptURL))
	return true
}

// MarkReady records that the vendor entry point was observed.
func (r *Registry) MarkReady(vendorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stateLocked(vendorID).VendorReady = true
}

// State returns a copy of the vendor's loader state.
func (r *Registry) State(vendorID string) LoaderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[vendorID]; ok {
		return *st
	}
	return LoaderState{}
}

func (r *Registry) markFailed(vendorID string, err error) {
	r.mu.Lock()
	r.stateLocked(vendorID).LoadFailed = true
	r.mu.Unlock()

	metrics.VendorScriptFailures.WithLabelValues(vendorID).Inc()
	r.log.Error("vendor script failed to load",
		logger.String("vendor", vendorID),
		logger.Error(err))
}

func (r *Registry) stateLocked(vendorID string) *LoaderState {
	st, ok := r.states[vendorID]
	if !ok {
		st = &LoaderState{}
		r.states[vendorID] = st
	}
	return st
}
