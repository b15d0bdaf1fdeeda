package widget

import (
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/wayfare/internal/logger"
	"github.com/MrSnakeDoc/wayfare/internal/metrics"
)

// PrepareFunc readies a container before the first readiness poll.
type PrepareFunc func(c Container, cfg Config)

// PrepareElement replaces the container content with one element carrying the
// widget's data attributes (availability box).
func PrepareElement(c Container, cfg Config) {
	c.ReplaceChildren(Element{Tag: "div", Attrs: cfg.Attributes()})
}

// PrepareAttributes only tags the container; the vendor finds it by its data
// attributes at init time (discovery grid).
func PrepareAttributes(c Container, cfg Config) {
	c.SetAttributes(cfg.Attributes())
}

// PollingStrategy waits for the vendor's global entry point with a bounded
// number of polls and calls it once.
type PollingStrategy struct {
	Vendor  Vendor
	Timing  Timing
	Prepare PrepareFunc
}

func (s *PollingStrategy) Start(env Env, inst *Instance) Task {
	env.Registry.Ensure(env.Doc, s.Vendor)
	inst.transition(StateScriptEnsured)

	cfg := inst.Config()
	if s.Prepare != nil {
		s.Prepare(inst.container, cfg)
	}

	t := &pollTask{
		env:    env,
		inst:   inst,
		vendor: s.Vendor,
		cfg:    cfg,
		timing: s.Timing,
	}
	inst.polled(0)
	t.start()
	return t
}

type pollTask struct {
	env    Env
	inst   *Instance
	vendor Vendor
	cfg    Config // snapshot taken at start; never the instance's later config
	timing Timing

	mu        sync.Mutex
	timer     Timer
	attempt   int
	cancelled bool
	done      bool
}

func (t *pollTask) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = t.env.Clock.AfterFunc(t.timing.InitialDelay, t.poll)
}

// poll runs one readiness check. The decision to call the entry point is
// taken under mu; the call itself runs without it so the vendor may unmount
// or update its own instance from inside init.
func (t *pollTask) poll() {
	t.mu.Lock()
	if t.cancelled || t.done {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.attempt++
	t.inst.polled(t.attempt)

	initFn, ready := t.env.Doc.Entrypoint(t.vendor.ID)
	if ready {
		t.done = true
		t.mu.Unlock()
		t.env.Registry.MarkReady(t.vendor.ID)
		t.initialize(initFn)
		return
	}
	defer t.mu.Unlock()

	if t.attempt >= t.timing.MaxAttempts {
		t.done = true
		t.inst.settle(StateExhausted, nil)
		metrics.WidgetOutcome(string(t.cfg.Kind), metrics.OutcomeExhausted, t.attempt)
		t.env.Log.Warn("widget vendor not ready, giving up",
			logger.String("instance", t.inst.id),
			logger.String("vendor", t.vendor.ID),
			logger.String("kind", string(t.cfg.Kind)),
			logger.String("destination", t.cfg.DestinationID),
			logger.Int("attempts", t.attempt),
			logger.Bool("script_failed", t.env.Registry.State(t.vendor.ID).LoadFailed))
		return
	}

	t.timer = t.env.Clock.AfterFunc(t.timing.PollInterval, t.poll)
}

// initialize calls the entry point once. If the task was cancelled while
// init ran, the instance state set by the canceller is left alone.
func (t *pollTask) initialize(initFn InitFunc) {
	err := safeInit(initFn, t.cfg)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}

	if err != nil {
		t.inst.settle(StateFailed, err)
		metrics.WidgetOutcome(string(t.cfg.Kind), metrics.OutcomeFailed, t.attempt)
		t.env.Log.Warn("widget vendor init failed",
			logger.String("instance", t.inst.id),
			logger.String("vendor", t.vendor.ID),
			logger.String("destination", t.cfg.DestinationID),
			logger.Error(err))
		return
	}

	t.inst.settle(StateInitialized, nil)
	metrics.WidgetOutcome(string(t.cfg.Kind), metrics.OutcomeInitialized, t.attempt)
	t.env.Log.Debug("widget initialized",
		logger.String("instance", t.inst.id),
		logger.String("vendor", t.vendor.ID),
		logger.String("destination", t.cfg.DestinationID),
		logger.Int("attempts", t.attempt))
}

func (t *pollTask) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled || t.done {
		t.cancelled = true
		return false
	}
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	metrics.WidgetOutcome(string(t.cfg.Kind), metrics.OutcomeCancelled, t.attempt)
	return true
}

// safeInit keeps a panicking vendor entry point from taking the caller down.
func safeInit(initFn InitFunc, cfg Config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("vendor init panicked: %v", r)
		}
	}()
	return initFn(cfg)
}
