// Package widget loads third-party booking widgets into a page: vendor
// scripts are injected once per document, and every mounted instance is
// initialized through the strategy of its kind. Poll-based initialization is
// bounded and cancellable; no init call runs for an instance after it was
// unmounted or its identity changed.
package widget

import (
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/wayfare/internal/logger"
)

// Coordinator owns the vendor registry of one document and its widget instances.
type Coordinator struct {
	env        Env
	strategies map[Kind]Strategy

	mu        sync.Mutex
	seq       uint64
	instances map[string]*Instance
}

type Option func(*Coordinator)

func WithClock(c Clock) Option {
	return func(co *Coordinator) { co.env.Clock = c }
}

func WithLogger(l logger.Logger) Option {
	return func(co *Coordinator) { co.env.Log = l }
}

// WithStrategies replaces the strategy table with a copy of s.
func WithStrategies(s map[Kind]Strategy) Option {
	return func(co *Coordinator) {
		co.strategies = make(map[Kind]Strategy, len(s))
		maps.Copy(co.strategies, s)
	}
}

// WithStrategy registers or overrides the strategy of one kind.
func WithStrategy(kind Kind, s Strategy) Option {
	return func(co *Coordinator) { co.strategies[kind] = s }
}

func NewCoordinator(doc Document, opts ...Option) *Coordinator {
	c := &Coordinator{
		env: Env{
			Doc:   doc,
			Clock: RealClock(),
			Log:   logger.NewNop(),
		},
		strategies: make(map[Kind]Strategy),
		instances:  make(map[string]*Instance),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.env.Registry = NewRegistry(c.env.Log)
	return c
}

// EnsureVendorScriptLoaded injects the vendor script unless the document
// already has it. Safe to call any number of times.
func (c *Coordinator) EnsureVendorScriptLoaded(v Vendor) {
	c.env.Registry.Ensure(c.env.Doc, v)
}

// LoaderState exposes the registry entry of a vendor.
func (c *Coordinator) LoaderState(vendorID string) LoaderState {
	return c.env.Registry.State(vendorID)
}

// Mount creates an instance in container and starts its initialization.
func (c *Coordinator) Mount(container Container, cfg Config) (*Instance, error) {
	strategy, err := c.strategyFor(cfg)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.seq++
	inst := &Instance{
		id:        uuid.NewString(),
		seq:       c.seq,
		container: container,
		cfg:       cfg,
		state:     StateMounted,
	}
	c.instances[inst.id] = inst
	c.mu.Unlock()

	inst.lifecycle.Lock()
	defer inst.lifecycle.Unlock()
	inst.task = strategy.Start(c.env, inst)

	c.env.Log.Debug("widget mounted",
		logger.String("instance", inst.id),
		logger.String("kind", string(cfg.Kind)),
		logger.String("destination", cfg.DestinationID))
	return inst, nil
}

// Update rebinds inst to cfg. An identity change cancels the running sequence
// and restarts initialization from attempt zero; vendor scripts are not
// injected again. Other changes only replace the display hints.
func (c *Coordinator) Update(inst *Instance, cfg Config) error {
	strategy, err := c.strategyFor(cfg)
	if err != nil {
		return err
	}

	inst.lifecycle.Lock()
	defer inst.lifecycle.Unlock()

	if inst.detached {
		return ErrDetached
	}
	if inst.Config().Identity() == cfg.Identity() {
		inst.setHints(cfg)
		return nil
	}

	if inst.task != nil {
		inst.task.Cancel()
	}
	inst.rebind(cfg)
	inst.task = strategy.Start(c.env, inst)

	c.env.Log.Debug("widget identity changed, restarted",
		logger.String("instance", inst.id),
		logger.String("kind", string(cfg.Kind)),
		logger.String("destination", cfg.DestinationID))
	return nil
}

// Unmount cancels any pending initialization of inst and forgets it.
func (c *Coordinator) Unmount(inst *Instance) {
	inst.lifecycle.Lock()
	if !inst.detached {
		if inst.task != nil {
			inst.task.Cancel()
		}
		inst.detached = true
		inst.cancel()
	}
	inst.lifecycle.Unlock()

	c.mu.Lock()
	delete(c.instances, inst.id)
	c.mu.Unlock()
}

// Close unmounts every instance.
func (c *Coordinator) Close() {
	for _, inst := range c.mounted() {
		c.Unmount(inst)
	}
}

// Instances returns the status of mounted instances in mount order.
func (c *Coordinator) Instances() []Status {
	mounted := c.mounted()
	out := make([]Status, 0, len(mounted))
	for _, inst := range mounted {
		out = append(out, inst.Status())
	}
	return out
}

func (c *Coordinator) mounted() []*Instance {
	c.mu.Lock()
	list := make([]*Instance, 0, len(c.instances))
	for _, inst := range c.instances {
		list = append(list, inst)
	}
	c.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })
	return list
}

func (c *Coordinator) strategyFor(cfg Config) (Strategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, ok := c.strategies[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, cfg.Kind)
	}
	return s, nil
}
