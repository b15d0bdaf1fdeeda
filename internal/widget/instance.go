package widget

import "sync"

// Instance is one mounted widget. Lock order: lifecycle, then the task's
// lock, then mu.
type Instance struct {
	id        string
	seq       uint64
	container Container

	// lifecycle serializes mount, update and unmount of this instance.
	lifecycle sync.Mutex
	task      Task
	detached  bool

	mu       sync.Mutex
	cfg      Config
	state    State
	attempts int
	err      error
	element  string // identifier of the element a strategy created in container
}

func (i *Instance) ID() string { return i.id }

// Container returns the mount point the instance was created with.
func (i *Instance) Container() Container { return i.container }

// Status returns a snapshot of the instance state machine.
func (i *Instance) Status() Status {
	i.mu.Lock()
	defer i.mu.Unlock()
	return Status{
		ID:       i.id,
		Config:   i.cfg,
		State:    i.state,
		Attempts: i.attempts,
		Err:      i.err,
	}
}

// Config returns the configuration the instance is currently bound to.
func (i *Instance) Config() Config {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cfg
}

func (i *Instance) transition(s State) {
	i.mu.Lock()
	i.state = s
	i.mu.Unlock()
}

func (i *Instance) polled(attempt int) {
	i.mu.Lock()
	i.state = StatePolling
	i.attempts = attempt
	i.mu.Unlock()
}

func (i *Instance) settle(s State, err error) {
	i.mu.Lock()
	i.state = s
	i.err = err
	i.mu.Unlock()
}

func (i *Instance) rebind(cfg Config) {
	i.mu.Lock()
	i.cfg = cfg
	i.state = StateMounted
	i.attempts = 0
	i.err = nil
	i.mu.Unlock()
}

func (i *Instance) setHints(cfg Config) {
	i.mu.Lock()
	i.cfg = cfg
	i.mu.Unlock()
}

func (i *Instance) ownedElement() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.element
}

func (i *Instance) ownElement(id string) {
	i.mu.Lock()
	i.element = id
	i.mu.Unlock()
}

// cancel moves a non-terminal instance to StateCancelled.
func (i *Instance) cancel() {
	i.mu.Lock()
	if !i.state.Terminal() {
		i.state = StateCancelled
	}
	i.mu.Unlock()
}
