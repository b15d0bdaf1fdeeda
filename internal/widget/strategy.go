package widget

import (
	"time"

	"github.com/MrSnakeDoc/wayfare/internal/logger"
)

// Env is what a strategy needs from the coordinator.
type Env struct {
	Doc      Document
	Registry *Registry
	Clock    Clock
	Log      logger.Logger
}

// Task is the cancellable remainder of an initialization sequence.
type Task interface {
	// Cancel stops the task. It returns true when pending work was dropped.
	// After Cancel returns no initialization call of this task starts; a call
	// already in progress finishes but no longer changes the instance state.
	// Cancel may be called from inside the vendor's init.
	Cancel() bool
}

// Strategy prepares a container and initializes the instance mounted in it.
type Strategy interface {
	Start(env Env, inst *Instance) Task
}

// Timing bounds the readiness polling of the poll-based vendor.
type Timing struct {
	InitialDelay time.Duration
	PollInterval time.Duration
	MaxAttempts  int
}

// DefaultTiming waits 300ms for the DOM to settle, then polls every 100ms for 2s.
func DefaultTiming() Timing {
	return Timing{
		InitialDelay: 300 * time.Millisecond,
		PollInterval: 100 * time.Millisecond,
		MaxAttempts:  20,
	}
}

// Vendors is the set of third-party integrations a site uses.
type Vendors struct {
	Activity Vendor // availability and discovery widgets
	Booking  Vendor // booking-widget custom element
	FrameURL string // booking vendor embed page
	Timing   Timing
}

// DefaultStrategies maps every Kind to its strategy.
func DefaultStrategies(v Vendors) map[Kind]Strategy {
	return map[Kind]Strategy{
		KindAvailability: &PollingStrategy{Vendor: v.Activity, Timing: v.Timing, Prepare: PrepareElement},
		KindDiscovery:    &PollingStrategy{Vendor: v.Activity, Timing: v.Timing, Prepare: PrepareAttributes},
		KindBooking:      &PresenceStrategy{Vendor: v.Booking, Tag: BookingTag},
		KindFrame:        &FrameStrategy{URL: v.FrameURL},
	}
}

type noopTask struct{}

func (noopTask) Cancel() bool { return false }
