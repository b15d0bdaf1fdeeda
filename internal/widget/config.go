package widget

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Kind selects the initialization strategy of a widget instance.
type Kind string

const (
	KindAvailability Kind = "availability"   // activity vendor, single tour availability box
	KindDiscovery    Kind = "discovery"      // activity vendor, city grid queried by data attributes
	KindBooking      Kind = "booking-widget" // booking vendor custom element
	KindFrame        Kind = "frame"          // booking vendor embedded page
)

var (
	ErrUnknownKind   = errors.New("unknown widget kind")
	ErrInvalidConfig = errors.New("invalid widget config")
	ErrDetached      = errors.New("widget instance is unmounted")
)

var validate = validator.New()

// Config identifies one embedded widget. It is immutable once mounted: a different
// DestinationID or Campaign is a new logical instance.
type Config struct {
	Kind          Kind   `yaml:"kind" json:"kind" validate:"required"`
	DestinationID string `yaml:"destination_id" json:"destinationId" validate:"required,max=128"`
	Campaign      string `yaml:"campaign,omitempty" json:"campaign,omitempty" validate:"max=64"`
	Layout        string `yaml:"layout,omitempty" json:"layout,omitempty"`
	ItemCount     int    `yaml:"item_count,omitempty" json:"itemCount,omitempty" validate:"gte=0,lte=50"`
	PartnerID     string `yaml:"partner_id,omitempty" json:"partnerId,omitempty"`
}

// Known reports whether k is one of the built-in kinds.
func (k Kind) Known() bool {
	switch k {
	case KindAvailability, KindDiscovery, KindBooking, KindFrame:
		return true
	}
	return false
}

// Identity is the part of a Config whose change forces re-initialization.
type Identity struct {
	Kind          Kind
	DestinationID string
	Campaign      string
}

func (c Config) Identity() Identity {
	return Identity{Kind: c.Kind, DestinationID: c.DestinationID, Campaign: c.Campaign}
}

// Validate checks struct tags and returns ErrInvalidConfig on failure.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %q", ErrInvalidConfig, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Attributes returns the declarative data attributes the vendor scripts read.
// They are passed through unchanged; empty optional values are omitted.
func (c Config) Attributes() map[string]string {
	attrs := map[string]string{
		"data-widget":         string(c.Kind),
		"data-destination-id": c.DestinationID,
	}
	if c.Campaign != "" {
		attrs["data-campaign"] = c.Campaign
	}
	if c.Layout != "" {
		attrs["data-layout"] = c.Layout
	}
	if c.ItemCount > 0 {
		attrs["data-item-count"] = strconv.Itoa(c.ItemCount)
	}
	if c.PartnerID != "" {
		attrs["data-partner-id"] = c.PartnerID
	}
	return attrs
}
