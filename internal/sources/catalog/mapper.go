package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/wayfare/internal/domain"
	"github.com/MrSnakeDoc/wayfare/internal/widget"
)

// Mapper converts catalog entries to domain.Tour entities
type Mapper struct {
	now func() time.Time
}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// MapTours converts a loaded catalog to []*domain.Tour
func (m *Mapper) MapTours(f *File) ([]*domain.Tour, error) {
	var tours []*domain.Tour
	now := m.now()

	for _, city := range f.Cities {
		citySlug := strings.ToLower(city.Slug)
		for _, props := range city.Tours {
			currency := props.Currency
			if currency == "" {
				currency = f.Defaults.Currency
			}

			tour := &domain.Tour{
				ID:          props.ID,
				CitySlug:    citySlug,
				Slug:        strings.ToLower(props.Slug),
				City:        city.Name,
				Title:       props.Title,
				ImageURL:    props.Image,
				Price:       props.Price,
				Currency:    strings.ToUpper(currency),
				Rating:      props.Rating,
				ReviewCount: props.Reviews,
				Duration:    props.Duration,
				Tags:        props.Tags,
				Widgets:     mapWidgets(props.Widgets, f.Defaults.PartnerID),
				Sources:     []string{"catalog"},
				CreatedAt:   now,
				UpdatedAt:   now,
				Disabled:    props.Disabled,
			}

			tours = append(tours, tour)
		}
	}

	if len(tours) == 0 {
		return nil, fmt.Errorf("no tours found in catalog")
	}

	return tours, nil
}

func mapWidgets(in []widget.Config, partnerID string) []widget.Config {
	if len(in) == 0 {
		return nil
	}
	out := make([]widget.Config, len(in))
	for i, cfg := range in {
		if cfg.PartnerID == "" {
			cfg.PartnerID = partnerID
		}
		out[i] = cfg
	}
	return out
}
