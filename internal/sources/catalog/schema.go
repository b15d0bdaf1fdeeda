package catalog

import "github.com/MrSnakeDoc/wayfare/internal/widget"

// File represents the top-level structure of tours.yaml
type File struct {
	Defaults Defaults `yaml:"defaults"`
	Cities   []City   `yaml:"cities" validate:"required,min=1,dive"`
}

// Defaults are applied to every tour that leaves the field empty.
type Defaults struct {
	Currency  string `yaml:"currency" validate:"omitempty,len=3"`
	PartnerID string `yaml:"partner_id"`
}

// City groups the tours published under /tours/{slug}/.
type City struct {
	Slug  string      `yaml:"slug" validate:"required,max=64"`
	Name  string      `yaml:"name" validate:"required"`
	Tours []TourProps `yaml:"tours" validate:"dive"`
}

// TourProps contains the listing of one tour
type TourProps struct {
	ID          string          `yaml:"id" validate:"required,max=128"`
	Slug        string          `yaml:"slug" validate:"required,max=256"`
	Title       string          `yaml:"title" validate:"required,max=512"`
	Image       string          `yaml:"image,omitempty" validate:"omitempty,url"`
	Price       float64         `yaml:"price" validate:"gte=0"`
	Currency    string          `yaml:"currency,omitempty" validate:"omitempty,len=3"`
	Rating      float64         `yaml:"rating" validate:"gte=0,lte=5"`
	Reviews     int             `yaml:"reviews" validate:"gte=0"`
	Duration    string          `yaml:"duration,omitempty"`
	Tags        []string        `yaml:"tags,omitempty"`
	Widgets     []widget.Config `yaml:"widgets,omitempty" validate:"dive"`
	Disabled    bool            `yaml:"disabled,omitempty"`
}
