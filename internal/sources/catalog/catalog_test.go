package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/wayfare/internal/widget"
)

const validCatalog = `---
defaults:
  currency: eur
  partner_id: ${TEST_PARTNER}
cities:
  - slug: Paris
    name: Paris
    tours:
      - id: t-1
        slug: louvre-skip-the-line
        title: Louvre Skip-the-Line
        image: https://img.example.com/louvre.jpg
        price: 59
        rating: 4.7
        reviews: 1203
        duration: 3h
        tags: [museum, art]
        widgets:
          - kind: availability
            destination_id: "98213"
          - kind: booking-widget
            destination_id: "louvre"
            partner_id: own
  - slug: rome
    name: Rome
    tours:
      - id: t-2
        slug: colosseum
        title: Colosseum Underground
        currency: usd
        price: 79
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tours.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	loader := NewLoader(writeCatalog(t, validCatalog))
	loader.lookup = func(name string) (string, bool) {
		if name == "TEST_PARTNER" {
			return "acme", true
		}
		return "", false
	}

	file, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(file.Cities) != 2 || len(file.Cities[0].Tours) != 1 {
		t.Fatalf("Load() = %+v", file)
	}
	if file.Defaults.PartnerID != "acme" {
		t.Errorf("PartnerID = %q, want expanded value", file.Defaults.PartnerID)
	}
	if got := file.Cities[0].Tours[0].Widgets[0].Kind; got != widget.KindAvailability {
		t.Errorf("widget kind = %q", got)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/tours.yaml")
	if _, err := loader.Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	loader := NewLoader(writeCatalog(t, "cities: [unterminated"))
	if _, err := loader.Load(); err == nil {
		t.Error("Load() with invalid yaml should return error")
	}
}

func TestLoaderLoadValidationErrors(t *testing.T) {
	content := `cities:
  - slug: paris
    name: Paris
    tours:
      - id: t-1
        slug: louvre
        title: Louvre
        rating: 9
      - id: t-1
        slug: louvre
        title: Louvre again
        image: not-a-url
        widgets:
          - kind: availability
`
	_, err := NewLoader(writeCatalog(t, content)).Load()

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Load() error = %v, want ValidationErrors", err)
	}

	msg := verrs.Error()
	for _, want := range []string{
		"Cities[0].Tours[0].Rating",
		"Cities[0].Tours[1].Image",
		"Cities[0].Tours[1].Widgets[0].DestinationID",
		`duplicate tour id "t-1"`,
		`duplicate tour path "paris/louvre"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("validation error %q should mention %q", msg, want)
		}
	}
}

func TestValidateEmptyCatalog(t *testing.T) {
	if err := Validate(&File{}); err == nil {
		t.Error("a catalog without cities should be rejected")
	}
}

func TestExpandVariables(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "SET" {
			return "value", true
		}
		return "", false
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single variable", input: "a: ${SET}", expected: "a: value"},
		{name: "unset variable", input: "a: ${UNSET}", expected: "a: "},
		{name: "multiple", input: "${SET}-${SET}", expected: "value-value"},
		{name: "no variables", input: "a: $SET {x}", expected: "a: $SET {x}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(expandVariables([]byte(tt.input), lookup)); got != tt.expected {
				t.Errorf("expandVariables() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMapperMapTours(t *testing.T) {
	loader := NewLoader(writeCatalog(t, validCatalog))
	loader.lookup = func(string) (string, bool) { return "acme", true }
	file, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tours, err := NewMapper().MapTours(file)
	if err != nil {
		t.Fatalf("MapTours() error = %v", err)
	}
	if len(tours) != 2 {
		t.Fatalf("MapTours() returned %d tours, want 2", len(tours))
	}

	louvre := tours[0]
	if louvre.Path() != "paris/louvre-skip-the-line" {
		t.Errorf("Path() = %q, city slug should be lowercased", louvre.Path())
	}
	if louvre.Currency != "EUR" {
		t.Errorf("Currency = %q, want default EUR", louvre.Currency)
	}
	if louvre.Widgets[0].PartnerID != "acme" {
		t.Errorf("widget partner = %q, want default acme", louvre.Widgets[0].PartnerID)
	}
	if louvre.Widgets[1].PartnerID != "own" {
		t.Errorf("widget partner = %q, explicit value must win", louvre.Widgets[1].PartnerID)
	}
	if tours[1].Currency != "USD" {
		t.Errorf("Currency = %q, want USD", tours[1].Currency)
	}
	if len(louvre.Sources) != 1 || louvre.Sources[0] != "catalog" {
		t.Errorf("Sources = %v", louvre.Sources)
	}
}

func TestMapperNoTours(t *testing.T) {
	tours, err := NewMapper().MapTours(&File{Cities: []City{{Slug: "paris", Name: "Paris"}}})
	if err == nil {
		t.Error("MapTours() should return error when no tours found")
	}
	if tours != nil {
		t.Errorf("MapTours() should return nil, got %d tours", len(tours))
	}
}
