// Package catalog loads the tour catalog from tours.yaml.
package catalog

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of tours.yaml
type Loader struct {
	filePath string
	lookup   func(string) (string, bool)
}

// NewLoader creates a new catalog loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		lookup:   os.LookupEnv,
	}
}

// Path is the catalog file this loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads, expands and validates the catalog file
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	data = expandVariables(data, l.lookup)

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	if err := Validate(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

var variablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandVariables replaces ${NAME} with the environment value, or an empty
// string when NAME is unset.
// Example: ${WAYFARE_PARTNER_ID} -> "acme"
func expandVariables(data []byte, lookup func(string) (string, bool)) []byte {
	return variablePattern.ReplaceAllFunc(data, func(m []byte) []byte {
		name := variablePattern.FindSubmatch(m)[1]
		v, _ := lookup(string(name))
		return []byte(v)
	})
}
