package recent

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

// Encode serializes list as a URL-encoded JSON array. Spaces are written as
// %20 so client scripts can read the cookie with decodeURIComponent.
func Encode(list []Entry) (string, error) {
	if list == nil {
		list = []Entry{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal recently viewed: %w", err)
	}
	return strings.ReplaceAll(url.QueryEscape(string(data)), "+", "%20"), nil
}

// Decode parses a cookie value produced by Encode.
func Decode(raw string) ([]Entry, error) {
	if raw == "" {
		return []Entry{}, nil
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unescape recently viewed: %w", err)
	}
	var list []Entry
	if err := json.Unmarshal([]byte(decoded), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recently viewed: %w", err)
	}
	if list == nil {
		list = []Entry{}
	}
	return list, nil
}
