package params

import (
	"fmt"
	"strings"
)

// ParseKeyValuePairs converts a slice of "key=value" strings into a map.
// Uses strings.Cut() (Go 1.18+) for cleaner parsing.
//
// Example:
//
//	assignments, err := ParseKeyValuePairs([]string{"gain=2.5", "mode=1"})
//	// Returns: map[string]string{"gain": "2.5", "mode": "1"}
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("assignment %q is not in name=value format (example: --set gain=2.5)", pair)
		}

		if key == "" {
			return nil, fmt.Errorf("assignment has empty name: %q", pair)
		}

		result[key] = value
	}

	return result, nil
}
