package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseParams parses "key=value" / "key=<json>" pairs into a
// parameter mapping. A value that
// parses as JSON (a number, bool, array, object, or quoted string) is
// decoded as that type; anything else is kept as a raw string.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			params[key] = decoded
		} else {
			params[key] = raw
		}
	}
	return params, nil
}
