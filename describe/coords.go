package describe

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCoordinate parses a latitude or longitude given with either a comma
// or a period decimal separator ("-7,9666" and "-7.9666" are the same
// value).
func ParseCoordinate(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("empty coordinate")
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q", raw)
	}

	return value, nil
}
