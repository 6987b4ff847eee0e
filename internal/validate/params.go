package validate

import (
	"errors"
	"strconv"
	"strings"
)

// SplitCSV: "a, b,,a" -> []{"a","b"} (trimmed/lowercased/deduped).
// Returns an empty, non-nil slice for blank input.
func SplitCSV(csv string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range strings.Split(csv, ",") {
		s := strings.ToLower(strings.TrimSpace(p))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// OptionalInt parses a query value. ok is false when raw is blank.
func OptionalInt(name, raw string) (n int, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, errors.New(name + " must be an integer")
	}
	return n, true, nil
}

// OptionalBool accepts the strconv.ParseBool forms plus yes/no and on/off.
func OptionalBool(name, raw string) (b bool, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return false, false, nil
	case "yes", "on":
		return true, true, nil
	case "no", "off":
		return false, true, nil
	}
	b, err = strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false, errors.New(name + " must be a boolean")
	}
	return b, true, nil
}

// InRange reports an error naming the field when n is outside [lo, hi].
func InRange(name string, n, lo, hi int) error {
	if n < lo || n > hi {
		return errors.New(name + " must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi))
	}
	return nil
}
