package password

import (
	"os"
	"strconv"
	"strings"
)

// Defaults fill in whatever a generate request leaves out.
type Defaults struct {
	Length         int
	MaxLength      int
	ExcludeSimilar bool
	Classes        []Class
}

func loadEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func loadEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// Default policy is 16 chars from every class; adjust by env without code changes.
func LoadDefaultsFromEnv() Defaults {
	d := Defaults{
		Length:         loadEnvInt("PASSWORD_DEFAULT_LENGTH", 16),
		MaxLength:      loadEnvInt("PASSWORD_MAX_LENGTH", 128),
		ExcludeSimilar: loadEnvBool("PASSWORD_EXCLUDE_SIMILAR", false),
		Classes:        AllClasses,
	}
	if d.Length > d.MaxLength {
		d.Length = d.MaxLength
	}
	return d
}

// Policy builds a Policy from d with optional overrides. A zero length or nil
// classes keep the default; a non-nil empty classes slice is passed through
// and will fail validation.
func (d Defaults) Policy(length int, classes []Class, excludeSimilar *bool) Policy {
	p := Policy{Length: d.Length, Classes: d.Classes, ExcludeSimilar: d.ExcludeSimilar}
	if length != 0 {
		p.Length = length
	}
	if classes != nil {
		p.Classes = classes
	}
	if excludeSimilar != nil {
		p.ExcludeSimilar = *excludeSimilar
	}
	return p
}
