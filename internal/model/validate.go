package model

// Validation helpers shared by the per-entity validators. All validators
// are pure functions over the payload; they hold no state and are safe to
// call from concurrent requests. Each validator stops at the first
// violation so handlers surface a single human-readable message.

import (
	"fmt"
	"strings"
)

// required fails when a mandatory string field is empty.
func required(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// strLen enforces length bounds on a string field. A max of 0 means
// unbounded. When must is false an empty value passes (optional field).
func strLen(field, v string, min, max int, must bool) error {
	if v == "" {
		if must {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
	if len(v) < min {
		return fmt.Errorf("%s must be at least %d characters", field, min)
	}
	if max > 0 && len(v) > max {
		return fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return nil
}

// oneOf enforces an enum field against its allowed values.
func oneOf(field, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of [%s]", field, strings.Join(allowed, ", "))
}

// emailShape performs the minimal structural check the API promises: one
// "@" with a non-empty local part and a domain containing a dot.
func emailShape(field, v string) error {
	at := strings.Index(v, "@")
	if at < 1 || at == len(v)-1 {
		return fmt.Errorf("%s must be a valid email", field)
	}
	domain := v[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("%s must be a valid email", field)
	}
	return nil
}
