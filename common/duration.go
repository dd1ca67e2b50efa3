package common

import (
	"fmt"
	"time"
)

func DurationFromString(src string) (time.Duration, error) {
	out, err := time.ParseDuration(src)
	if err != nil {
		return 0, fmt.Errorf("parse duration '%s': %w", src, err)
	}

	return out, nil
}

// MustDurationFromString is used on configuration values that have already
// passed validation.
func MustDurationFromString(src string) time.Duration {
	out, err := DurationFromString(src)
	if err != nil {
		panic(err)
	}

	return out
}
