package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// fractionalSeconds matches the fractional part of a timestamp. The cloud
// sends anywhere from zero to nine digits, so it is dropped entirely.
var fractionalSeconds = regexp.MustCompile(`\.\d*`)

// naiveLayout is accepted for timestamps carrying no offset; they are read as UTC.
const naiveLayout = "2006-01-02T15:04:05"

var clock = time.Now

// Now returns the current instant in UTC.
func Now() time.Time {
	return clock().UTC()
}

// ParseServerTimestamp parses a timestamp as sent by the cloud, e.g.
// "2023-01-01T10:00:00.123456Z". Sub-second precision is discarded.
func ParseServerTimestamp(raw string) (time.Time, error) {
	s := fractionalSeconds.ReplaceAllString(raw, "")
	s = strings.ReplaceAll(s, "Z", "+00:00")

	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t.UTC(), nil
	}
	if naive, nerr := time.Parse(naiveLayout, s); nerr == nil {
		return naive.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
}
