// Package validate provides pure predicate functions for user input.
// Nothing here touches the network or mutates state; a valid URL is a
// structurally valid one, not a reachable one.
package validate

import (
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// Validity period bounds, in minutes. The upper bound is one week.
const (
	MinValidityMinutes = 1
	MaxValidityMinutes = 10080
)

// Short codes are 3-10 alphanumeric characters, nothing else.
var shortCodeRegex = regexp.MustCompile(`^[A-Za-z0-9]{3,10}$`)

// URL reports whether s is a structurally valid absolute http(s) URL.
func URL(s string) bool {
	if s == "" {
		return false
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

// ShortCode reports whether s is a syntactically legal short code.
func ShortCode(s string) bool {
	return shortCodeRegex.MatchString(s)
}

// ParseValidityPeriod parses s as a whole-string integer number of
// minutes and reports whether it lies within the allowed range.
// Inputs with trailing non-digit characters are rejected.
func ParseValidityPeriod(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if n < MinValidityMinutes || n > MaxValidityMinutes {
		return 0, false
	}
	return n, true
}

// ValidityPeriod reports whether s is a valid validity period.
func ValidityPeriod(s string) bool {
	_, ok := ParseValidityPeriod(s)
	return ok
}

// Expired reports whether the expiry instant has passed at the given time.
func Expired(expiry, now time.Time) bool {
	return !expiry.After(now)
}

// FormatExpiry renders an expiry timestamp for display. It is not a
// contract boundary; persisted timestamps use RFC 3339.
func FormatExpiry(t time.Time) string {
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}
