package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reRegNo = regexp.MustCompile(`^[A-Za-z0-9/-]{4,20}$`)
	// 24-hour wall clock, e.g. "9:05" or "17:00"
	reTime = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// ID validates a simple resource identifier (equipment/record/request ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// RegNo validates a university registration number.
func RegNo(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reRegNo.MatchString(s)
}

// Qty parses a strictly positive integer quantity. Unlike a clamp, a parse
// failure or non-positive value is rejected so the ledger can refuse it.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// TimeOfDay validates an optional HH:MM expected-return time. An empty string
// is valid and means "no deadline".
func TimeOfDay(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reTime.MatchString(s)
}

// Password enforces a simple strength window for account creation.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}
