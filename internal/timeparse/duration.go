package timeparse

import (
	"fmt"
	"strconv"
	"strings"
)

// DurationError reports a malformed duration value for a named field.
type DurationError struct {
	Field string
	Value string
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("%s must be minutes, H:MM like 7:30, or like 7h30m (got %q)", e.Field, e.Value)
}

// ParseMinutes parses a free-form duration into whole minutes.
//
// Accepted: plain minutes ("90"), "H:MM" ("7:30" -> 450), and compound
// "7h30m" / "7h" / "30m" with optional spaces between tokens. Blank
// input means the field was left unset and returns nil. The field name
// is carried into errors so callers can surface a precise message.
func ParseMinutes(field, value string) (*int, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return nil, nil
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
			return nil, &DurationError{Field: field, Value: value}
		}
		h, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		if m >= 60 {
			return nil, &DurationError{Field: field, Value: value}
		}
		total := h*60 + m
		return &total, nil
	}

	if isDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, &DurationError{Field: field, Value: value}
		}
		return &n, nil
	}

	// Compound form: digit runs flushed by a trailing h/m unit.
	total := 0
	num := ""
	sawUnit := false

	flush := func(unit byte) error {
		if num == "" {
			return &DurationError{Field: field, Value: value}
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return &DurationError{Field: field, Value: value}
		}
		switch unit {
		case 'h':
			total += n * 60
		case 'm':
			total += n
		}
		num = ""
		sawUnit = true
		return nil
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= '0' && ch <= '9':
			num += string(ch)
		case ch == 'h' || ch == 'm':
			if err := flush(ch); err != nil {
				return nil, err
			}
		case ch == ' ':
			continue
		default:
			return nil, &DurationError{Field: field, Value: value}
		}
	}

	if num != "" {
		// Trailing numeral with no unit, e.g. "7h30".
		return nil, &DurationError{Field: field, Value: value}
	}
	if !sawUnit {
		return nil, &DurationError{Field: field, Value: value}
	}
	return &total, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
