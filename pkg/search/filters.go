package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoFilters is returned when a search is requested without any filter.
// Callers skip the search instead of returning the whole table.
var ErrNoFilters = errors.New("no filters provided")

// FilterError describes a filter value that cannot be turned into a predicate.
type FilterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// IsFilterError reports whether err is or wraps a *FilterError
func IsFilterError(err error) bool {
	var fe *FilterError
	return errors.As(err, &fe)
}

// AgeRange is an inclusive age interval. Open ranges ("60+") have no maximum.
type AgeRange struct {
	Min  int
	Max  int
	Open bool
}

// ParseAgeRange accepts "min-max" and "min+". An empty value means no constraint.
// "min-N+" is rejected rather than guessed at.
func ParseAgeRange(field, value string) (*AgeRange, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if minPart, ok := strings.CutSuffix(value, "+"); ok {
		if a, b, ranged := strings.Cut(minPart, "-"); ranged && strings.TrimSpace(a) != "" && strings.TrimSpace(b) != "" {
			return nil, &FilterError{Field: field, Value: value, Reason: `a range cannot be open-ended; use "min+" for no maximum`}
		}
		lo, err := parseNonNegative(minPart)
		if err != nil {
			return nil, &FilterError{Field: field, Value: value, Reason: "minimum age must be a non-negative integer"}
		}
		return &AgeRange{Min: lo, Open: true}, nil
	}

	minPart, maxPart, ok := strings.Cut(value, "-")
	if !ok {
		return nil, &FilterError{Field: field, Value: value, Reason: `expected "min-max" or "min+"`}
	}

	lo, err := parseNonNegative(minPart)
	if err != nil {
		return nil, &FilterError{Field: field, Value: value, Reason: "minimum age must be a non-negative integer"}
	}
	hi, err := parseNonNegative(maxPart)
	if err != nil {
		return nil, &FilterError{Field: field, Value: value, Reason: "maximum age must be a non-negative integer"}
	}
	if lo > hi {
		return nil, &FilterError{Field: field, Value: value, Reason: "minimum age exceeds maximum age"}
	}

	return &AgeRange{Min: lo, Max: hi}, nil
}

// BirthYears converts the range to birth years relative to currentYear.
// For open ranges only the latest birth year is meaningful.
func (r AgeRange) BirthYears(currentYear int) (earliest, latest int) {
	latest = currentYear - r.Min
	if r.Open {
		return 0, latest
	}
	return currentYear - r.Max, latest
}

// Count is an exact count ("2") or an open-ended minimum ("3+").
type Count struct {
	N       int
	AtLeast bool
}

// ParseCount accepts "N" and "N+". An empty value means no constraint.
func ParseCount(field, value string) (*Count, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	digits, atLeast := strings.CutSuffix(value, "+")
	n, err := parseNonNegative(digits)
	if err != nil {
		return nil, &FilterError{Field: field, Value: value, Reason: `expected "N" or "N+"`}
	}
	return &Count{N: n, AtLeast: atLeast}, nil
}

// ParseYear accepts exactly four digits.
func ParseYear(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if len(value) != 4 {
		return "", &FilterError{Field: field, Value: value, Reason: "year must have four digits"}
	}
	if _, err := parseNonNegative(value); err != nil {
		return "", &FilterError{Field: field, Value: value, Reason: "year must have four digits"}
	}
	return value, nil
}

func parseNonNegative(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "+-") {
		return 0, fmt.Errorf("not a non-negative integer: %q", s)
	}
	return strconv.Atoi(s)
}
