// Package angle parses sexagesimal coordinate strings into decimal degrees.
package angle

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit selects how the leading component of an angle string is interpreted.
type Unit int

const (
	// Degree interprets the leading component as degrees.
	Degree Unit = iota
	// Hour interprets the leading component as hours (1 hour = 15 degrees).
	Hour
)

// Angle errors.
var (
	ErrEmptyAngle    = errors.New("empty angle string")
	ErrIllegalMinute = errors.New("minutes component out of range")

	// ErrIllegalSecond reports a seconds component of 60 or more. Parse still
	// returns the angle computed from the raw value, so callers may log the
	// problem and keep the result.
	ErrIllegalSecond = errors.New("seconds component out of range")
)

// Parse converts a sexagesimal angle string to decimal degrees.
//
// Components may be separated by colons, whitespace or unit letters
// ("05 34 31.2", "5:34:31.2", "5h34m31.2s"). One to three components are
// accepted and only the last one may be fractional. A leading sign applies
// to the whole angle, including a zero leading component ("-00 30 00").
// With unit Hour the result is multiplied by 15.
//
// On failure Parse returns NaN, except for ErrIllegalSecond where the
// computed angle is returned alongside the error.
func Parse(value string, unit Unit) (float64, error) {
	fields := strings.Fields(normalize(value))
	if len(fields) == 0 {
		return math.NaN(), ErrEmptyAngle
	}

	if len(fields) > 3 {
		return math.NaN(), fmt.Errorf("too many components in angle %q", value)
	}

	sign := 1.0

	switch {
	case strings.HasPrefix(fields[0], "-"):
		sign = -1
		fields[0] = fields[0][1:]
	case strings.HasPrefix(fields[0], "+"):
		fields[0] = fields[0][1:]
	}

	parts := make([]float64, len(fields))

	for i, field := range fields {
		if i < len(fields)-1 && strings.Contains(field, ".") {
			return math.NaN(), fmt.Errorf("fractional component %q before the last in angle %q", field, value)
		}

		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("invalid angle %q: %w", value, err)
		}

		if v < 0 {
			return math.NaN(), fmt.Errorf("embedded sign in angle %q", value)
		}

		parts[i] = v
	}

	deg := parts[0]

	var illegal error

	if len(parts) > 1 {
		if parts[1] >= 60 {
			return math.NaN(), fmt.Errorf("%w: %q", ErrIllegalMinute, value)
		}

		deg += parts[1] / 60
	}

	if len(parts) > 2 {
		if parts[2] >= 60 {
			illegal = fmt.Errorf("%w: %q", ErrIllegalSecond, value)
		}

		deg += parts[2] / 3600
	}

	if unit == Hour {
		deg *= 15
	}

	return sign * deg, illegal
}

// normalize replaces colon, unit-letter and symbol separators with spaces so
// that all supported formats split the same way.
func normalize(value string) string {
	var b strings.Builder

	b.Grow(len(value))

	for _, r := range value {
		switch r {
		case ':', 'h', 'H', 'd', 'D', 'm', 'M', 's', 'S', '\'', '"', '°', '′', '″':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
