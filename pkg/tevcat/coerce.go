package tevcat

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrCoercion indicates a raw value that cannot be cast to the target
// column type. This is a data-contract violation and fails the column.
var ErrCoercion = errors.New("cannot coerce value")

// Missing-value sentinels.
const (
	// FillString replaces null in string columns.
	FillString = ""

	// FillLegacyInt is the historical fill for integer columns. Normal
	// assembly stores integer-valued columns as float with NaN fill; this
	// sentinel only applies when CoerceLegacyInts is called explicitly.
	FillLegacyInt = -99
)

// CoerceStrings converts one raw column to strings. Null becomes the empty
// string and numbers are formatted in their shortest decimal form. The
// output length always equals the input length.
func CoerceStrings(values []Scalar) []string {
	out := make([]string, len(values))

	for i, v := range values {
		if s, ok := v.AsString(); ok {
			out[i] = s

			continue
		}

		if n, ok := v.AsNumber(); ok {
			out[i] = strconv.FormatFloat(n, 'g', -1, 64)

			continue
		}

		out[i] = FillString
	}

	return out
}

// CoerceFloats converts one raw column to float64. Null and empty-string
// values become NaN. A non-numeric string fails the whole column.
func CoerceFloats(values []Scalar) ([]float64, error) {
	return coerceFloats(values, math.NaN())
}

// CoerceLegacyInts converts one raw column to float64 using the historical
// integer convention: null and empty-string values become FillLegacyInt.
func CoerceLegacyInts(values []Scalar) ([]float64, error) {
	return coerceFloats(values, FillLegacyInt)
}

func coerceFloats(values []Scalar, fill float64) ([]float64, error) {
	out := make([]float64, len(values))

	for i, v := range values {
		f, err := coerceFloat(v, fill)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}

		out[i] = f
	}

	return out, nil
}

func coerceFloat(v Scalar, fill float64) (float64, error) {
	if v.IsNull() {
		return fill, nil
	}

	if n, ok := v.AsNumber(); ok {
		return n, nil
	}

	s, _ := v.AsString()

	s = strings.TrimSpace(s)
	if s == "" {
		return fill, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrCoercion, s)
	}

	return f, nil
}
