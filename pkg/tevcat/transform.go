package tevcat

import (
	"fmt"

	"github.com/cdeil/astroquery/pkg/cosmology"
)

// kpcPerMpc converts megaparsec distances to the kiloparsec column unit.
const kpcPerMpc = 1000

// DistanceModRedshift marks a distance value that actually carries a
// redshift.
const DistanceModRedshift = "z"

// ReconstructDate expands a compact year+month code like "201203" to the
// partial ISO form "2012-03-01". The day is fixed to the first because the
// source grants only year/month precision. Malformed codes produce malformed
// output strings rather than errors; upstream data quality is not validated
// here.
func ReconstructDate(code string) string {
	year := code
	if len(year) > 4 {
		year = year[:4]
	}

	month := ""

	if len(code) > 4 {
		month = code[4:]
		if len(month) > 2 {
			month = month[:2]
		}
	}

	return year + "-" + month + "-01"
}

// ReconstructDates applies ReconstructDate to a whole column.
func ReconstructDates(codes []string) []string {
	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = ReconstructDate(code)
	}

	return out
}

// DeriveDistance resolves the distance column. Entries whose mod flag equals
// DistanceModRedshift carry a redshift instead of a distance; those are
// replaced with the luminosity distance under the given model, converted to
// kpc. All other entries are already in kpc and pass through unchanged. A
// nil model falls back to cosmology.Default().
func DeriveDistance(direct []float64, mods []string, model *cosmology.Model) ([]float64, error) {
	if len(direct) != len(mods) {
		return nil, fmt.Errorf("distance and distance_mod length mismatch: %d != %d", len(direct), len(mods))
	}

	if model == nil {
		model = cosmology.Default()
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, len(direct))

	for i, v := range direct {
		if mods[i] == DistanceModRedshift {
			out[i] = model.LuminosityDistance(v) * kpcPerMpc

			continue
		}

		out[i] = v
	}

	return out, nil
}
