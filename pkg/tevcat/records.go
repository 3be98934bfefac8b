package tevcat

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
)

// Record structure errors.
var (
	ErrUnsupportedScalar = errors.New("unsupported scalar type in catalog data")
	ErrNoSources         = errors.New("catalog data contains no sources")
	ErrNoCatalogs        = errors.New("catalog data contains no catalog lookup")
	ErrUnknownCatalogID  = errors.New("catalog id not present in lookup")
)

type scalarKind int

const (
	scalarNull scalarKind = iota
	scalarString
	scalarNumber
)

// Scalar holds one raw catalog value. The upstream JSON encodes every field
// as a string, a number or null; anything else is a structure error.
type Scalar struct {
	kind scalarKind
	str  string
	num  float64
}

// NullScalar returns the null value.
func NullScalar() Scalar {
	return Scalar{kind: scalarNull}
}

// StringScalar returns a raw string value.
func StringScalar(v string) Scalar {
	return Scalar{kind: scalarString, str: v}
}

// NumberScalar returns a raw numeric value.
func NumberScalar(v float64) Scalar {
	return Scalar{kind: scalarNumber, num: v}
}

// IsNull reports whether the value is null.
func (s Scalar) IsNull() bool {
	return s.kind == scalarNull
}

// AsString returns the raw string value, or false if the value is not a
// string.
func (s Scalar) AsString() (string, bool) {
	return s.str, s.kind == scalarString
}

// AsNumber returns the raw numeric value, or false if the value is not a
// number.
func (s Scalar) AsNumber() (float64, bool) {
	return s.num, s.kind == scalarNumber
}

// UnmarshalJSON decodes null, string and number fragments. Arrays, objects
// and booleans never occur in well-formed catalog data and are rejected.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Scalar{kind: scalarNull}

		return nil
	}

	switch data[0] {
	case '"':
		var v string
		if err := sonic.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("invalid string scalar %s: %w", fragmentPreview(data), err)
		}

		*s = Scalar{kind: scalarString, str: v}

		return nil
	case '[', '{', 't', 'f':
		return fmt.Errorf("%w: %s", ErrUnsupportedScalar, fragmentPreview(data))
	}

	var v float64
	if err := sonic.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid numeric scalar %s: %w", fragmentPreview(data), err)
	}

	*s = Scalar{kind: scalarNumber, num: v}

	return nil
}

// fragmentPreview truncates a JSON fragment for error messages.
func fragmentPreview(data []byte) string {
	const max = 40

	if len(data) > max {
		return string(data[:max]) + "..."
	}

	return string(data)
}

// SourceRecord mirrors one entry of the embedded "sources" array. Every
// field may arrive as string, number or null, so all of them decode through
// Scalar. Image, MarkerID and Public exist in the raw data but never reach
// the assembled table.
type SourceRecord struct {
	CanonicalName   Scalar `json:"canonical_name"`
	CatalogID       Scalar `json:"catalog_id"`
	CatalogName     Scalar `json:"catalog_name"`
	CoordDec        Scalar `json:"coord_dec"`
	CoordGalLat     Scalar `json:"coord_gal_lat"`
	CoordGalLon     Scalar `json:"coord_gal_lon"`
	CoordRA         Scalar `json:"coord_ra"`
	CoordType       Scalar `json:"coord_type"`
	Discoverer      Scalar `json:"discoverer"`
	DiscoveryDate   Scalar `json:"discovery_date"`
	Distance        Scalar `json:"distance"`
	DistanceMod     Scalar `json:"distance_mod"`
	Eth             Scalar `json:"eth"`
	Flux            Scalar `json:"flux"`
	GreensCat       Scalar `json:"greens_cat"`
	ID              Scalar `json:"id"`
	Image           Scalar `json:"image"`
	MarkerID        Scalar `json:"marker_id"`
	Notes           Scalar `json:"notes"`
	ObservatoryName Scalar `json:"observatory_name"`
	OtherNames      Scalar `json:"other_names"`
	Owner           Scalar `json:"owner"`
	PrivateNotes    Scalar `json:"private_notes"`
	Public          Scalar `json:"public"`
	SizeX           Scalar `json:"size_x"`
	SizeY           Scalar `json:"size_y"`
	SourceType      Scalar `json:"source_type"`
	SourceTypeName  Scalar `json:"source_type_name"`
	SpecIdx         Scalar `json:"spec_idx"`
	SrcRank         Scalar `json:"src_rank"`
	Variability     Scalar `json:"variability"`
}

// CatalogEntry is one entry of the embedded "catalogs" mapping.
type CatalogEntry struct {
	Name Scalar `json:"name"`
}

// CatalogLookup maps a sub-catalog id to its metadata. The upstream JSON
// keys the mapping by the decimal string form of the id.
type CatalogLookup map[string]CatalogEntry

// Name resolves the display name for a sub-catalog id. A missing id is a
// fatal lookup error.
func (l CatalogLookup) Name(id int) (string, error) {
	entry, ok := l[strconv.Itoa(id)]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownCatalogID, id)
	}

	return CoerceStrings([]Scalar{entry.Name})[0], nil
}

// SourceData is the decoded payload embedded in the catalog page.
type SourceData struct {
	Sources  []SourceRecord `json:"sources"`
	Catalogs CatalogLookup  `json:"catalogs"`
}

// ParseSourceData decodes the embedded JSON payload and validates its
// structure. An empty source list or missing catalog lookup means the page
// layout changed and is fatal.
func ParseSourceData(data []byte) (*SourceData, error) {
	var sd SourceData
	if err := sonic.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	if len(sd.Sources) == 0 {
		return nil, ErrNoSources
	}

	if len(sd.Catalogs) == 0 {
		return nil, ErrNoCatalogs
	}

	return &sd, nil
}
