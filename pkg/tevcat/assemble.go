package tevcat

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cdeil/astroquery/pkg/angle"
	"github.com/cdeil/astroquery/pkg/cosmology"
	"github.com/cdeil/astroquery/pkg/table"
)

// Name is the catalog display name recorded in table metadata.
const Name = "TeVCat"

// Assembler builds the typed catalog table from raw source records.
type Assembler struct {
	cosmology    *cosmology.Model
	includeNotes bool
	log          Logger
}

// NewAssembler creates an assembler. A nil model selects cosmology.Default()
// at assembly time and a nil logger discards warnings.
func NewAssembler(model *cosmology.Model, includeNotes bool, log Logger) *Assembler {
	if log == nil {
		log = nopLogger{}
	}

	return &Assembler{
		cosmology:    model,
		includeNotes: includeNotes,
		log:          log,
	}
}

// Assemble produces the typed table in the fixed column order. Integer-valued
// columns are stored as float with NaN fill. The notes and private_notes
// columns appear only when the assembler was created with includeNotes.
// Either every column is assembled or an error is returned; there are no
// partial tables.
func (a *Assembler) Assemble(records []SourceRecord, lookup CatalogLookup, version string) (*table.Table, error) {
	model := a.cosmology
	if model == nil {
		model = cosmology.Default()
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	tbl := table.New(Name, version)

	collect := func(get func(r *SourceRecord) Scalar) []Scalar {
		out := make([]Scalar, len(records))
		for i := range records {
			out[i] = get(&records[i])
		}

		return out
	}

	addString := func(name, description string, get func(r *SourceRecord) Scalar) error {
		return tbl.AddColumn(table.NewStringColumn(name, CoerceStrings(collect(get)), description))
	}

	addFloat := func(name, unit, description string, get func(r *SourceRecord) Scalar) error {
		values, err := CoerceFloats(collect(get))
		if err != nil {
			return fmt.Errorf("column %s: %w", name, err)
		}

		return tbl.AddColumn(table.NewFloatColumn(name, values, unit, description))
	}

	addAngle := func(name, description string, unit angle.Unit, get func(r *SourceRecord) Scalar) error {
		values, err := a.normalizeAngles(CoerceStrings(collect(get)), unit, name)
		if err != nil {
			return err
		}

		return tbl.AddColumn(table.NewFloatColumn(name, values, "degree", description))
	}

	if err := addString("canonical_name", "", func(r *SourceRecord) Scalar { return r.CanonicalName }); err != nil {
		return nil, err
	}

	catalogIDs, err := CoerceFloats(collect(func(r *SourceRecord) Scalar { return r.CatalogID }))
	if err != nil {
		return nil, fmt.Errorf("column catalog_id: %w", err)
	}

	if err := tbl.AddColumn(table.NewFloatColumn("catalog_id", catalogIDs, "", "")); err != nil {
		return nil, err
	}

	catalogNames, err := resolveCatalogNames(catalogIDs, lookup)
	if err != nil {
		return nil, err
	}

	if err := tbl.AddColumn(table.NewStringColumn("catalog_id_name", catalogNames, "Name of sub-catalog containing this source")); err != nil {
		return nil, err
	}

	if err := addString("catalog_name", "", func(r *SourceRecord) Scalar { return r.CatalogName }); err != nil {
		return nil, err
	}

	if err := addAngle("coord_dec", "Declination", angle.Degree, func(r *SourceRecord) Scalar { return r.CoordDec }); err != nil {
		return nil, err
	}

	if err := addAngle("coord_gal_lat", "Galactic latitude", angle.Degree, func(r *SourceRecord) Scalar { return r.CoordGalLat }); err != nil {
		return nil, err
	}

	if err := addAngle("coord_gal_lon", "Galactic longitude", angle.Degree, func(r *SourceRecord) Scalar { return r.CoordGalLon }); err != nil {
		return nil, err
	}

	if err := addAngle("coord_ra", "Right Ascension", angle.Hour, func(r *SourceRecord) Scalar { return r.CoordRA }); err != nil {
		return nil, err
	}

	if err := addFloat("coord_type", "", "Coordinate type", func(r *SourceRecord) Scalar { return r.CoordType }); err != nil {
		return nil, err
	}

	if err := addFloat("discoverer", "", "", func(r *SourceRecord) Scalar { return r.Discoverer }); err != nil {
		return nil, err
	}

	dates := ReconstructDates(CoerceStrings(collect(func(r *SourceRecord) Scalar { return r.DiscoveryDate })))
	if err := tbl.AddColumn(table.NewStringColumn("discovery_date", dates, "Discovery date")); err != nil {
		return nil, err
	}

	direct, err := CoerceFloats(collect(func(r *SourceRecord) Scalar { return r.Distance }))
	if err != nil {
		return nil, fmt.Errorf("column distance: %w", err)
	}

	mods := CoerceStrings(collect(func(r *SourceRecord) Scalar { return r.DistanceMod }))

	distances, err := DeriveDistance(direct, mods, model)
	if err != nil {
		return nil, fmt.Errorf("column distance: %w", err)
	}

	if err := tbl.AddColumn(table.NewFloatColumn("distance", distances, "kpc", "Distance to source")); err != nil {
		return nil, err
	}

	if err := addFloat("eth", "TeV", "Energy threshold", func(r *SourceRecord) Scalar { return r.Eth }); err != nil {
		return nil, err
	}

	if err := addFloat("flux", "Crab", "Source flux", func(r *SourceRecord) Scalar { return r.Flux }); err != nil {
		return nil, err
	}

	if err := addString("greens_cat", "URL to Green's catalog entry", func(r *SourceRecord) Scalar { return r.GreensCat }); err != nil {
		return nil, err
	}

	if err := addFloat("id", "", "", func(r *SourceRecord) Scalar { return r.ID }); err != nil {
		return nil, err
	}

	if a.includeNotes {
		if err := addString("notes", "", func(r *SourceRecord) Scalar { return r.Notes }); err != nil {
			return nil, err
		}
	}

	if err := addString("observatory_name", "", func(r *SourceRecord) Scalar { return r.ObservatoryName }); err != nil {
		return nil, err
	}

	if err := addString("other_names", "", func(r *SourceRecord) Scalar { return r.OtherNames }); err != nil {
		return nil, err
	}

	if err := addFloat("owner", "", "", func(r *SourceRecord) Scalar { return r.Owner }); err != nil {
		return nil, err
	}

	if a.includeNotes {
		if err := addString("private_notes", "", func(r *SourceRecord) Scalar { return r.PrivateNotes }); err != nil {
			return nil, err
		}
	}

	if err := addFloat("size_x", "deg", "Size (major axis)", func(r *SourceRecord) Scalar { return r.SizeX }); err != nil {
		return nil, err
	}

	if err := addFloat("size_y", "deg", "Size (minor axis)", func(r *SourceRecord) Scalar { return r.SizeY }); err != nil {
		return nil, err
	}

	if err := addFloat("source_type", "", "", func(r *SourceRecord) Scalar { return r.SourceType }); err != nil {
		return nil, err
	}

	if err := addString("source_type_name", "", func(r *SourceRecord) Scalar { return r.SourceTypeName }); err != nil {
		return nil, err
	}

	if err := addFloat("spec_idx", "", "Spectral index", func(r *SourceRecord) Scalar { return r.SpecIdx }); err != nil {
		return nil, err
	}

	if err := addFloat("src_rank", "", "", func(r *SourceRecord) Scalar { return r.SrcRank }); err != nil {
		return nil, err
	}

	if err := addFloat("variability", "", "", func(r *SourceRecord) Scalar { return r.Variability }); err != nil {
		return nil, err
	}

	a.log.Debug("assembled catalog table", "rows", tbl.Len(), "columns", tbl.NumColumns())

	return tbl, nil
}

// resolveCatalogNames maps each record's catalog id to its display name. A
// missing or unresolvable id fails the whole assembly.
func resolveCatalogNames(ids []float64, lookup CatalogLookup) ([]string, error) {
	out := make([]string, len(ids))

	for i, v := range ids {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("record %d: %w: catalog_id is missing", i, ErrUnknownCatalogID)
		}

		name, err := lookup.Name(int(v))
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		out[i] = name
	}

	return out, nil
}

// normalizeAngles parses one angle-bearing column into decimal degrees.
// Empty entries are the missing-value sentinel and become NaN. An
// out-of-range seconds component is tolerated with a warning and the
// best-effort value is kept; any other parse failure fails the batch.
func (a *Assembler) normalizeAngles(values []string, unit angle.Unit, column string) ([]float64, error) {
	out := make([]float64, len(values))

	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			out[i] = math.NaN()

			continue
		}

		deg, err := angle.Parse(v, unit)
		if err != nil {
			if errors.Is(err, angle.ErrIllegalSecond) {
				a.log.Warn("tolerating out-of-range seconds in angle", "column", column, "row", i, "value", v)
				out[i] = deg

				continue
			}

			return nil, fmt.Errorf("column %s row %d: %w", column, i, err)
		}

		out[i] = deg
	}

	return out, nil
}
