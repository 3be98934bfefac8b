// Package fermilat submits data queries to the public Fermi LAT data
// server.
//
// A query posts the standard web form and returns the URL where the server
// will publish the result files. The server prepares files asynchronously,
// so the returned page may respond with retry hints for a while.
package fermilat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// URL is the public query endpoint.
const URL = "http://fermi.gsfc.nasa.gov/cgi-bin/ssc/LAT/LATDataQuery.cgi"

// Coordinate systems accepted by the query form.
const (
	CoordJ2000    = "J2000"
	CoordB1950    = "B1950"
	CoordGalactic = "Galactic"
)

// Time systems accepted by the query form.
const (
	TimeGregorian = "Gregorian"
	TimeMET       = "MET"
	TimeMJD       = "MJD"
)

// Data types accepted by the query form.
const (
	DataPhoton   = "Photon"
	DataExtended = "Extended"
	DataNone     = "None"
)

// Query errors.
var (
	ErrInvalidQuery = errors.New("invalid query")
	ErrNoResultURL  = errors.New("no result URL in server response")
)

var resultPattern = regexp.MustCompile(`The results of your query may be found at <a href="(http://fermi\.gsfc\.nasa\.gov/.*?)"`)

// Query describes one data request.
type Query struct {
	// NameOrCoords is an object name resolvable by the server or an
	// explicit coordinate pair.
	NameOrCoords string

	// CoordSystem is one of the Coord constants.
	CoordSystem string

	// SearchRadius in degrees, as accepted by the form. Empty uses the
	// server default.
	SearchRadius string

	// ObsDates is the observation date range in the chosen time system.
	// Empty selects the full mission.
	ObsDates string

	// TimeSystem is one of the Time constants.
	TimeSystem string

	// EnergyRangeMeV is the energy range, e.g. "100, 300000". Empty uses
	// the server default.
	EnergyRangeMeV string

	// DataType is one of the Data constants.
	DataType string

	// SpacecraftData requests the spacecraft file along with the events.
	SpacecraftData bool
}

// NewQuery returns a query for the given object with the server's defaults.
func NewQuery(nameOrCoords string) Query {
	return Query{
		NameOrCoords:   nameOrCoords,
		CoordSystem:    CoordJ2000,
		TimeSystem:     TimeGregorian,
		DataType:       DataPhoton,
		SpacecraftData: true,
	}
}

// Validate checks the enumerated form fields.
func (q Query) Validate() error {
	if q.NameOrCoords == "" {
		return fmt.Errorf("%w: object name or coordinates required", ErrInvalidQuery)
	}

	switch q.CoordSystem {
	case CoordJ2000, CoordB1950, CoordGalactic:
	default:
		return fmt.Errorf("%w: coordinate system %q", ErrInvalidQuery, q.CoordSystem)
	}

	switch q.TimeSystem {
	case TimeGregorian, TimeMET, TimeMJD:
	default:
		return fmt.Errorf("%w: time system %q", ErrInvalidQuery, q.TimeSystem)
	}

	switch q.DataType {
	case DataPhoton, DataExtended, DataNone:
	default:
		return fmt.Errorf("%w: data type %q", ErrInvalidQuery, q.DataType)
	}

	return nil
}

// form renders the POST payload with the field names the server expects.
func (q Query) form() url.Values {
	spacecraft := ""
	if q.SpacecraftData {
		spacecraft = "on"
	}

	return url.Values{
		"shapefield":             {q.SearchRadius},
		"coordsystem":            {q.CoordSystem},
		"coordfield":             {q.NameOrCoords},
		"destination":            {"query"},
		"timefield":              {q.ObsDates},
		"timetype":               {q.TimeSystem},
		"energyfield":            {q.EnergyRangeMeV},
		"photonOrExtendedOrNone": {q.DataType},
		"spacecraft":             {spacecraft},
	}
}

// Client submits queries to the data server.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a client for the public endpoint.
func NewClient() *Client {
	return NewClientWithDeps(nil, "")
}

// NewClientWithDeps creates a client with an injected HTTP client and
// endpoint. Nil and empty values select the defaults.
func NewClientWithDeps(httpClient *http.Client, queryURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 60 * time.Second,
		}
	}

	if queryURL == "" {
		queryURL = URL
	}

	return &Client{
		httpClient: httpClient,
		url:        queryURL,
	}
}

// Submit posts the query and returns the URL where the results will appear.
func (c *Client) Submit(ctx context.Context, q Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	form := q.form().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	m := resultPattern.FindSubmatch(body)
	if m == nil {
		return "", ErrNoResultURL
	}

	return string(m[1]), nil
}
