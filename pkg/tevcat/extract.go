package tevcat

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Page structure errors. The catalog page layout is assumed stable between
// releases, so a failed match is fatal rather than retried.
var (
	ErrVersionNotFound = errors.New("catalog version not found in page")
	ErrDataNotFound    = errors.New("encoded catalog data not found in page")
)

var (
	// The version is the visible text after the marker, up to the next tag
	// or end of line.
	versionPattern = regexp.MustCompile(`Current Catalog Version:\s*([^<\r\n]*)`)
	dataPattern    = regexp.MustCompile(`(?s)var jsonData = atob\("(.*?)"\);`)
)

// ExtractVersion returns the catalog version string from the page markup,
// with surrounding whitespace trimmed.
func ExtractVersion(page string) (string, error) {
	m := versionPattern.FindStringSubmatch(page)
	if m == nil {
		return "", ErrVersionNotFound
	}

	return strings.TrimSpace(m[1]), nil
}

// ExtractData locates the base64 payload embedded in the page markup and
// returns the decoded JSON bytes.
func ExtractData(page string) ([]byte, error) {
	m := dataPattern.FindStringSubmatch(page)
	if m == nil {
		return nil, ErrDataNotFound
	}

	// Some page revisions wrap the payload across lines.
	encoded := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}

		return r
	}, m[1])

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog data: %w", err)
	}

	return decoded, nil
}
