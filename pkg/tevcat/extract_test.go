package tevcat

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestExtractVersion(t *testing.T) {
	page := `<html><body>
<td>Current Catalog Version:   3.400   </td>
</body></html>`

	version, err := ExtractVersion(page)
	if err != nil {
		t.Fatalf("ExtractVersion failed: %v", err)
	}

	if version != "3.400" {
		t.Errorf("version = %q, expected %q", version, "3.400")
	}
}

func TestExtractVersionMissing(t *testing.T) {
	_, err := ExtractVersion("<html><body>no version here</body></html>")
	if !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestExtractData(t *testing.T) {
	payload := `{"sources":[],"catalogs":{}}`
	encoded := base64.StdEncoding.EncodeToString([]byte(payload))

	page := `<script type="text/javascript">
var jsonData = atob("` + encoded + `");
</script>`

	decoded, err := ExtractData(page)
	if err != nil {
		t.Fatalf("ExtractData failed: %v", err)
	}

	if string(decoded) != payload {
		t.Errorf("decoded = %q, expected %q", decoded, payload)
	}
}

func TestExtractDataMissing(t *testing.T) {
	_, err := ExtractData("<html><body>no data block</body></html>")
	if !errors.Is(err, ErrDataNotFound) {
		t.Fatalf("expected ErrDataNotFound, got %v", err)
	}
}

func TestExtractDataInvalidBase64(t *testing.T) {
	page := `var jsonData = atob("not*valid*base64!");`

	_, err := ExtractData(page)
	if err == nil {
		t.Fatal("expected error for invalid base64")
	}

	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtractDataNonGreedy(t *testing.T) {
	// Two atob calls on the page: the pattern must capture only the first
	// payload, not everything up to the second closing quote.
	first := base64.StdEncoding.EncodeToString([]byte(`{"a":1}`))
	second := base64.StdEncoding.EncodeToString([]byte(`{"b":2}`))

	page := `var jsonData = atob("` + first + `");
var otherData = atob("` + second + `");`

	decoded, err := ExtractData(page)
	if err != nil {
		t.Fatalf("ExtractData failed: %v", err)
	}

	if string(decoded) != `{"a":1}` {
		t.Errorf("decoded = %q, expected first payload only", decoded)
	}
}
