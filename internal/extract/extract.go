// Package extract recovers the dashboard JSON payload from a legacy HTML
// report. The payload lives in a single tag carrying id="dashboard-data";
// everything else in the document, including malformed markup around the
// block, is ignored.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// MarkerID identifies the embedded-data block inside a host document.
const MarkerID = "dashboard-data"

var (
	// ErrNoMarkerBlock means the host document has no dashboard-data block.
	ErrNoMarkerBlock = errors.New("no dashboard-data block found in document")
	// ErrInvalidPayload means the block was found but its body is not JSON.
	ErrInvalidPayload = errors.New("dashboard-data block is not valid JSON")
)

// FindPayload scans a host document for the marker block and returns its raw
// body text. Tag and attribute names are matched case-insensitively and
// attribute order is irrelevant; the tokenizer tolerates malformed markup
// elsewhere in the document. The first marker block wins.
func FindPayload(r io.Reader) ([]byte, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return nil, ErrNoMarkerBlock
			}
			return nil, fmt.Errorf("reading document: %w", z.Err())

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if !hasMarker(z, hasAttr) {
				continue
			}
			return readBody(z, string(name))
		}
	}
}

// hasMarker reports whether the current start tag carries id=MarkerID.
func hasMarker(z *html.Tokenizer, hasAttr bool) bool {
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if strings.EqualFold(string(key), "id") && strings.EqualFold(string(val), MarkerID) {
			return true
		}
	}
	return false
}

// readBody collects text content until the marker tag closes. Script and
// style bodies arrive as a single raw text token; for other tags nested
// markup is skipped and only text is kept.
func readBody(z *html.Tokenizer, tag string) ([]byte, error) {
	var body bytes.Buffer
	depth := 1
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return bytes.TrimSpace(body.Bytes()), nil
			}
			return nil, fmt.Errorf("reading document: %w", z.Err())
		case html.TextToken:
			body.Write(z.Text())
		case html.StartTagToken:
			if name, _ := z.TagName(); strings.EqualFold(string(name), tag) {
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); strings.EqualFold(string(name), tag) {
				depth--
				if depth == 0 {
					return bytes.TrimSpace(body.Bytes()), nil
				}
			}
		}
	}
}

// Extract locates the marker block in the document at sourcePath, validates
// its body as JSON and writes the pretty-printed payload to targetPath,
// overwriting any previous snapshot. It returns the number of records in
// the payload.
func Extract(sourcePath, targetPath string) (int, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("opening source document: %w", err)
	}
	defer f.Close()

	payload, err := FindPayload(f)
	if err != nil {
		return 0, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal(payload, &data); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(targetPath, pretty, 0644); err != nil {
		return 0, fmt.Errorf("writing snapshot: %w", err)
	}

	records, _ := data["records"].([]interface{})
	return len(records), nil
}
