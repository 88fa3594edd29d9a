package binding

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FORMAT_JSON = "json"
	FORMAT_YAML = "yaml"
)

// FormatFromPath guesses the document format from a file extension.
// Anything that is not .yaml/.yml is read as JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FORMAT_YAML
	default:
		return FORMAT_JSON
	}
}

// DecodeRequest reads one request document. Unknown fields are rejected.
func DecodeRequest(r io.Reader, format string) (*SelectRequest, error) {
	var req SelectRequest
	switch format {
	case FORMAT_JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("decode json request: %w", err)
		}
	case FORMAT_YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("decode yaml request: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return &req, nil
}

// EncodeResult writes the result as indented JSON followed by a newline.
func EncodeResult(w io.Writer, res *SelectResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
