package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a content document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads, validates and decodes the content file at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	s, err := Parse(data, FormatFromPath(path))
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Path = path
		}
		return nil, err
	}
	return s, nil
}

// Parse validates and decodes a content document.
func Parse(data []byte, format Format) (*Store, error) {
	raw := data
	if format == FormatYAML {
		var err error
		raw, err = yamlToJSON(data)
		if err != nil {
			return nil, &ValidationError{Err: err}
		}
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	var s Store
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("decode: %w", err)}
	}
	return &s, nil
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share one
// schema and one decoder.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert YAML: %w", err)
	}
	return out, nil
}
