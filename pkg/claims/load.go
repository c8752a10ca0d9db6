package claims

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-ringview/pkg/validation"
)

// Format identifies the encoding of a claims document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the wrapped form of a claims file: {"claims": [...]}.
// A bare top-level list is accepted as well.
type document struct {
	Claims []Record `json:"claims" yaml:"claims"`
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads, decodes and validates a claims file.
func LoadFile(path string) ([]Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open claims file: %w", err)
	}
	defer f.Close()

	return Load(f, format)
}

// Load decodes and validates claim records from r.
func Load(r io.Reader, format Format) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	records, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

func decode(data []byte, format Format) ([]Record, error) {
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return nil, nil
		}
		if trimmed[0] == '[' {
			var records []Record
			if err := json.Unmarshal(trimmed, &records); err != nil {
				return nil, fmt.Errorf("decode claims json: %w", err)
			}
			return records, nil
		}
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode claims json: %w", err)
		}
		return doc.Claims, nil

	case FormatYAML:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("decode claims yaml: %w", err)
		}
		if len(root.Content) == 0 {
			return nil, nil
		}
		if root.Content[0].Kind == yaml.SequenceNode {
			var records []Record
			if err := root.Content[0].Decode(&records); err != nil {
				return nil, fmt.Errorf("decode claims yaml: %w", err)
			}
			return records, nil
		}
		var doc document
		if err := root.Content[0].Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode claims yaml: %w", err)
		}
		return doc.Claims, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Validate checks every record and reports all failures at once.
func Validate(records []Record) error {
	var errs []error
	for i := range records {
		rec := &records[i]
		req := validation.ClaimRequest{
			ID:          rec.ID,
			IPAddress:   rec.IPAddress,
			PhoneNumber: rec.PhoneNumber,
		}
		if err := validation.ValidateClaimRequest(&req); err != nil {
			errs = append(errs, fmt.Errorf("%w: record %d (%q): %v", ErrInvalidRecord, i, rec.ID, err))
		}
	}
	return errors.Join(errs...)
}
