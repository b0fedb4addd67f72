// Package importer reads project outlines: files that describe a forest of
// projects and tasks linked by local refs, ready to be stored in one go.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Outline is the top-level structure of an import file.
type Outline struct {
	Projects []ProjectImport `json:"projects" yaml:"projects"`
	Tasks    []TaskImport    `json:"tasks" yaml:"tasks"`
}

// ProjectImport defines one project. ParentRef names another project in
// the same file.
type ProjectImport struct {
	Ref       string `json:"ref" yaml:"ref"`
	ParentRef string `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
	Code      string `json:"code" yaml:"code"`
	Name      string `json:"name" yaml:"name"`
}

// TaskImport defines one task. State defaults to planned; any other state
// is applied as if the task had been moved there after creation.
type TaskImport struct {
	Ref         string `json:"ref" yaml:"ref"`
	ProjectRef  string `json:"project_ref" yaml:"project_ref"`
	ParentRef   string `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	State       string `json:"state,omitempty" yaml:"state,omitempty"`
}

// Format selects the outline decoder.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is
// not .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadOutline reads and parses an outline file.
func LoadOutline(path string) (*Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOutline(data, FormatFromPath(path))
}

// ParseOutline decodes data, rejecting unknown fields.
func ParseOutline(data []byte, format Format) (*Outline, error) {
	var outline Outline
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&outline); err != nil {
			return nil, fmt.Errorf("parsing outline: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&outline); err != nil {
			return nil, fmt.Errorf("parsing outline: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown outline format %q", format)
	}
	return &outline, nil
}
