// Package source decodes option/group descriptor snapshots, the input the
// model manager builds items from.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"
)

// Kind names a descriptor variant.
type Kind string

const (
	KindOption Kind = "option"
	KindGroup  Kind = "group"
)

var (
	// ErrMalformed marks a descriptor that is skipped during a build.
	ErrMalformed = errors.New("malformed descriptor")
	// ErrUnsupportedFormat is returned by LoadFile for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
)

// Descriptor is one entry of a snapshot. A group descriptor opens a group;
// option descriptors whose Group names the open group's label join it.
// Groups may instead nest their options under Options.
type Descriptor struct {
	Kind     Kind              `yaml:"kind,omitempty" json:"kind,omitempty"`
	Value    string            `yaml:"value,omitempty" json:"value,omitempty"`
	Text     string            `yaml:"text,omitempty" json:"text,omitempty"`
	Label    string            `yaml:"label,omitempty" json:"label,omitempty"`
	Group    string            `yaml:"group,omitempty" json:"group,omitempty"`
	Selected bool              `yaml:"selected,omitempty" json:"selected,omitempty"`
	Disabled bool              `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Data     map[string]string `yaml:"data,omitempty" json:"data,omitempty"`
	Options  []Descriptor      `yaml:"options,omitempty" json:"options,omitempty"`
}

// Document is the on-disk snapshot shape.
type Document struct {
	Items []Descriptor `yaml:"items" json:"items"`
}

// ResolvedKind infers the kind when it was left empty: a label without value
// or text means a group.
func (d Descriptor) ResolvedKind() Kind {
	if d.Kind != "" {
		return d.Kind
	}
	if d.Label != "" && d.Value == "" && d.Text == "" {
		return KindGroup
	}
	return KindOption
}

// OptionValue returns the value, defaulting to the text.
func (d Descriptor) OptionValue() string {
	if d.Value != "" {
		return d.Value
	}
	return d.Text
}

// OptionText returns the text, defaulting to the value.
func (d Descriptor) OptionText() string {
	if d.Text != "" {
		return d.Text
	}
	return d.Value
}

// Validate reports why d cannot become a model.
func (d Descriptor) Validate() error {
	switch d.ResolvedKind() {
	case KindGroup:
		if strings.TrimSpace(d.Label) == "" {
			return fmt.Errorf("%w: group without label", ErrMalformed)
		}
	case KindOption:
		if d.Value == "" && d.Text == "" {
			return fmt.Errorf("%w: option without value or text", ErrMalformed)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrMalformed, d.Kind)
	}
	return nil
}

// Normalize expands nested group options into the flat marker form: each
// group descriptor is followed by its options tagged with the group label.
func Normalize(ds []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(ds))
	for _, d := range ds {
		if d.ResolvedKind() != KindGroup || len(d.Options) == 0 {
			d.Options = nil
			out = append(out, d)
			continue
		}
		children := d.Options
		d.Options = nil
		out = append(out, d)
		for _, c := range children {
			c.Options = nil
			c.Group = d.Label
			out = append(out, c)
		}
	}
	return out
}

// ParseYAML decodes a YAML snapshot: either a document with items or a bare
// list.
func ParseYAML(data []byte) ([]Descriptor, error) {
	var list []Descriptor
	if err := yaml.Unmarshal(data, &list); err == nil {
		return Normalize(list), nil
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml snapshot: %w", err)
	}
	return Normalize(doc.Items), nil
}

// ParseJSON decodes a JSON snapshot: either a document with items or a bare
// array.
func ParseJSON(data []byte) ([]Descriptor, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []Descriptor
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parsing json snapshot: %w", err)
		}
		return Normalize(list), nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing json snapshot: %w", err)
	}
	return Normalize(doc.Items), nil
}

// MarshalJSON encodes ds as a JSON document.
func MarshalJSON(ds []Descriptor) ([]byte, error) {
	return json.Marshal(Document{Items: ds})
}

// MarshalYAML encodes ds as a YAML document.
func MarshalYAML(ds []Descriptor) ([]byte, error) {
	return yaml.Marshal(Document{Items: ds})
}

// LoadFile reads a snapshot, choosing the decoder by extension.
func LoadFile(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
