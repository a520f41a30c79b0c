package bootstrap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mcpjungle/llamacloud-mcp/internal/descriptor"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ToolsFile lists tools to register, as an alternative to passing descriptors on the command line.
// It is written in YAML, or in TOML when the file name ends with .toml.
//
//	indexes:
//	  - "docs:Search my docs"
//	  - name: faq
//	    description: Frequently asked questions
//	    project_name: Support
//	extract_agents:
//	  - "invoices:Extract invoice fields"
type ToolsFile struct {
	Indexes       []ToolEntry `yaml:"indexes"`
	ExtractAgents []ToolEntry `yaml:"extract_agents"`
}

// ToolEntry is a single tool of a ToolsFile.
// It is written either as a descriptor string or as a mapping with one key per descriptor field.
type ToolEntry struct {
	// Descriptor is set when the entry was written as a plain string.
	Descriptor string `yaml:"-"`

	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	APIKey         string `yaml:"api_key"`
	OrganizationID string `yaml:"organization_id"`
	ProjectName    string `yaml:"project_name"`
}

// UnmarshalYAML accepts both the string and the mapping form of an entry.
func (t *ToolEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&t.Descriptor)
	case yaml.MappingNode:
		// node.Decode does not inherit KnownFields from the file decoder.
		fields := t.fields()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if _, ok := fields[key.Value]; !ok {
				return fmt.Errorf("line %d: unknown key '%s' in tool entry", key.Line, key.Value)
			}
		}
		type plain ToolEntry
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*t = ToolEntry(p)
		return nil
	default:
		return fmt.Errorf("line %d: tool entry must be a descriptor string or a mapping", node.Line)
	}
}

// resolve turns the entry into a ToolDescriptor using the same defaulting rules as descriptor strings.
func (t *ToolEntry) resolve(kind descriptor.Kind, defaults descriptor.Defaults) (descriptor.ToolDescriptor, error) {
	if t.Descriptor != "" {
		return descriptor.Parse(kind, t.Descriptor, defaults)
	}
	if t.Name == "" || t.Description == "" {
		return descriptor.ToolDescriptor{}, &descriptor.ConfigurationError{
			Value:   t.Name,
			Message: fmt.Sprintf("%s entry '%s' in tools file must have both a name and a description", kind, t.Name),
		}
	}

	d := descriptor.ToolDescriptor{
		Kind:           kind,
		Name:           t.Name,
		Description:    t.Description,
		APIKey:         defaults.APIKey,
		OrganizationID: defaults.OrganizationID,
		ProjectName:    defaults.ProjectName,
	}
	if t.APIKey != "" {
		d.APIKey = t.APIKey
	}
	if t.OrganizationID != "" {
		d.OrganizationID = t.OrganizationID
	}
	if t.ProjectName != "" {
		d.ProjectName = t.ProjectName
	}
	return d, nil
}

// LoadToolsFile reads and decodes a tools file. Unknown keys are rejected.
func LoadToolsFile(fs afero.Fs, path string) (*ToolsFile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tools file: %w", err)
	}

	var f *ToolsFile
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		f, err = decodeTOMLToolsFile(data)
	} else {
		f, err = decodeYAMLToolsFile(data)
	}
	if err != nil {
		return nil, &descriptor.ConfigurationError{
			Value:   path,
			Message: fmt.Sprintf("invalid tools file %s: %v", path, err),
		}
	}
	return f, nil
}

func decodeYAMLToolsFile(data []byte) (*ToolsFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f ToolsFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &f, nil
}

// tomlToolsFile mirrors ToolsFile. Entries are decoded loosely because TOML arrays may mix strings and tables.
type tomlToolsFile struct {
	Indexes       []any `toml:"indexes"`
	ExtractAgents []any `toml:"extract_agents"`
}

func decodeTOMLToolsFile(data []byte) (*ToolsFile, error) {
	var raw tomlToolsFile
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&raw); err != nil {
		return nil, err
	}

	indexes, err := tomlEntries(raw.Indexes)
	if err != nil {
		return nil, err
	}
	agents, err := tomlEntries(raw.ExtractAgents)
	if err != nil {
		return nil, err
	}
	return &ToolsFile{Indexes: indexes, ExtractAgents: agents}, nil
}

func tomlEntries(raw []any) ([]ToolEntry, error) {
	entries := make([]ToolEntry, 0, len(raw))
	for i, r := range raw {
		switch v := r.(type) {
		case string:
			entries = append(entries, ToolEntry{Descriptor: v})
		case map[string]any:
			e, err := tomlTableEntry(v)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i+1, err)
			}
			entries = append(entries, e)
		default:
			return nil, fmt.Errorf("entry %d: tool entry must be a descriptor string or a table", i+1)
		}
	}
	return entries, nil
}

// fields maps the keys accepted in the mapping form of an entry to the fields they set.
func (t *ToolEntry) fields() map[string]*string {
	return map[string]*string{
		"name":            &t.Name,
		"description":     &t.Description,
		"api_key":         &t.APIKey,
		"organization_id": &t.OrganizationID,
		"project_name":    &t.ProjectName,
	}
}

func tomlTableEntry(table map[string]any) (ToolEntry, error) {
	var e ToolEntry
	fields := e.fields()
	for k, v := range table {
		dst, ok := fields[k]
		if !ok {
			return ToolEntry{}, fmt.Errorf("unknown key '%s'", k)
		}
		str, ok := v.(string)
		if !ok {
			return ToolEntry{}, fmt.Errorf("key '%s' must be a string", k)
		}
		*dst = str
	}
	return e, nil
}

// Descriptors resolves all entries of the file, indexes first, preserving their order.
func (f *ToolsFile) Descriptors(defaults descriptor.Defaults) ([]descriptor.ToolDescriptor, error) {
	out := make([]descriptor.ToolDescriptor, 0, len(f.Indexes)+len(f.ExtractAgents))
	groups := []struct {
		kind    descriptor.Kind
		entries []ToolEntry
	}{
		{descriptor.KindIndex, f.Indexes},
		{descriptor.KindExtractAgent, f.ExtractAgents},
	}
	for _, g := range groups {
		for i := range g.entries {
			d, err := g.entries[i].resolve(g.kind, defaults)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	return out, nil
}
