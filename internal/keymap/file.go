package keymap

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"caekeeb/core/layout"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// File is a key map document. In YAML:
//
//	name: default
//	layers:
//	  - name: base
//	    rows:
//	      - "Escape 1 2 3"
//	      - "Tab Q W L1"
//
// and in TOML each layer is a [[layers]] table.
type File struct {
	Name   string  `yaml:"name" toml:"name"`
	Layers []Layer `yaml:"layers" toml:"layers"`
}

type Layer struct {
	Name string   `yaml:"name" toml:"name"`
	Rows []string `yaml:"rows" toml:"rows"`
}

// FormatOf returns "yaml" or "toml" from a file name, or "".
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}

// Decode parses a document in the given format.
func Decode(data []byte, format string) (File, error) {
	var f File
	switch format {
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return File{}, fmt.Errorf("keymap: yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("keymap: toml: %w", err)
		}
	default:
		return File{}, fmt.Errorf("keymap: unsupported format %q", format)
	}
	return f, nil
}

// Load reads and decodes a key map file, picking the format by extension.
func Load(path string) (File, error) {
	format := FormatOf(path)
	if format == "" {
		return File{}, fmt.Errorf("keymap: %s: want a .yaml, .yml or .toml file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("keymap: %w", err)
	}
	f, err := Decode(data, format)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// Compile parses every token and checks the resulting table.
func (f File) Compile() (layout.Layers, error) {
	layers := make(layout.Layers, 0, len(f.Layers))
	for li, l := range f.Layers {
		rows := make([][]layout.Action, 0, len(l.Rows))
		for ri, src := range l.Rows {
			row, err := ParseRow(src)
			if err != nil {
				return nil, fmt.Errorf("layer %d (%s) row %d: %w", li, l.Name, ri, err)
			}
			rows = append(rows, row)
		}
		layers = append(layers, rows)
	}
	if err := layout.Validate(layers); err != nil {
		return nil, err
	}
	return layers, nil
}

// LoadLayers is Load followed by Compile.
func LoadLayers(path string) (layout.Layers, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	layers, err := f.Compile()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return layers, nil
}
