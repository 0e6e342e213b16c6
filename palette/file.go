package palette

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"blueprint/graph"
	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format is a descriptor file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported palette file %q (want .yaml, .yml, .json or .toml)", path)
	}
}

// File is the on-disk palette shape.
type File struct {
	Nodes []NodeSpec `json:"nodes" yaml:"nodes" toml:"nodes" validate:"required,min=1,dive"`
}

// NodeSpec declares one node type.
type NodeSpec struct {
	Type    string            `json:"type" yaml:"type" toml:"type" validate:"required"`
	Color   string            `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty" validate:"omitempty,hexcolor"`
	Inputs  []PinSpec         `json:"inputs,omitempty" yaml:"inputs,omitempty" toml:"inputs,omitempty" validate:"dive"`
	Outputs []PinSpec         `json:"outputs,omitempty" yaml:"outputs,omitempty" toml:"outputs,omitempty" validate:"dive"`
	Props   *graph.Properties `json:"props,omitempty" yaml:"props,omitempty" toml:"props,omitempty"`
}

// PinSpec declares one pin. Kind is optional; the list a pin sits in decides
// its direction, and a contradicting kind is an error.
type PinSpec struct {
	Kind  string `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty" validate:"omitempty,oneof=input in output out"`
	Type  string `json:"type" yaml:"type" toml:"type" validate:"required"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

var validate = validator.New()

// Load reads a palette file, choosing the decoder from the extension.
func Load(path string) (*Palette, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}
	p, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Source = path
	return p, nil
}

// Parse decodes and validates palette data.
func Parse(data []byte, format Format) (*Palette, error) {
	var f File
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case FormatJSON:
		err = json.Unmarshal(data, &f)
	case FormatTOML:
		err = toml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unsupported palette format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s palette: %w", format, err)
	}
	return f.Palette()
}

// Palette validates the file and converts it.
func (f *File) Palette() (*Palette, error) {
	if err := validate.Struct(f); err != nil {
		return nil, formatValidationError(err)
	}
	seen := make(map[string]bool, len(f.Nodes))
	descs := make([]graph.NodeDesc, 0, len(f.Nodes))
	for i, ns := range f.Nodes {
		if seen[ns.Type] {
			return nil, fmt.Errorf("nodes[%d]: duplicate type %q", i, ns.Type)
		}
		seen[ns.Type] = true
		d, err := ns.desc()
		if err != nil {
			return nil, fmt.Errorf("nodes[%d] (%s): %w", i, ns.Type, err)
		}
		descs = append(descs, d)
	}
	return New(descs...), nil
}

func (ns NodeSpec) desc() (graph.NodeDesc, error) {
	d := graph.NodeDesc{Type: ns.Type, Color: ns.Color, Props: ns.Props.Clone()}
	var err error
	if d.Inputs, err = pinDescs(ns.Inputs, graph.Input); err != nil {
		return d, err
	}
	if d.Outputs, err = pinDescs(ns.Outputs, graph.Output); err != nil {
		return d, err
	}
	return d, nil
}

func pinDescs(specs []PinSpec, dir graph.Direction) ([]graph.PinDesc, error) {
	out := make([]graph.PinDesc, 0, len(specs))
	for i, ps := range specs {
		if ps.Kind != "" {
			kind, err := graph.ParseDirection(ps.Kind)
			if err != nil {
				return nil, err
			}
			if kind != dir {
				return nil, fmt.Errorf("%ss[%d]: pin kind %q in the %s list", dir, i, ps.Kind, dir)
			}
		}
		t, err := graph.ParsePinType(ps.Type)
		if err != nil {
			return nil, fmt.Errorf("%ss[%d]: %w", dir, i, err)
		}
		if dir == graph.Input {
			out = append(out, graph.InPin(t, ps.Label))
		} else {
			out = append(out, graph.OutPin(t, ps.Label))
		}
	}
	return out, nil
}

// ToFile converts the palette back to its file shape.
func (p *Palette) ToFile() *File {
	f := &File{}
	for _, d := range p.Descs() {
		ns := NodeSpec{Type: d.Type, Color: d.Color}
		if d.Props.Len() > 0 {
			ns.Props = d.Props
		}
		for _, pd := range d.Inputs {
			ns.Inputs = append(ns.Inputs, PinSpec{Kind: graph.Input.String(), Type: string(pd.Type), Label: pd.Label})
		}
		for _, pd := range d.Outputs {
			ns.Outputs = append(ns.Outputs, PinSpec{Kind: graph.Output.String(), Type: string(pd.Type), Label: pd.Label})
		}
		f.Nodes = append(f.Nodes, ns)
	}
	return f
}

// Encode writes the palette in the given format.
func (p *Palette) Encode(w io.Writer, format Format) error {
	f := p.ToFile()
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to encode yaml palette: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return fmt.Errorf("failed to encode toml palette: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("unsupported palette format %q", format)
	}
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "File.")
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", field, e.Param()))
		case "hexcolor":
			msgs = append(msgs, fmt.Sprintf("%s must be a hex colour, got %q", field, e.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return fmt.Errorf("invalid palette: %s", strings.Join(msgs, "; "))
}
