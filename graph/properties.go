package graph

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Properties is the free-form configuration bag carried by a node.
// Values of a type outside string/int/float/bool are kept aside so they can
// still be listed, but they render as unsupported.
type Properties struct {
	Strings map[string]string  `json:"strings,omitempty" yaml:"strings,omitempty" toml:"strings,omitempty"`
	Ints    map[string]int     `json:"ints,omitempty" yaml:"ints,omitempty" toml:"ints,omitempty"`
	Floats  map[string]float64 `json:"floats,omitempty" yaml:"floats,omitempty" toml:"floats,omitempty"`
	Bools   map[string]bool    `json:"bools,omitempty" yaml:"bools,omitempty" toml:"bools,omitempty"`

	extra map[string]any
}

// Property is a single key/value pair from a Properties bag.
type Property struct {
	Key   string
	Value any
}

// NewProperties creates an empty bag.
func NewProperties() *Properties {
	return &Properties{
		Strings: make(map[string]string),
		Ints:    make(map[string]int),
		Floats:  make(map[string]float64),
		Bools:   make(map[string]bool),
	}
}

func (p *Properties) ensure() {
	if p.Strings == nil {
		p.Strings = make(map[string]string)
	}
	if p.Ints == nil {
		p.Ints = make(map[string]int)
	}
	if p.Floats == nil {
		p.Floats = make(map[string]float64)
	}
	if p.Bools == nil {
		p.Bools = make(map[string]bool)
	}
}

// Set stores a value in the map matching its type.
func (p *Properties) Set(key string, value any) {
	p.ensure()
	switch v := value.(type) {
	case string:
		p.Strings[key] = v
	case int:
		p.Ints[key] = v
	case int64:
		p.Ints[key] = int(v)
	case float64:
		p.Floats[key] = v
	case float32:
		p.Floats[key] = float64(v)
	case bool:
		p.Bools[key] = v
	default:
		if p.extra == nil {
			p.extra = make(map[string]any)
		}
		p.extra[key] = value
	}
}

// Toggle flips a bool property and returns its new value.
func (p *Properties) Toggle(key string) bool {
	p.ensure()
	p.Bools[key] = !p.Bools[key]
	return p.Bools[key]
}

// Len returns the number of stored properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Strings) + len(p.Ints) + len(p.Floats) + len(p.Bools) + len(p.extra)
}

// Entries returns every property ordered by kind (strings, ints, floats, bools,
// other) and then by key, so rendering is deterministic.
func (p *Properties) Entries() []Property {
	if p == nil {
		return nil
	}
	out := make([]Property, 0, p.Len())
	for _, k := range slices.Sorted(maps.Keys(p.Strings)) {
		out = append(out, Property{Key: k, Value: p.Strings[k]})
	}
	for _, k := range slices.Sorted(maps.Keys(p.Ints)) {
		out = append(out, Property{Key: k, Value: p.Ints[k]})
	}
	for _, k := range slices.Sorted(maps.Keys(p.Floats)) {
		out = append(out, Property{Key: k, Value: p.Floats[k]})
	}
	for _, k := range slices.Sorted(maps.Keys(p.Bools)) {
		out = append(out, Property{Key: k, Value: p.Bools[k]})
	}
	for _, k := range slices.Sorted(maps.Keys(p.extra)) {
		out = append(out, Property{Key: k, Value: p.extra[k]})
	}
	return out
}

// BoolKeys returns the sorted keys of the bool map.
func (p *Properties) BoolKeys() []string {
	if p == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(p.Bools))
}

// Clone returns a deep copy of the bag.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return NewProperties()
	}
	c := &Properties{
		Strings: maps.Clone(p.Strings),
		Ints:    maps.Clone(p.Ints),
		Floats:  maps.Clone(p.Floats),
		Bools:   maps.Clone(p.Bools),
		extra:   maps.Clone(p.extra),
	}
	c.ensure()
	return c
}

// CopyFrom replaces the contents of p with a copy of src.
func (p *Properties) CopyFrom(src *Properties) {
	c := src.Clone()
	*p = *c
}

// FormatValue renders a property value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("unsupported type: %T", v)
	}
}
