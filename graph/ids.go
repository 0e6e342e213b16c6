package graph

// Kind identifies which variant an Object holds.
type Kind int

const (
	KindNone Kind = iota
	KindNode
	KindPin
	KindLink

	numKinds
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindPin:
		return "pin"
	case KindLink:
		return "link"
	case KindNone:
		return "none"
	default:
		return "unknown"
	}
}

// Registry hands out identifiers. The global sequence is shared by every object
// kind and never repeats; the per-kind ordinals only feed display labels.
//
// A Registry is not safe for concurrent use. The editor runs on a single UI loop.
type Registry struct {
	last     ID
	ordinals [numKinds]int
}

// NewRegistry creates a registry whose first identifier is 1.
func NewRegistry() *Registry {
	return &Registry{}
}

// Next returns the next identifier.
func (r *Registry) Next() ID {
	r.last++
	return r.last
}

// Ordinal returns the next display ordinal for a kind, starting at 1.
func (r *Registry) Ordinal(k Kind) int {
	if k <= KindNone || k >= numKinds {
		return 0
	}
	r.ordinals[k]++
	return r.ordinals[k]
}

// Last returns the most recently issued identifier, or None.
func (r *Registry) Last() ID {
	return r.last
}

// Reset rewinds the registry. Only call this between sessions; ids issued
// before the reset would collide with ones issued after it.
func (r *Registry) Reset() {
	r.last = None
	r.ordinals = [numKinds]int{}
}
