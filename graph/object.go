package graph

// Object is a tagged union over the three addressable kinds. Exactly one
// payload is set and it always matches Kind. The zero Object is KindNone.
type Object struct {
	kind Kind
	node *Node
	pin  *Pin
	link *Link
}

// WrapNode wraps a node.
func WrapNode(n *Node) Object {
	return Object{kind: KindNode, node: n}
}

// WrapPin wraps a pin.
func WrapPin(p *Pin) Object {
	return Object{kind: KindPin, pin: p}
}

// WrapLink wraps a link.
func WrapLink(l *Link) Object {
	return Object{kind: KindLink, link: l}
}

// Kind returns the variant tag.
func (o Object) Kind() Kind {
	return o.kind
}

// ID returns the identifier of the wrapped object.
func (o Object) ID() ID {
	switch {
	case o.kind == KindNode && o.node != nil:
		return o.node.ID
	case o.kind == KindPin && o.pin != nil:
		return o.pin.ID
	case o.kind == KindLink && o.link != nil:
		return o.link.ID
	default:
		return None
	}
}

// Node returns the payload if the object is a node.
func (o Object) Node() (*Node, bool) {
	return o.node, o.kind == KindNode && o.node != nil
}

// Pin returns the payload if the object is a pin.
func (o Object) Pin() (*Pin, bool) {
	return o.pin, o.kind == KindPin && o.pin != nil
}

// Link returns the payload if the object is a link.
func (o Object) Link() (*Link, bool) {
	return o.link, o.kind == KindLink && o.link != nil
}

// String describes the wrapped object.
func (o Object) String() string {
	switch {
	case o.kind == KindNode && o.node != nil:
		return o.node.String()
	case o.kind == KindPin && o.pin != nil:
		return o.pin.String()
	case o.kind == KindLink && o.link != nil:
		return o.link.String()
	default:
		return "unknown object"
	}
}
