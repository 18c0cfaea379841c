package render

// Element is one live UI node produced by a Host. The engine core
// never interprets kinds; it only requires that a kind maps
// deterministically to one element type.
type Element interface {
	// Kind returns the kind tag the element was created with.
	Kind() string
	// SetAttr applies an attribute value. A nil value removes the
	// attribute.
	SetAttr(name string, value any)
	// InsertChild places child at the given index, moving it if it is
	// already attached somewhere.
	InsertChild(child Element, index int)
	// RemoveChild detaches child.
	RemoveChild(child Element)
}

// Host materializes elements for descriptor kinds. Implementations
// are the pluggable element backend: an in-memory tree for tests,
// a terminal surface, whatever the application brings.
type Host interface {
	Create(kind string) (Element, error)
}
