package ports

// IDGenerator defines how the Tree Store obtains identifiers for new nodes.
type IDGenerator interface {
	// NextID returns a candidate ID. The exists callback reports whether an ID
	// is already used by the tree; generators must not return such an ID.
	NextID(exists func(id string) bool) (string, error)
}
