package domain

const (
	// DefaultRootLabel is used when no root label is configured.
	DefaultRootLabel = "root"

	// DefaultIDPrefix prefixes generated node IDs.
	DefaultIDPrefix = "n-"
)
