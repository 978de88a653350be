// Package idgen provides the node ID strategies used by the Tree Store.
package idgen

import (
	"fmt"
	"strconv"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/google/uuid"
)

// Strategy names accepted in configuration.
const (
	StrategySequential = "sequential"
	StrategyRandom     = "random"
)

// maxAttempts bounds the verification loop of the random generator.
const maxAttempts = 16

// Sequential produces monotonic IDs: prefix+1, prefix+2, ...
// Candidates already present in the tree are skipped, never reused.
type Sequential struct {
	prefix string
	next   uint64
}

// NewSequential creates a monotonic generator. An empty prefix defaults to "n-".
func NewSequential(prefix string) *Sequential {
	if prefix == "" {
		prefix = domain.DefaultIDPrefix
	}
	return &Sequential{prefix: prefix, next: 1}
}

// NextID implements ports.IDGenerator.
func (s *Sequential) NextID(exists func(string) bool) (string, error) {
	for {
		id := s.prefix + strconv.FormatUint(s.next, 10)
		s.next++
		if exists == nil || !exists(id) {
			return id, nil
		}
	}
}

// Random produces prefixed UUIDv4 IDs and verifies them against the tree.
type Random struct {
	prefix string
	newID  func() string
}

// NewRandom creates a verified random generator.
func NewRandom(prefix string) *Random {
	if prefix == "" {
		prefix = domain.DefaultIDPrefix
	}
	return &Random{prefix: prefix, newID: func() string { return uuid.NewString() }}
}

// NextID implements ports.IDGenerator. It retries on collision and gives up
// after a bounded number of attempts.
func (r *Random) NextID(exists func(string) bool) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		id := r.prefix + r.newID()
		if exists == nil || !exists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: could not generate a unique id after %d attempts", domain.ErrInvariantViolation, maxAttempts)
}

// New builds a generator from a strategy name.
func New(strategy, prefix string) (ports.IDGenerator, error) {
	switch strategy {
	case "", StrategySequential:
		return NewSequential(prefix), nil
	case StrategyRandom:
		return NewRandom(prefix), nil
	}
	return nil, fmt.Errorf("unknown id strategy %q (expected sequential or random)", strategy)
}
