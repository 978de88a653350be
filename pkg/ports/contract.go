package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunIDGeneratorContract runs a suite of tests to verify that an IDGenerator
// implementation adheres to the defined interface contract.
func RunIDGeneratorContract(t *testing.T, gen IDGenerator) {
	t.Run("Unique Across Calls", func(t *testing.T) {
		used := make(map[string]bool)
		exists := func(id string) bool { return used[id] }

		for i := 0; i < 1000; i++ {
			id, err := gen.NextID(exists)
			require.NoError(t, err, "NextID should not return error")
			require.NotEmpty(t, id)
			require.False(t, used[id], "NextID returned an ID already in use: %s", id)
			used[id] = true
		}
	})

	t.Run("Skips Existing IDs", func(t *testing.T) {
		// Pre-claim a candidate, then make sure the next one is different.
		first, err := gen.NextID(func(string) bool { return false })
		require.NoError(t, err)

		second, err := gen.NextID(func(id string) bool { return id == first })
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}
