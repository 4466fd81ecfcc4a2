package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsUniqueAndOrdered(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	prev := ""
	for range 1000 {
		id := New()
		assert.Len(t, id, 26)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		if prev != "" {
			assert.Less(t, prev, id, "ids must be monotonically increasing")
		}
		prev = id
	}
}
