package id

import (
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator(t *testing.T) {
	value, err := NewUUIDGenerator().NewID()
	require.NoError(t, err)

	_, err = uuid.Parse(value)
	require.NoError(t, err)
}

func TestULIDGenerator_MonotonicWithinSameInstant(t *testing.T) {
	gen := NewULIDGenerator()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	gen.now = func() time.Time { return fixed }

	ids := make([]string, 0, 50)
	for range 50 {
		value, err := gen.NewID()
		require.NoError(t, err)
		ids = append(ids, value)
	}

	require.True(t, sort.StringsAreSorted(ids))
	require.Equal(t, ids[0][:10], ids[49][:10])
}
