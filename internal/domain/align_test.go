package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignLayouts(t *testing.T) {
	day := time.Date(2020, 6, 10, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }
	reference := at(11, 10)

	t.Run("nearest sample per layout", func(t *testing.T) {
		layouts := map[string][]time.Time{
			"k-p1h-n3-1":  {at(10, 0), at(11, 0), at(12, 0)},
			"k-p30m-n1-2": {at(10, 30)},
		}
		indices, err := AlignLayouts(layouts, reference)
		require.NoError(t, err)
		assert.Equal(t, 1, indices["k-p1h-n3-1"])
		assert.Equal(t, 0, indices["k-p30m-n1-2"])
	})

	t.Run("tie breaks toward the earlier index", func(t *testing.T) {
		layouts := map[string][]time.Time{
			"k": {at(11, 0), at(11, 20)},
		}
		indices, err := AlignLayouts(layouts, reference)
		require.NoError(t, err)
		assert.Equal(t, 0, indices["k"])
	})

	t.Run("empty layout fails the whole alignment", func(t *testing.T) {
		layouts := map[string][]time.Time{
			"k-p1h-n3-1": {at(10, 0)},
			"k-empty":    {},
		}
		_, err := AlignLayouts(layouts, reference)
		require.ErrorIs(t, err, ErrTimeAlignment)
	})
}

func TestAlignedIndex(t *testing.T) {
	indices := map[string]int{"k-p1h-n3-1": 2}

	idx, err := AlignedIndex(indices, "k-p1h-n3-1")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = AlignedIndex(indices, "k-undeclared")
	require.ErrorIs(t, err, ErrTimeAlignment)
}
