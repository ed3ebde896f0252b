package ring_test

import (
	"testing"

	"github.com/hotpath-go/hotpath/shared/ring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_KeepsInsertionOrder(t *testing.T) {
	r := ring.New[int](5)
	for i := 1; i <= 3; i++ {
		r.Push(i)
	}

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{1, 2, 3}, r.Snapshot())
}

func TestRing_EvictsOldestFirst(t *testing.T) {
	r := ring.New[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}

	require.Equal(t, 3, r.Len())
	assert.Equal(t, []int{3, 4, 5}, r.Snapshot())
	assert.NotContains(t, r.Snapshot(), 1)
	assert.NotContains(t, r.Snapshot(), 2)
}

func TestRing_NeverExceedsCapacity(t *testing.T) {
	r := ring.New[float64](10)
	for i := 0; i < 1000; i++ {
		r.Push(float64(i))
	}

	assert.Equal(t, 10, r.Len())
	assert.Equal(t, 10, r.Cap())
	assert.Equal(t, float64(990), r.Snapshot()[0])
}

func TestRing_ZeroCapacityPanics(t *testing.T) {
	assert.Panics(t, func() { ring.New[int](0) })
}
