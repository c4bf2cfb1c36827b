package subtitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSegments() []Segment {
	return []Segment{
		{ID: 1, Start: 0, End: 2, Text: "first"},
		{ID: 2, Start: 3, End: 5.5, Text: "second"},
		{ID: 3, Start: 8, End: 10, Text: "third"},
	}
}

func TestActiveSegment_WithinBounds(t *testing.T) {
	segs := testSegments()

	got, ok := ActiveSegment(segs, 4.2)
	require.True(t, ok)
	assert.Equal(t, 2, got.ID)
	assert.LessOrEqual(t, got.Start, 4.2)
	assert.GreaterOrEqual(t, got.End, 4.2)
}

func TestActiveSegment_BoundsInclusive(t *testing.T) {
	segs := testSegments()

	got, ok := ActiveSegment(segs, 3.0)
	require.True(t, ok)
	assert.Equal(t, 2, got.ID)

	got, ok = ActiveSegment(segs, 5.5)
	require.True(t, ok)
	assert.Equal(t, 2, got.ID)
}

func TestActiveSegment_GapsAndPastEndReturnNone(t *testing.T) {
	segs := testSegments()

	for _, tick := range []float64{2.5, 6.0, 7.99, 11, 1000} {
		_, ok := ActiveSegment(segs, tick)
		assert.False(t, ok, "no segment should be active at t=%v", tick)
	}
}

func TestActiveSegment_EmptyCollection(t *testing.T) {
	_, ok := ActiveSegment(nil, 1)
	assert.False(t, ok)
}

func TestActiveSegment_OverlapFirstInOrderWins(t *testing.T) {
	segs := []Segment{
		{ID: 5, Start: 0, End: 10, Text: "wide"},
		{ID: 6, Start: 2, End: 4, Text: "narrow"},
	}

	got, ok := ActiveSegment(segs, 3)
	require.True(t, ok)
	assert.Equal(t, 5, got.ID, "collection order is the tie-break for overlaps")
}

func TestMapper_TracksStoreMutations(t *testing.T) {
	store := NewStore("en", "clean")
	store.Load(testSegments())
	mapper := NewMapper(store)

	got, ok := mapper.ActiveAt(1)
	require.True(t, ok)
	assert.Equal(t, "first", got.Text)

	store.Remove(1)
	_, ok = mapper.ActiveAt(1)
	assert.False(t, ok, "mapper must observe the removal on the next tick")
}
