package subtitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Add_EmptyCollection(t *testing.T) {
	s := NewStore("en", "clean")

	seg := s.Add()

	assert.Equal(t, 1, seg.ID)
	assert.Equal(t, 0.0, seg.Start)
	assert.Equal(t, 3.0, seg.End)
	assert.Equal(t, DefaultText, seg.Text)
	assert.Equal(t, "en", seg.Language)
	assert.Equal(t, "clean", seg.Style)
}

func TestStore_Add_AfterExistingSegments(t *testing.T) {
	s := NewStore("en", "clean")
	s.Load([]Segment{
		{ID: 3, Start: 0, End: 2, Text: "one", Language: "en", Style: "clean"},
		{ID: 7, Start: 4, End: 6.5, Text: "two", Language: "en", Style: "clean"},
	})

	seg := s.Add()

	assert.Equal(t, 8, seg.ID, "new id must be max(ids)+1")
	assert.Equal(t, 7.5, seg.Start, "new start must be last end + 1")
	assert.Equal(t, 10.5, seg.End)
}

func TestStore_Add_InheritsSelection(t *testing.T) {
	s := NewStore("en", "clean")
	s.SetSelection("ja", "casual")

	seg := s.Add()

	assert.Equal(t, "ja", seg.Language)
	assert.Equal(t, "casual", seg.Style)
}

func TestStore_UpdateText_UnknownIDIsNoOp(t *testing.T) {
	s := NewStore("en", "clean")
	s.Load([]Segment{{ID: 1, Start: 0, End: 2, Text: "hi"}})

	s.UpdateText(99, "changed")

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "hi", got.Text)
}

func TestStore_Remove_Idempotent(t *testing.T) {
	s := NewStore("en", "clean")
	s.Load([]Segment{
		{ID: 1, Start: 0, End: 2, Text: "one"},
		{ID: 2, Start: 3, End: 5, Text: "two"},
	})

	s.Remove(1)
	assert.Equal(t, 1, s.Len())

	// second remove of the same id must be a silent no-op
	s.Remove(1)
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get(2)
	assert.True(t, ok)
}

func TestStore_ListenerReceivesFullCollection(t *testing.T) {
	s := NewStore("en", "clean")

	var last []Segment
	var calls int
	s.OnChange(func(segments []Segment) {
		last = segments
		calls++
	})

	s.Load([]Segment{{ID: 1, Start: 0, End: 2, Text: "one"}})
	s.Add()
	s.UpdateText(1, "edited")
	s.Remove(2)

	assert.Equal(t, 4, calls)
	require.Len(t, last, 1)
	assert.Equal(t, "edited", last[0].Text)
}

func TestStore_ListenerNotCalledOnNoOpMutation(t *testing.T) {
	s := NewStore("en", "clean")
	s.Load([]Segment{{ID: 1, Start: 0, End: 2, Text: "one"}})

	var calls int
	s.OnChange(func([]Segment) { calls++ })

	s.UpdateText(42, "nope")
	s.Remove(42)

	assert.Zero(t, calls)
}

func TestStore_ListenerMayReadBack(t *testing.T) {
	s := NewStore("en", "clean")

	var seen int
	s.OnChange(func([]Segment) {
		seen = s.Len()
	})

	s.Add()
	assert.Equal(t, 1, seen)
}

func TestStore_IDReuseAfterDeleteMatchesMaxRule(t *testing.T) {
	s := NewStore("en", "clean")
	s.Load([]Segment{
		{ID: 1, Start: 0, End: 2, Text: "one"},
		{ID: 2, Start: 3, End: 5, Text: "two"},
	})

	// deleting the max id and adding again reuses it: the id rule is
	// max(ids)+1 by contract, not a monotonic counter
	s.Remove(2)
	seg := s.Add()
	assert.Equal(t, 2, seg.ID)
}
