package subtitle

// Mapper resolves which segment is active at a given playback time.
type Mapper struct {
	store *Store
}

func NewMapper(store *Store) *Mapper {
	return &Mapper{store: store}
}

// ActiveAt returns the segment displayed at playback time t, or false when
// no segment spans t. Bounds are inclusive on both ends. When segments
// overlap, the first match in collection order wins; that tie-break is
// deliberate and relied upon by callers.
func (m *Mapper) ActiveAt(t float64) (Segment, bool) {
	return ActiveSegment(m.store.Segments(), t)
}

// ActiveSegment is the linear scan behind Mapper.ActiveAt. O(n) per call,
// which is fine for the tens-to-hundreds of segments a video carries.
func ActiveSegment(segments []Segment, t float64) (Segment, bool) {
	for _, seg := range segments {
		if seg.Start <= t && t <= seg.End {
			return seg, true
		}
	}
	return Segment{}, false
}
