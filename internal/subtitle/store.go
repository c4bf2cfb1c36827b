package subtitle

import "sync"

// Listener receives the full segment collection after every mutation.
type Listener func(segments []Segment)

// Store owns the in-memory segment collection for one (video, language)
// pair. All operations are total: unknown IDs are silent no-ops.
type Store struct {
	mu       sync.RWMutex
	segments []Segment
	language string
	style    string
	listener Listener
}

func NewStore(language, style string) *Store {
	return &Store{
		language: language,
		style:    style,
	}
}

// OnChange registers the listener notified after every mutating operation.
// Only one listener is held; registering replaces the previous one.
// The listener runs outside the store lock and may call back into the store.
func (s *Store) OnChange(fn Listener) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

// SetSelection changes the language and style inherited by added segments.
func (s *Store) SetSelection(language, style string) {
	s.mu.Lock()
	s.language = language
	s.style = style
	s.mu.Unlock()
}

func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

func (s *Store) Style() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.style
}

// Load replaces the entire collection, typically after a backend fetch.
// Entries are taken as-is, malformed ones included.
func (s *Store) Load(segments []Segment) {
	s.mu.Lock()
	s.segments = append([]Segment(nil), segments...)
	snapshot, fn := s.snapshotLocked()
	s.mu.Unlock()

	notify(fn, snapshot)
}

// Segments returns a copy of the current collection.
func (s *Store) Segments() []Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Segment(nil), s.segments...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.segments)
}

// Add appends a new segment after the current last one and returns it so
// the caller can immediately begin editing. The new ID is max(ids)+1, the
// start is last.end+1 (0 on an empty collection) and the duration is 3s.
func (s *Store) Add() Segment {
	s.mu.Lock()

	maxID := 0
	for _, seg := range s.segments {
		if seg.ID > maxID {
			maxID = seg.ID
		}
	}

	start := 0.0
	if n := len(s.segments); n > 0 {
		start = s.segments[n-1].End + 1
	}

	seg := Segment{
		ID:       maxID + 1,
		Start:    start,
		End:      start + 3,
		Text:     DefaultText,
		Language: s.language,
		Style:    s.style,
	}
	s.segments = append(s.segments, seg)
	snapshot, fn := s.snapshotLocked()
	s.mu.Unlock()

	notify(fn, snapshot)
	return seg
}

// UpdateText replaces the text of the segment with the given ID.
// Unknown IDs are a no-op.
func (s *Store) UpdateText(id int, text string) {
	s.mu.Lock()

	changed := false
	for i := range s.segments {
		if s.segments[i].ID == id {
			s.segments[i].Text = text
			changed = true
			break
		}
	}
	snapshot, fn := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		notify(fn, snapshot)
	}
}

// Remove deletes the segment with the given ID. Unknown IDs are a no-op,
// so a repeated Remove is idempotent.
func (s *Store) Remove(id int) {
	s.mu.Lock()

	changed := false
	for i := range s.segments {
		if s.segments[i].ID == id {
			s.segments = append(s.segments[:i], s.segments[i+1:]...)
			changed = true
			break
		}
	}
	snapshot, fn := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		notify(fn, snapshot)
	}
}

// Get returns the segment with the given ID.
func (s *Store) Get(id int) (Segment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, seg := range s.segments {
		if seg.ID == id {
			return seg, true
		}
	}
	return Segment{}, false
}

func (s *Store) snapshotLocked() ([]Segment, Listener) {
	return append([]Segment(nil), s.segments...), s.listener
}

func notify(fn Listener, segments []Segment) {
	if fn != nil {
		fn(segments)
	}
}
