// Package editor layers interactive editing affordances on a subtitle
// store: a single-segment edit buffer plus export to SRT and JSON files.
package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cliplab/clipstudio/internal/subtitle"
)

// Format is an export target for the segment collection.
type Format string

const (
	FormatSRT  Format = "srt"
	FormatJSON Format = "json"
)

// Session drives one editing session over a segment store. At most one
// segment is in edit at a time.
type Session struct {
	store *subtitle.Store

	mu        sync.Mutex
	editingID int
	editing   bool
	draft     string
}

func NewSession(store *subtitle.Store) *Session {
	return &Session{store: store}
}

// Store exposes the underlying segment store.
func (s *Session) Store() *subtitle.Store {
	return s.store
}

// BeginEdit opens the edit buffer on the given segment and returns its
// current text as the draft. Opening a new edit silently abandons any
// uncommitted previous one; that mirrors the shipped behavior and is a
// known sharp edge, not a guarantee. Unknown IDs are a no-op.
func (s *Session) BeginEdit(id int) (string, bool) {
	seg, ok := s.store.Get(id)
	if !ok {
		return "", false
	}

	s.mu.Lock()
	s.editingID = id
	s.editing = true
	s.draft = seg.Text
	s.mu.Unlock()
	return seg.Text, true
}

// AddAndEdit appends a fresh segment and immediately opens it for editing,
// the way the editor's add button behaves.
func (s *Session) AddAndEdit() subtitle.Segment {
	seg := s.store.Add()
	s.mu.Lock()
	s.editingID = seg.ID
	s.editing = true
	s.draft = seg.Text
	s.mu.Unlock()
	return seg
}

// SetDraft updates the in-buffer text without committing it.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	if s.editing {
		s.draft = text
	}
	s.mu.Unlock()
}

// CommitEdit writes the given text to the segment under edit and closes
// the buffer. A no-op when nothing is being edited, or when the segment
// was removed mid-edit.
func (s *Session) CommitEdit(text string) {
	s.mu.Lock()
	if !s.editing {
		s.mu.Unlock()
		return
	}
	id := s.editingID
	s.editing = false
	s.draft = ""
	s.mu.Unlock()

	s.store.UpdateText(id, text)
}

// CancelEdit discards the buffer without touching the store.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	s.editing = false
	s.draft = ""
	s.mu.Unlock()
}

// Editing returns the ID of the segment under edit, if any.
func (s *Session) Editing() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID, s.editing
}

// Draft returns the current buffer text.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// ExportAs serializes the current collection. An empty collection yields a
// valid empty-bodied file rather than an error.
func (s *Session) ExportAs(format Format) ([]byte, error) {
	segments := s.store.Segments()

	switch format {
	case FormatSRT:
		return subtitle.EncodeSRT(segments), nil
	case FormatJSON:
		return subtitle.EncodeJSON(segments)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportFilename is the conventional name of an exported subtitle file.
func (s *Session) ExportFilename(format Format) string {
	return fmt.Sprintf("subtitles_%s.%s", s.store.Language(), format)
}

// SaveExport serializes the collection and writes it under dir using the
// conventional filename, returning the written path.
func (s *Session) SaveExport(dir string, format Format) (string, error) {
	data, err := s.ExportAs(format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, s.ExportFilename(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
