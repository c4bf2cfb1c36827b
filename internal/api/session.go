package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Session owns the bearer token for authenticated requests. The token is
// held in memory and mirrored to a file so a new process picks it up again,
// with an explicit Init/Clear lifecycle instead of ambient globals.
type Session struct {
	mu        sync.RWMutex
	token     string
	tokenPath string
	loaded    bool
}

// NewSession creates a session persisting its token at tokenPath.
// An empty path keeps the token in memory only.
func NewSession(tokenPath string) *Session {
	return &Session{tokenPath: tokenPath}
}

// Init stores the token, replacing any previous one. Used after login and
// after an OAuth callback hands the client a token.
func (s *Session) Init(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.loaded = true

	if s.tokenPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.tokenPath, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// Token returns the current bearer token, loading the persisted one on
// first use. Empty means unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.token
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.token
	}
	s.loaded = true
	if s.tokenPath != "" {
		if data, err := os.ReadFile(s.tokenPath); err == nil {
			s.token = strings.TrimSpace(string(data))
		}
	}
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Clear drops the token from memory and disk. Used on logout.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true

	if s.tokenPath == "" {
		return nil
	}
	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove persisted token: %w", err)
	}
	return nil
}
