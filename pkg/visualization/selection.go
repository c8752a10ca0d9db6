package visualization

import "sync"

// Selection holds at most one highlighted node id. It is advisory: the
// simulation never reads it. Safe for concurrent use; a nil *Selection
// reads as "nothing selected".
type Selection struct {
	mu sync.RWMutex
	id string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Select highlights id. The empty string clears the selection.
func (s *Selection) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}

// Clear removes any highlight.
func (s *Selection) Clear() {
	s.Select("")
}

// IsSelected reports whether id is the highlighted node.
func (s *Selection) IsSelected(id string) bool {
	if s == nil || id == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id == id
}

// Selected returns the highlighted id, if any.
func (s *Selection) Selected() (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id, s.id != ""
}
