package app

import (
	"slices"
	"sync"

	"yutai_notification_bot/internal/domain/benefit"
)

// Selection is the set of benefit IDs an operator has ticked for bulk deletion.
type Selection struct {
	mu  sync.Mutex
	ids map[benefit.ID]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[benefit.ID]struct{})}
}

// Toggle flips id in or out of the selection and reports whether it is now selected.
func (s *Selection) Toggle(id benefit.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) Has(id benefit.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Remove(id benefit.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []benefit.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]benefit.ID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.ids)
}
