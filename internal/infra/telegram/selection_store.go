package telegram

import (
	"sync"

	"yutai_notification_bot/internal/app"
)

// SelectionStore keeps one bulk-delete selection per chat.
type SelectionStore struct {
	mu     sync.Mutex
	byChat map[int64]*app.Selection
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{byChat: make(map[int64]*app.Selection)}
}

// For returns the chat's selection, creating an empty one on first use.
func (s *SelectionStore) For(chatID int64) *app.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.byChat[chatID]
	if !ok {
		sel = app.NewSelection()
		s.byChat[chatID] = sel
	}
	return sel
}

func (s *SelectionStore) Drop(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byChat, chatID)
}
