package bot

import "sync"

// Intents tracks pending reply targets per chat. A chat holds at most one
// intent; starting a new reply replaces the previous target. Intents live
// in memory only and do not survive a restart.
type Intents struct {
	mu     sync.Mutex
	byChat map[int64]string
}

// NewIntents returns an empty intent store.
func NewIntents() *Intents {
	return &Intents{byChat: make(map[int64]string)}
}

// Begin records that the next plain message from chatID is a reply to the
// given order, replacing any previous target.
func (s *Intents) Begin(chatID int64, orderNumber string) {
	s.mu.Lock()
	s.byChat[chatID] = orderNumber
	s.mu.Unlock()
}

// Take removes and returns the pending target for chatID.
func (s *Intents) Take(chatID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	num, ok := s.byChat[chatID]
	if ok {
		delete(s.byChat, chatID)
	}
	return num, ok
}

// Peek returns the pending target without consuming it.
func (s *Intents) Peek(chatID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	num, ok := s.byChat[chatID]
	return num, ok
}

// Cancel discards the pending target, reporting which order it pointed at.
func (s *Intents) Cancel(chatID int64) (string, bool) {
	return s.Take(chatID)
}
