package domain

import (
	"time"
)

// ChatSession is one conversation thread with its own message history and
// selected model. Sessions live in the client-side collection; the
// collection is ordered most-recent-first.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Timestamp int64         `json:"timestamp"`
	Messages  []ChatMessage `json:"messages"`
	Model     string        `json:"model"`
}

// Touch refreshes the last-modified instant.
func (s *ChatSession) Touch(now time.Time) {
	s.Timestamp = now.UnixMilli()
}

// LastMessage returns the most recent message, or nil for an empty log.
func (s *ChatSession) LastMessage() *ChatMessage {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}
