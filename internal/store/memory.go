package store

import (
	"context"
	"sort"
	"sync"

	"github.com/GOHANX1234/Aibot/internal/domain"
)

// MemoryLog implements MessageLog with a process-lifetime in-memory map.
// Ids are assigned sequentially starting at 1. The mutex is required
// because request handlers run concurrently.
type MemoryLog struct {
	mu       sync.Mutex
	messages map[int]domain.StoredMessage
	nextID   int
}

// NewMemoryLog creates an empty in-memory message log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		messages: make(map[int]domain.StoredMessage),
		nextID:   1,
	}
}

// SaveMessage appends a message and returns it with its assigned id.
func (l *MemoryLog) SaveMessage(_ context.Context, msg domain.InsertMessage) (*domain.StoredMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored := domain.StoredMessage{
		ID:            l.nextID,
		Content:       msg.Content,
		IsUserMessage: msg.IsUserMessage,
		Model:         msg.Model,
		Timestamp:     msg.Timestamp,
	}
	l.messages[stored.ID] = stored
	l.nextID++

	return &stored, nil
}

// ListMessages returns every stored message, ascending by timestamp.
func (l *MemoryLog) ListMessages(_ context.Context) ([]domain.StoredMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.StoredMessage, 0, len(l.messages))
	for _, msg := range l.messages {
		out = append(out, msg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp == out[j].Timestamp {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp < out[j].Timestamp
	})

	return out, nil
}
