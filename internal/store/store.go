// Package store provides the server-side message log.
package store

import (
	"context"

	"github.com/GOHANX1234/Aibot/internal/domain"
)

// MessageLog records every message that passes through the server and
// serves the history endpoint. Records are append-only; the log's
// lifetime is bounded by the process.
type MessageLog interface {
	// SaveMessage appends a message and returns it with its assigned id.
	SaveMessage(ctx context.Context, msg domain.InsertMessage) (*domain.StoredMessage, error)

	// ListMessages returns every stored message, ascending by timestamp.
	ListMessages(ctx context.Context) ([]domain.StoredMessage, error)
}
