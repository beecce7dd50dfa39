package notification

import (
	"context"
	"time"

	"kitchenledger/internal/core/id"
)

// Repository persists messages and connection sessions.
type Repository interface {
	CreateMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, limit int) ([]*Message, error)
	DeleteByOrder(ctx context.Context, orderID id.ID) (int64, error)

	OpenSession(ctx context.Context, s *Session) error
	CloseSession(ctx context.Context, sessionID id.ID, at time.Time) error
}
