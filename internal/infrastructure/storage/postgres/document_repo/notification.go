package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain/notification"
	"kitchenledger/internal/infrastructure/storage/postgres"
)

const (
	messageTable = "messages"
	sessionTable = "sessions"
)

// NotificationRepo implements notification.Repository.
type NotificationRepo struct {
	messages *BaseDocumentRepo[notification.Message]
	sessions *BaseDocumentRepo[notification.Session]
}

var _ notification.Repository = (*NotificationRepo)(nil)

// NewNotificationRepo creates a new notification repository.
func NewNotificationRepo(txm *postgres.TxManager) *NotificationRepo {
	return &NotificationRepo{
		messages: NewBaseDocumentRepo[notification.Message](txm, "message", messageTable),
		sessions: NewBaseDocumentRepo[notification.Session](txm, "session", sessionTable),
	}
}

func (r *NotificationRepo) CreateMessage(ctx context.Context, m *notification.Message) error {
	return r.messages.Create(ctx, m)
}

// ListMessages returns the latest messages, oldest first.
func (r *NotificationRepo) ListMessages(ctx context.Context, limit int) ([]*notification.Message, error) {
	latest := r.messages.baseSelect().
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	return r.messages.selectAll(ctx, r.messages.Builder().
		Select("*").
		FromSelect(latest, "latest").
		OrderBy("created_at ASC"))
}

// DeleteByOrder removes the pending messages of an order.
func (r *NotificationRepo) DeleteByOrder(ctx context.Context, orderID id.ID) (int64, error) {
	sql, args, err := r.messages.Builder().
		Delete(messageTable).
		Where(squirrel.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.messages.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete order messages: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *NotificationRepo) OpenSession(ctx context.Context, s *notification.Session) error {
	return r.sessions.Create(ctx, s)
}

func (r *NotificationRepo) CloseSession(ctx context.Context, sessionID id.ID, at time.Time) error {
	sql, args, err := r.sessions.Builder().
		Update(sessionTable).
		Set("disconnected_at", at).
		Where(squirrel.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build close session: %w", err)
	}

	if _, err := r.sessions.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}
