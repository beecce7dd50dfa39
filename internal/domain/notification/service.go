package notification

import (
	"context"
	"strings"
	"time"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/pkg/logger"
)

// Service combines the hub with message and session persistence.
type Service struct {
	repo Repository
	hub  *Hub
}

// NewService creates a new notification service.
func NewService(repo Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Hub exposes the underlying registry.
func (s *Service) Hub() *Hub {
	return s.hub
}

// Broadcast fans ev out to connected subscribers.
func (s *Service) Broadcast(ctx context.Context, ev Event) {
	n := s.hub.Broadcast(ev)
	logger.Debug(ctx, "notification broadcast", "type", ev.Type, "order_id", ev.OrderID, "delivered", n)
}

// Send stores a free-form message and broadcasts it.
func (s *Service) Send(ctx context.Context, senderID string, recipientID *string, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.NewInvalidInput("content is required").WithDetail("field", "content")
	}
	m := &Message{
		ID:          id.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Type:        TypeUpdate,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}
	s.Broadcast(ctx, Event{Type: m.Type, Message: m})
	return m, nil
}

// CreateOrderMessage stores the pending message of a new order.
// It runs inside the order transaction.
func (s *Service) CreateOrderMessage(ctx context.Context, orderID id.ID, senderID, content string) error {
	oid := orderID
	return s.repo.CreateMessage(ctx, &Message{
		ID:        id.New(),
		SenderID:  senderID,
		Content:   content,
		Type:      TypeOrder,
		OrderID:   &oid,
		Timestamp: time.Now().UTC(),
	})
}

// DeleteByOrder removes the pending messages of an order.
func (s *Service) DeleteByOrder(ctx context.Context, orderID id.ID) error {
	n, err := s.repo.DeleteByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "order messages cleared", "order_id", orderID, "count", n)
	return nil
}

// ListMessages returns stored messages, oldest first.
func (s *Service) ListMessages(ctx context.Context, limit int) ([]*Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListMessages(ctx, limit)
}

// Connect subscribes a client and records its session.
// The caller must call Disconnect with both return values.
func (s *Service) Connect(ctx context.Context, userID string) (*Subscriber, *Session, error) {
	session := &Session{
		ID:          id.New(),
		UserID:      userID,
		ConnectedAt: time.Now().UTC(),
	}
	if err := s.repo.OpenSession(ctx, session); err != nil {
		return nil, nil, err
	}
	sub := s.hub.Subscribe(userID)
	logger.Info(ctx, "notification client connected", "session_id", session.ID, "clients", s.hub.Count())
	return sub, session, nil
}

// Disconnect unsubscribes the client and closes its session.
func (s *Service) Disconnect(ctx context.Context, sub *Subscriber, session *Session) {
	s.hub.Unsubscribe(sub)
	now := time.Now().UTC()
	if err := s.repo.CloseSession(ctx, session.ID, now); err != nil {
		logger.Warn(ctx, "close notification session failed", "session_id", session.ID, "error", err)
		return
	}
	session.DisconnectedAt = &now
	logger.Info(ctx, "notification client disconnected", "session_id", session.ID, "clients", s.hub.Count())
}
