// Package notification fans out kitchen events to connected screens and keeps
// the pending message board.
package notification

import (
	"time"

	"kitchenledger/internal/core/id"
)

// MessageType classifies messages and broadcast events.
type MessageType string

const (
	TypeOrder  MessageType = "order"
	TypeUpdate MessageType = "notification-update"
)

// Message is a persisted notification. Order messages stay pending until the
// order is done or cancelled.
type Message struct {
	ID          id.ID       `db:"id" json:"id"`
	SenderID    string      `db:"sender_id" json:"senderId"`
	RecipientID *string     `db:"recipient_id" json:"recipientId,omitempty"`
	Content     string      `db:"content" json:"content"`
	Type        MessageType `db:"message_type" json:"messageType"`
	OrderID     *id.ID      `db:"order_id" json:"orderId,omitempty"`
	Timestamp   time.Time   `db:"created_at" json:"timestamp"`
}

// Session records one connection of a notification client.
type Session struct {
	ID             id.ID      `db:"id" json:"id"`
	UserID         string     `db:"user_id" json:"userId"`
	ConnectedAt    time.Time  `db:"connected_at" json:"connectedAt"`
	DisconnectedAt *time.Time `db:"disconnected_at" json:"disconnectedAt,omitempty"`
}

// Event is what subscribers receive.
type Event struct {
	Type    MessageType `json:"type"`
	OrderID string      `json:"orderId,omitempty"`
	Status  string      `json:"status,omitempty"`
	Message *Message    `json:"message,omitempty"`
}

// OrderEvent announces a newly created order.
func OrderEvent(orderID id.ID) Event {
	return Event{Type: TypeOrder, OrderID: orderID.String()}
}

// UpdateEvent announces a status change of an order.
func UpdateEvent(orderID id.ID, status string) Event {
	return Event{Type: TypeUpdate, OrderID: orderID.String(), Status: status}
}
