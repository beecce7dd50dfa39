// Package audit defines the change history kept for orders.
package audit

import (
	"context"
	"encoding/json"
	"time"

	appctx "kitchenledger/internal/core/context"
	"kitchenledger/internal/core/id"
)

// Action is the kind of audited change.
type Action string

const (
	ActionCreate   Action = "create"
	ActionStatus   Action = "status"
	ActionPosition Action = "position"
	ActionCancel   Action = "cancel"
)

// Entry is one recorded change.
type Entry struct {
	ID         id.ID           `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   id.ID           `json:"entityId"`
	Action     Action          `json:"action"`
	UserID     string          `json:"userId,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Logger records and reads history.
type Logger interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) error
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Enrich fills ID, timestamp and the acting user from ctx.
func Enrich(ctx context.Context, e *Entry) {
	if id.IsNil(e.ID) {
		e.ID = id.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.UserID == "" {
		e.UserID = appctx.GetUserID(ctx)
	}
}

// Nop discards history.
type Nop struct{}

func (Nop) LogChange(context.Context, string, id.ID, Action, map[string]any) error { return nil }

func (Nop) History(context.Context, string, id.ID, int) ([]Entry, error) { return nil, nil }
