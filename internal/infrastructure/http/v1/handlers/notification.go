package handlers

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"kitchenledger/internal/domain/notification"
	"kitchenledger/internal/infrastructure/http/v1/dto"
)

const keepAliveInterval = 25 * time.Second

// NotificationHandler serves the live event stream and the message board.
type NotificationHandler struct {
	*BaseHandler
	service *notification.Service
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(base *BaseHandler, service *notification.Service) *NotificationHandler {
	return &NotificationHandler{BaseHandler: base, service: service}
}

// Stream handles GET /notifications/stream as Server-Sent Events.
// The session lasts until the client disconnects.
func (h *NotificationHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	sub, session, err := h.service.Connect(ctx, h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	defer h.service.Disconnect(context.WithoutCancel(ctx), sub, session)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("connected", gin.H{"sessionId": session.ID.String()})
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		}
	})
}

// ListMessages handles GET /notifications/messages.
func (h *NotificationHandler) ListMessages(c *gin.Context) {
	messages, err := h.service.ListMessages(c.Request.Context(), h.ParseIntQuery(c, "limit", 100))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewItemsResponse(messages))
}

// SendMessage handles POST /notifications/messages.
func (h *NotificationHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	m, err := h.service.Send(c.Request.Context(), h.GetUserID(c), req.RecipientID, req.Content)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "message sent", m)
}
