package dto

// SendMessageRequest posts a free-form message to the board.
type SendMessageRequest struct {
	Content     string  `json:"content" binding:"required"`
	RecipientID *string `json:"recipientId"`
}
