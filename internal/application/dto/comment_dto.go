package dto

import "time"

// CreateCommentRequest nuevo comentario en una auditoría.
type CreateCommentRequest struct {
	Body       string `json:"body" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}

// CommentResponse comentario visible para la sesión.
type CommentResponse struct {
	ID         string    `json:"id"`
	AuditID    string    `json:"audit_id"`
	UserID     string    `json:"user_id"`
	Body       string    `json:"body"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}
