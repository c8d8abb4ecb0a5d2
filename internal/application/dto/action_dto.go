package dto

import "time"

// CreateActionRequest alta manual de un plan de acción.
type CreateActionRequest struct {
	CriteriaID  *string   `json:"criteria_id,omitempty"`
	Title       string    `json:"title" validate:"required,max=300"`
	Description string    `json:"description"`
	Responsible string    `json:"responsible" validate:"required,oneof=DOT Aderente Both"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

// UpdateActionRequest actualización parcial; los campos nil no se tocan.
type UpdateActionRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Responsible *string    `json:"responsible,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
}

// ChangeActionStatusRequest cambio de estado de un plan de acción.
type ChangeActionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

// ActionResponse salida de un plan de acción.
type ActionResponse struct {
	ID            string     `json:"id"`
	AuditID       string     `json:"audit_id"`
	CriteriaID    *string    `json:"criteria_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Responsible   string     `json:"responsible"`
	DueDate       time.Time  `json:"due_date"`
	Status        string     `json:"status"`
	Progress      int        `json:"progress"`
	CreatedBy     string     `json:"created_by"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	Overdue       bool       `json:"overdue"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ActionListResponse listado de planes de acción.
type ActionListResponse struct {
	Items []ActionResponse `json:"items"`
	Open  int              `json:"open"`
}
