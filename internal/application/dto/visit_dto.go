package dto

import "time"

// CreateVisitRequest programa una visita sin puntuación.
type CreateVisitRequest struct {
	StoreID string     `json:"store_id" validate:"required,uuid"`
	UserID  string     `json:"user_id,omitempty"` // ejecutor; vacío = el propio usuario
	Type    string     `json:"type" validate:"required,oneof=training follow_up other"`
	DtStart *time.Time `json:"dtstart,omitempty"`
	Notes   string     `json:"notes"`
}

// VisitResponse salida de una visita.
type VisitResponse struct {
	ID           string     `json:"id"`
	StoreID      string     `json:"store_id"`
	UserID       string     `json:"user_id"`
	CreatedBy    string     `json:"created_by"`
	Type         string     `json:"type"`
	DtStart      time.Time  `json:"dtstart"`
	DtEnd        *time.Time `json:"dtend,omitempty"`
	Status       string     `json:"status"`
	LegacyStatus string     `json:"legacy_status"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// VisitListResponse listado de visitas.
type VisitListResponse struct {
	Items []VisitResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
