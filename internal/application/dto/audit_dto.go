package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAuditRequest programa una auditoría.
type CreateAuditRequest struct {
	StoreID     string     `json:"store_id" validate:"required,uuid"`
	ChecklistID string     `json:"checklist_id" validate:"required,uuid"`
	UserID      string     `json:"user_id,omitempty"` // ejecutor; vacío = el propio usuario
	DtStart     *time.Time `json:"dtstart,omitempty"`
}

// AuditListRequest filtros del listado (query string). From/To en formato 2006-01-02 o RFC3339.
type AuditListRequest struct {
	Status  string `query:"status"`
	StoreID string `query:"store_id"`
	From    string `query:"from"`
	To      string `query:"to"`
	PageRequest
}

// UpdateAuditorCommentsRequest comentarios generales del auditor.
type UpdateAuditorCommentsRequest struct {
	AuditorComments string `json:"auditor_comments"`
}

// UpsertScoreRequest puntuación de un criterio. Score null = sin puntuar, 0 = N/A, 1..5.
// Comment y Photos nil conservan el valor anterior.
type UpsertScoreRequest struct {
	Score   *int     `json:"score"`
	Comment *string  `json:"comment,omitempty"`
	Photos  []string `json:"photos,omitempty"`
}

// RejectAuditRequest motivo del rechazo (se guarda como comentario).
type RejectAuditRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// AuditResponse salida resumida de una auditoría.
type AuditResponse struct {
	ID              string           `json:"id"`
	StoreID         string           `json:"store_id"`
	UserID          string           `json:"user_id"`
	ChecklistID     string           `json:"checklist_id"`
	CreatedBy       string           `json:"created_by"`
	DtStart         time.Time        `json:"dtstart"`
	DtEnd           *time.Time       `json:"dtend,omitempty"`
	SubmittedAt     *time.Time       `json:"submitted_at,omitempty"`
	Status          string           `json:"status"`
	StatusCode      int              `json:"status_code"`
	LegacyStatus    string           `json:"legacy_status"`
	AuditorComments string           `json:"auditor_comments"`
	Score           *decimal.Decimal `json:"score,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// AuditListResponse listado paginado de auditorías.
type AuditListResponse struct {
	Items []AuditResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ScoreResponse puntuación de un criterio.
type ScoreResponse struct {
	CriteriaID string    `json:"criteria_id"`
	Score      *int      `json:"score"`
	Comment    string    `json:"comment"`
	Photos     []string  `json:"photos"`
	UpdatedBy  string    `json:"updated_by"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ScoreSummaryResponse agregado de un conjunto de criterios.
// Percentage 0 con ScoredCount 0 significa "sin datos".
type ScoreSummaryResponse struct {
	Percentage         decimal.Decimal `json:"percentage"`
	ScoredCount        int             `json:"scored_count"`
	NotApplicableCount int             `json:"not_applicable_count"`
	UnscoredCount      int             `json:"unscored_count"`
}

// SectionScoreResponse porcentaje de una sección.
type SectionScoreResponse struct {
	SectionID string               `json:"section_id"`
	Name      string               `json:"name"`
	Summary   ScoreSummaryResponse `json:"summary"`
}

// AuditPermissions acciones que la sesión puede realizar sobre esta auditoría.
type AuditPermissions struct {
	CanEdit    bool `json:"can_edit"`
	CanSubmit  bool `json:"can_submit"`
	CanReview  bool `json:"can_review"`
	CanClose   bool `json:"can_close"`
	CanCancel  bool `json:"can_cancel"`
	CanDelete  bool `json:"can_delete"`
	CanActions bool `json:"can_create_actions"`
}

// AuditDetailResponse auditoría con puntuaciones, desglose y permisos de la sesión.
type AuditDetailResponse struct {
	AuditResponse
	Scores      []ScoreResponse        `json:"scores"`
	Sections    []SectionScoreResponse `json:"sections"`
	Total       ScoreSummaryResponse   `json:"total"`
	Permissions AuditPermissions       `json:"permissions"`
}

// TransitionResponse resultado de un cambio de estado.
// Warnings no bloquea la transición (p. ej. cierre con acciones abiertas).
type TransitionResponse struct {
	Audit            AuditResponse    `json:"audit"`
	Warnings         []string         `json:"warnings,omitempty"`
	GeneratedActions []ActionResponse `json:"generated_actions,omitempty"`
}
