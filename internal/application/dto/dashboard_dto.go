package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Resume las auditorías del mes en curso y las acciones abiertas visibles para la sesión.
type DashboardSummaryDTO struct {
	Dashboard string `json:"dashboard"` // panel por defecto de la sesión

	// Auditorías con dtstart en el mes en curso
	MonthAudits    int              `json:"month_audits"`
	AuditsByStatus map[string]int   `json:"audits_by_status"`
	PendingReview  int              `json:"pending_review"` // SUBMITTED a la espera de aprobación
	AverageScore   *decimal.Decimal `json:"average_score"`  // nil si ninguna tiene nota

	// Peores tiendas por nota media del mes (de menor a mayor)
	LowestStores []StoreScoreDTO `json:"lowest_stores"`

	OpenActions    int `json:"open_actions"`
	OverdueActions int `json:"overdue_actions"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// StoreScoreDTO nota media de una tienda en el período.
type StoreScoreDTO struct {
	StoreID      string          `json:"store_id"`
	Audits       int             `json:"audits"`
	AverageScore decimal.Decimal `json:"average_score"`
}
