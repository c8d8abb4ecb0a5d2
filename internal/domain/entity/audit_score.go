package entity

import "time"

// Valores de puntuación.
const (
	ScoreNotApplicable = 0 // N/A: excluido de la agregación
	ScoreMin           = 1
	ScoreMax           = 5
)

// AuditScore puntuación de un criterio en una auditoría. Como máximo una fila por
// (AuditID, CriteriaID); las escrituras hacen upsert.
// Score nil = sin puntuar, 0 = N/A, 1..5 = valorado.
type AuditScore struct {
	ID         string
	AuditID    string
	CriteriaID string
	Score      *int
	Comment    string
	Photos     []string // URLs en orden
	UpdatedBy  string
	UpdatedAt  time.Time
}

// Visited informa si el criterio fue puntuado o marcado N/A.
func (s *AuditScore) Visited() bool {
	return s != nil && s.Score != nil
}

// ValidScore informa si v es un valor admitido (0..5).
func ValidScore(v int) bool {
	return v >= ScoreNotApplicable && v <= ScoreMax
}
