package audit

import (
	"fmt"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

// Vocabulario heredado de la capa de almacenamiento. SUBMITTED, ENDED y CLOSED
// colapsan en COMPLETED; se conserva para consumidores externos (exportaciones, API).
const (
	LegacyScheduled  = "SCHEDULED"
	LegacyInProgress = "IN_PROGRESS"
	LegacyCompleted  = "COMPLETED"
	LegacyCancelled  = "CANCELLED"
)

// LegacyStatus proyección con pérdida del estado de dominio al vocabulario heredado.
func LegacyStatus(s entity.AuditStatus) string {
	switch s {
	case entity.StatusNew:
		return LegacyScheduled
	case entity.StatusInProgress:
		return LegacyInProgress
	case entity.StatusSubmitted, entity.StatusEnded, entity.StatusClosed:
		return LegacyCompleted
	case entity.StatusCancelled:
		return LegacyCancelled
	}
	return ""
}

// StorageStatus valor persistido en audits.status / visits.status.
// El vocabulario está ampliado: NEW se guarda como SCHEDULED (compatible con lectores
// heredados) y SUBMITTED/ENDED/CLOSED se guardan con su propio nombre.
func StorageStatus(s entity.AuditStatus) string {
	if s == entity.StatusNew {
		return LegacyScheduled
	}
	return s.String()
}

// ParseStorageStatus inversa de StorageStatus. Acepta también el valor heredado
// COMPLETED, que se interpreta como ENDED (aprobada, pendiente de cierre).
func ParseStorageStatus(v string) (entity.AuditStatus, error) {
	switch v {
	case LegacyScheduled, "NEW":
		return entity.StatusNew, nil
	case LegacyCompleted:
		return entity.StatusEnded, nil
	}
	if s, ok := entity.ParseAuditStatus(v); ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: estado almacenado desconocido %q", domain.ErrInvalidInput, v)
}

// ParseStatusFilter estados de dominio que cubre un valor de filtro de listado.
// Acepta el vocabulario heredado: COMPLETED abarca SUBMITTED, ENDED y CLOSED.
func ParseStatusFilter(v string) ([]entity.AuditStatus, error) {
	switch v {
	case LegacyScheduled, "NEW":
		return []entity.AuditStatus{entity.StatusNew}, nil
	case LegacyCompleted:
		return []entity.AuditStatus{entity.StatusSubmitted, entity.StatusEnded, entity.StatusClosed}, nil
	}
	if s, ok := entity.ParseAuditStatus(v); ok {
		return []entity.AuditStatus{s}, nil
	}
	return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, v)
}

// StorageValues valores persistidos que ParseStorageStatus lee como s.
func StorageValues(s entity.AuditStatus) []string {
	switch s {
	case entity.StatusNew:
		return []string{LegacyScheduled, "NEW"}
	case entity.StatusEnded:
		return []string{entity.StatusEnded.String(), LegacyCompleted}
	}
	return []string{s.String()}
}
