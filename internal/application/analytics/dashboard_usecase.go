// Package analytics contiene los casos de uso de lectura para los paneles
// (resumen del mes de las auditorías visibles y de sus planes de acción).
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

const dashboardLowestStores = 5 // tiendas con peor nota en el widget del panel

// AuditSource auditorías visibles para la sesión (lo implementa *auditing.AuditUseCase).
type AuditSource interface {
	Visible(ctx context.Context, s access.Session, from, to time.Time) ([]*entity.Audit, error)
}

// ActionSource planes de acción visibles (lo implementa *auditing.ActionUseCase).
type ActionSource interface {
	List(ctx context.Context, s access.Session, onlyOpen bool) (*dto.ActionListResponse, error)
}

// DashboardUseCase genera el resumen del mes en curso para el panel de la sesión.
//
// No accede a repositorios: delega en los casos de uso de auditoría, que ya
// aplican el alcance de visibilidad de cada rol.
type DashboardUseCase struct {
	audits  AuditSource
	actions ActionSource
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso. now nil usa time.Now.
func NewDashboardUseCase(audits AuditSource, actions ActionSource, now func() time.Time) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{audits: audits, actions: actions, now: now}
}

// GetSummary construye el DashboardSummaryDTO de la sesión.
//
// Dos llamadas en paralelo:
//  1. Visible(mes)        → conteo por estado, nota media, peores tiendas
//  2. List(solo abiertas) → acciones abiertas y vencidas
func (uc *DashboardUseCase) GetSummary(ctx context.Context, s access.Session) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rango: mes en curso ───────────────────────────────────────────────────
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	type auditsResult struct {
		list []*entity.Audit
		err  error
	}
	type actionsResult struct {
		list *dto.ActionListResponse
		err  error
	}

	auditsCh := make(chan auditsResult, 1)
	actionsCh := make(chan actionsResult, 1)

	go func() {
		list, err := uc.audits.Visible(ctx, s, monthStart, monthEnd)
		auditsCh <- auditsResult{list, err}
	}()
	go func() {
		list, err := uc.actions.List(ctx, s, true)
		actionsCh <- actionsResult{list, err}
	}()

	audits := <-auditsCh
	actions := <-actionsCh

	if audits.err != nil {
		return nil, fmt.Errorf("dashboard: auditorías del mes: %w", audits.err)
	}
	if actions.err != nil {
		return nil, fmt.Errorf("dashboard: acciones abiertas: %w", actions.err)
	}

	out := &dto.DashboardSummaryDTO{
		Dashboard:      string(access.DefaultDashboard(s)),
		AuditsByStatus: map[string]int{},
		MonthAudits:    len(audits.list),
		LowestStores:   []dto.StoreScoreDTO{},
		DateLabel:      monthLabel(now),
	}

	// ── Auditorías ────────────────────────────────────────────────────────────
	type acc struct {
		sum decimal.Decimal
		n   int
	}
	byStore := map[string]*acc{}
	total := acc{}
	for _, a := range audits.list {
		out.AuditsByStatus[a.Status.String()]++
		if a.Status == entity.StatusSubmitted {
			out.PendingReview++
		}
		if a.Score == nil {
			continue
		}
		total.sum = total.sum.Add(*a.Score)
		total.n++
		st := byStore[a.StoreID]
		if st == nil {
			st = &acc{}
			byStore[a.StoreID] = st
		}
		st.sum = st.sum.Add(*a.Score)
		st.n++
	}
	if total.n > 0 {
		avg := total.sum.Div(decimal.NewFromInt(int64(total.n))).Round(2)
		out.AverageScore = &avg
	}
	for id, st := range byStore {
		out.LowestStores = append(out.LowestStores, dto.StoreScoreDTO{
			StoreID:      id,
			Audits:       st.n,
			AverageScore: st.sum.Div(decimal.NewFromInt(int64(st.n))).Round(2),
		})
	}
	sort.Slice(out.LowestStores, func(i, j int) bool {
		a, b := out.LowestStores[i], out.LowestStores[j]
		if !a.AverageScore.Equal(b.AverageScore) {
			return a.AverageScore.LessThan(b.AverageScore)
		}
		return a.StoreID < b.StoreID
	})
	if len(out.LowestStores) > dashboardLowestStores {
		out.LowestStores = out.LowestStores[:dashboardLowestStores]
	}

	// ── Acciones ──────────────────────────────────────────────────────────────
	out.OpenActions = actions.list.Open
	for _, act := range actions.list.Items {
		if act.Overdue {
			out.OverdueActions++
		}
	}
	return out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
