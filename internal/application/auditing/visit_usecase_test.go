package auditing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

func TestVisit_CicloSinSubmitted(t *testing.T) {
	f := newFixture()
	uc := auditing.NewVisitUseCase(f.deps)

	v, err := uc.Create(ctx, dot1, dto.CreateVisitRequest{StoreID: "st-1", Type: entity.VisitTypeTraining, Notes: "Formación de caja"})
	require.NoError(t, err)
	assert.Equal(t, "NEW", v.Status)

	v, err = uc.Start(ctx, dot1, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", v.Status)

	f.now = baseTime.Add(90 * time.Minute)
	v, err = uc.End(ctx, dot1, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "ENDED", v.Status)
	require.NotNil(t, v.DtEnd)
	assert.Equal(t, f.now, *v.DtEnd)

	_, err = uc.Close(ctx, dot1, v.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	v, err = uc.Close(ctx, amont, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", v.Status)
	assert.Equal(t, []string{"visit:NEW->IN_PROGRESS", "visit:IN_PROGRESS->ENDED", "visit:ENDED->CLOSED"}, f.metrics.applied)
}

func TestVisit_Validaciones(t *testing.T) {
	f := newFixture()
	uc := auditing.NewVisitUseCase(f.deps)

	_, err := uc.Create(ctx, dot1, dto.CreateVisitRequest{StoreID: "st-1", Type: "audit"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dot1, dto.CreateVisitRequest{StoreID: "nope", Type: entity.VisitTypeOther})
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
	_, err = uc.Start(ctx, dot1, "nope")
	assert.ErrorIs(t, err, domain.ErrVisitNotFound)
}

func TestVisit_CancelarSoloSupervisoresYAlcance(t *testing.T) {
	f := newFixture()
	uc := auditing.NewVisitUseCase(f.deps)
	v, err := uc.Create(ctx, amont, dto.CreateVisitRequest{StoreID: "st-2", UserID: "dot-2", Type: entity.VisitTypeFollowUp})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, dot2, v.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Start(ctx, dot1, v.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "tienda de otro DOT")

	out, err := uc.Cancel(ctx, admin, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Status)
	assert.Equal(t, "CANCELLED", out.LegacyStatus)

	list, err := uc.List(ctx, dot1, dto.AuditListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestVisit_ListaFiltraPorEstadoHeredado(t *testing.T) {
	f := newFixture()
	uc := auditing.NewVisitUseCase(f.deps)
	abierta, err := uc.Create(ctx, dot1, dto.CreateVisitRequest{StoreID: "st-1", Type: entity.VisitTypeTraining})
	require.NoError(t, err)
	terminada, err := uc.Create(ctx, dot1, dto.CreateVisitRequest{StoreID: "st-1", Type: entity.VisitTypeOther})
	require.NoError(t, err)
	_, err = uc.Start(ctx, dot1, terminada.ID)
	require.NoError(t, err)
	_, err = uc.End(ctx, dot1, terminada.ID)
	require.NoError(t, err)

	out, err := uc.List(ctx, dot1, dto.AuditListRequest{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, terminada.ID, out.Items[0].ID)
	assert.Equal(t, "COMPLETED", out.Items[0].LegacyStatus)

	out, err = uc.List(ctx, dot1, dto.AuditListRequest{Status: "scheduled"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, abierta.ID, out.Items[0].ID)
}
