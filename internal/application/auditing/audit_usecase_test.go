package auditing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

var ctx = context.Background()

func sess(id string, roles ...entity.Role) access.Session {
	return access.Session{UserID: id, Roles: roles}
}

var (
	admin    = sess("admin-1", entity.RoleAdmin)
	amont    = sess("amont-1", entity.RoleAmont)
	dot1     = sess("dot-1", entity.RoleDOT)
	dot2     = sess("dot-2", entity.RoleDOT)
	aderente = sess("ad-1", entity.RoleAderente)
)

// ──────────────────────────────────────────────────────────────────────────────
// Programación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DOTProgramaParaSiMismo(t *testing.T) {
	f := newFixture()
	uc := auditing.NewAuditUseCase(f.deps)

	out, err := uc.Create(ctx, dot1, dto.CreateAuditRequest{StoreID: "st-1", ChecklistID: "cl-1"})
	require.NoError(t, err)
	assert.Equal(t, "NEW", out.Status)
	assert.Equal(t, "SCHEDULED", out.LegacyStatus)
	assert.Equal(t, "dot-1", out.UserID)
	assert.Equal(t, "dot-1", out.CreatedBy)
	assert.Equal(t, baseTime, out.DtStart)
}

func TestCreate_SoloSupervisorProgramaParaOtro(t *testing.T) {
	f := newFixture()
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.Create(ctx, dot2, dto.CreateAuditRequest{StoreID: "st-1", ChecklistID: "cl-1", UserID: "dot-1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Create(ctx, amont, dto.CreateAuditRequest{StoreID: "st-1", ChecklistID: "cl-1", UserID: "dot-1"})
	require.NoError(t, err)
	assert.Equal(t, "dot-1", out.UserID)
	assert.Equal(t, "amont-1", out.CreatedBy)

	_, err = uc.Create(ctx, amont, dto.CreateAuditRequest{StoreID: "st-1", ChecklistID: "cl-1"})
	assert.ErrorIs(t, err, domain.ErrRoleMismatch, "el ejecutor debe ser DOT o Aderente")
}

func TestCreate_TiendaOChecklistInexistente(t *testing.T) {
	f := newFixture()
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.Create(ctx, dot1, dto.CreateAuditRequest{StoreID: "nope", ChecklistID: "cl-1"})
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
	_, err = uc.Create(ctx, dot1, dto.CreateAuditRequest{StoreID: "st-1", ChecklistID: "nope"})
	assert.ErrorIs(t, err, domain.ErrChecklistNotFound)
	_, err = uc.Create(ctx, sess("x"), dto.CreateAuditRequest{StoreID: "st-1", ChecklistID: "cl-1"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "sin roles no se concede nada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Puntuación
// ──────────────────────────────────────────────────────────────────────────────

func TestUpsertScore_PrimeraPuntuacionIniciaLaAuditoria(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusNew)
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.UpsertScore(ctx, dot1, "a1", "A", dto.UpsertScoreRequest{Score: nil})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusNew, f.m.audits["a1"].Status, "una puntuación nula no inicia la auditoría")

	out, err := uc.UpsertScore(ctx, dot1, "a1", "A", dto.UpsertScoreRequest{Score: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, *out.Score)
	assert.Equal(t, entity.StatusInProgress, f.m.audits["a1"].Status)
	assert.Equal(t, []string{"audit:NEW->IN_PROGRESS"}, f.metrics.applied)
	assert.Equal(t, 2, f.metrics.writes)
}

func TestUpsertScore_UnaFilaPorCriterioGanaLaUltima(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusInProgress)
	uc := auditing.NewAuditUseCase(f.deps)

	comment := "Etiquetas caducadas"
	_, err := uc.UpsertScore(ctx, dot1, "a1", "A", dto.UpsertScoreRequest{Score: ptr(2), Comment: &comment, Photos: []string{"p1.jpg", "p2.jpg"}})
	require.NoError(t, err)
	_, err = uc.UpsertScore(ctx, dot1, "a1", "A", dto.UpsertScoreRequest{Score: ptr(3)})
	require.NoError(t, err)

	rows, _ := scoreRepo{f.m}.ListByAudit(ctx, "a1")
	require.Len(t, rows, 1)
	assert.Equal(t, 3, *rows[0].Score)
	assert.Equal(t, comment, rows[0].Comment, "comentario conservado si no se envía")
	assert.Equal(t, []string{"p1.jpg", "p2.jpg"}, rows[0].Photos)
}

func TestUpsertScore_Validaciones(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusInProgress)
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.UpsertScore(ctx, dot1, "a1", "A", dto.UpsertScoreRequest{Score: ptr(6)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpsertScore(ctx, dot1, "a1", "Z", dto.UpsertScoreRequest{Score: ptr(3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "criterio ajeno al checklist")
	_, err = uc.UpsertScore(ctx, dot2, "a1", "A", dto.UpsertScoreRequest{Score: ptr(3)})
	assert.ErrorIs(t, err, domain.ErrForbidden, "auditoría fuera del alcance")
}

func TestUpsertScore_BloqueadaDesdeSubmitted(t *testing.T) {
	for _, st := range []entity.AuditStatus{entity.StatusSubmitted, entity.StatusEnded, entity.StatusClosed, entity.StatusCancelled} {
		f := newFixture()
		f.seedAudit("a1", "st-1", "dot-1", st)
		uc := auditing.NewAuditUseCase(f.deps)

		for _, s := range []access.Session{dot1, amont, admin} {
			_, err := uc.UpsertScore(ctx, s, "a1", "A", dto.UpsertScoreRequest{Score: ptr(3)})
			assert.ErrorIs(t, err, domain.ErrAuditLocked, "estado %s, sesión %s", st, s.UserID)
		}
		_, err := uc.UpdateAuditorComments(ctx, admin, "a1", dto.UpdateAuditorCommentsRequest{AuditorComments: "x"})
		assert.ErrorIs(t, err, domain.ErrAuditLocked)
		assert.Empty(t, f.m.scores)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalización y generación de acciones
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: A=1, B=5, C=N/A → total 60%; una acción para A con vencimiento a 7 días.
func TestFinalize_CongelaPuntuacionYGeneraAcciones(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusInProgress)
	f.seedScore("a1", "A", ptr(1), "")
	f.seedScore("a1", "B", ptr(5), "")
	f.seedScore("a1", "C", ptr(0), "")
	uc := auditing.NewAuditUseCase(f.deps)

	out, err := uc.Finalize(ctx, dot1, "a1")
	require.NoError(t, err)
	assert.Equal(t, "SUBMITTED", out.Audit.Status)
	require.NotNil(t, out.Audit.Score)
	assert.True(t, decimal.NewFromInt(60).Equal(*out.Audit.Score), "obtenido %s", out.Audit.Score)

	stored := f.m.audits["a1"]
	assert.Equal(t, entity.StatusSubmitted, stored.Status)
	require.NotNil(t, stored.SubmittedAt)
	assert.Equal(t, baseTime, *stored.SubmittedAt)

	require.Len(t, out.GeneratedActions, 1)
	act := out.GeneratedActions[0]
	assert.Equal(t, "A", *act.CriteriaID)
	assert.Equal(t, "Lineal - Precios", act.Title)
	assert.Equal(t, entity.ResponsibleAderente, act.Responsible)
	assert.Equal(t, baseTime.AddDate(0, 0, 7), act.DueDate)
	assert.Equal(t, entity.ActionStatusPending, act.Status)
	assert.Len(t, f.m.actions, 1)
	assert.Equal(t, 1, f.metrics.generated)

	// la segunda invocación del generador no duplica
	actions := auditing.NewActionUseCase(f.deps)
	again, err := actions.AutoGenerate(ctx, dot1, "a1")
	require.NoError(t, err)
	assert.Empty(t, again.Items)
	assert.Len(t, f.m.actions, 1)
}

func TestFinalize_SoloElEjecutor(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusInProgress)
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.Finalize(ctx, amont, "a1")
	assert.ErrorIs(t, err, domain.ErrForbidden, "AMONT aprueba, no finaliza")
	assert.Equal(t, entity.StatusInProgress, f.m.audits["a1"].Status)
	assert.Equal(t, []string{"audit:submit"}, f.metrics.rejected)
}

func TestFinalize_PoliticaEstrictaExigeTodosLosCriterios(t *testing.T) {
	f := newFixture()
	f.deps.Policy.RequireAllScored = true
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusInProgress)
	f.seedScore("a1", "A", ptr(4), "")
	f.seedScore("a1", "B", ptr(0), "")
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.Finalize(ctx, dot1, "a1")
	assert.ErrorIs(t, err, domain.ErrIncompleteAudit)
	assert.Equal(t, entity.StatusInProgress, f.m.audits["a1"].Status)

	f.seedScore("a1", "C", ptr(0), "")
	_, err = uc.Finalize(ctx, dot1, "a1")
	assert.NoError(t, err, "N/A cuenta como visitado")
}

func TestFinalize_SinDatosNoCongelaCero(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusInProgress)
	f.seedScore("a1", "A", ptr(0), "")
	uc := auditing.NewAuditUseCase(f.deps)

	out, err := uc.Finalize(ctx, dot1, "a1")
	require.NoError(t, err)
	assert.Nil(t, out.Audit.Score, "0%% sin criterios puntuados no es el peor resultado")
}

func TestFinalize_AtomicoSiFallaLaGeneracion(t *testing.T) {
	f := newFixture()
	f.actions.failing = true
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusInProgress)
	f.seedScore("a1", "A", ptr(1), "")
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.Finalize(ctx, dot1, "a1")
	require.Error(t, err)
	assert.Equal(t, entity.StatusInProgress, f.m.audits["a1"].Status, "el cambio de estado se revierte")
	assert.Nil(t, f.m.audits["a1"].Score)
}

// ──────────────────────────────────────────────────────────────────────────────
// Revisión, cierre y cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_AmontDelEquipo(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusSubmitted)
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.Approve(ctx, dot1, "a1")
	assert.ErrorIs(t, err, domain.ErrForbidden, "el DOT no aprueba sus auditorías")

	out, err := uc.Approve(ctx, amont, "a1")
	require.NoError(t, err)
	assert.Equal(t, "ENDED", out.Audit.Status)
	assert.Equal(t, "COMPLETED", out.Audit.LegacyStatus)
}

func TestApprove_DOTApruebaVisitaDeAderenteEnSuTienda(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "ad-2", entity.StatusSubmitted)
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.Approve(ctx, dot2, "a1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Approve(ctx, dot1, "a1")
	require.NoError(t, err)
	assert.Equal(t, "ENDED", out.Audit.Status)
}

func TestReject_VuelveAEnCursoConComentario(t *testing.T) {
	f := newFixture()
	a := f.seedAudit("a1", "st-1", "dot-1", entity.StatusSubmitted)
	frozen := decimal.NewFromInt(80)
	a.Score = &frozen
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.Reject(ctx, amont, "a1", dto.RejectAuditRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.Reject(ctx, amont, "a1", dto.RejectAuditRequest{Reason: "Faltan fotos"})
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", out.Audit.Status)
	assert.Nil(t, f.m.audits["a1"].Score)
	require.Len(t, f.m.comments, 1)
	assert.Equal(t, auditing.RejectionPrefix+"Faltan fotos", f.m.comments[0].Body)
	assert.False(t, f.m.comments[0].IsInternal, "el ejecutor debe ver el motivo")

	_, err = uc.UpsertScore(ctx, dot1, "a1", "A", dto.UpsertScoreRequest{Score: ptr(5)})
	assert.NoError(t, err, "tras el rechazo el contenido vuelve a ser editable")
}

func TestClose_AvisaAccionesAbiertasYFijaDtEnd(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusEnded)
	crit := "A"
	f.m.actions["act-1"] = &entity.ActionPlan{ID: "act-1", AuditID: "a1", CriteriaID: &crit, Status: entity.ActionStatusPending}
	f.m.actions["act-2"] = &entity.ActionPlan{ID: "act-2", AuditID: "a1", Status: entity.ActionStatusCompleted}
	uc := auditing.NewAuditUseCase(f.deps)

	out, err := uc.Close(ctx, amont, "a1")
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", out.Audit.Status)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "1 planes de acción abiertos")
	require.NotNil(t, f.m.audits["a1"].DtEnd)
	assert.Equal(t, baseTime, *f.m.audits["a1"].DtEnd)
	assert.Len(t, f.m.actions, 2, "las acciones nunca se borran")
}

// Un DOT sin rol AMONT pide llevar su auditoría IN_PROGRESS a CLOSED: el error
// informa tanto de la transición inválida como del permiso denegado.
func TestClose_DOTDesdeEnCursoRechazadoPorAmbosMotivos(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusInProgress)
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.Close(ctx, dot1, "a1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, entity.StatusInProgress, f.m.audits["a1"].Status)
	assert.Nil(t, f.m.audits["a1"].DtEnd)
}

func TestCancel_SoloSupervisoresYAntesDeEnded(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusSubmitted)
	f.seedAudit("a2", "st-1", "dot-1", entity.StatusEnded)
	uc := auditing.NewAuditUseCase(f.deps)

	_, err := uc.Cancel(ctx, dot1, "a1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Cancel(ctx, admin, "a1")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Audit.Status)

	_, err = uc.Cancel(ctx, admin, "a2")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta, alcance y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestList_AlcancePorSesion(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusNew)
	f.seedAudit("a2", "st-2", "dot-2", entity.StatusNew)
	f.seedAudit("a3", "st-2", "ad-1", entity.StatusNew) // el Aderente visita otra tienda
	uc := auditing.NewAuditUseCase(f.deps)

	ids := func(s access.Session) []string {
		out, err := uc.List(ctx, s, dto.AuditListRequest{})
		require.NoError(t, err)
		var got []string
		for _, a := range out.Items {
			got = append(got, a.ID)
		}
		return got
	}
	assert.Equal(t, []string{"a1", "a2", "a3"}, ids(admin))
	assert.Equal(t, []string{"a1"}, ids(amont))
	assert.Equal(t, []string{"a1"}, ids(dot1))
	assert.Equal(t, []string{"a2", "a3"}, ids(dot2))
	assert.Equal(t, []string{"a1", "a3"}, ids(aderente))
	assert.Empty(t, ids(sess("guest-1", entity.Role("GUEST"))))
}

func TestList_FiltroDeEstado(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusNew)
	f.seedAudit("a2", "st-1", "dot-1", entity.StatusEnded)
	f.seedAudit("a3", "st-1", "dot-1", entity.StatusSubmitted)
	f.seedAudit("a4", "st-1", "dot-1", entity.StatusClosed)
	f.seedAudit("a5", "st-1", "dot-1", entity.StatusCancelled)
	f.seedAudit("a6", "st-1", "dot-1", entity.StatusInProgress)
	uc := auditing.NewAuditUseCase(f.deps)

	ids := func(status string) []string {
		out, err := uc.List(ctx, admin, dto.AuditListRequest{Status: status})
		require.NoError(t, err)
		var got []string
		for _, a := range out.Items {
			got = append(got, a.ID)
		}
		return got
	}
	// COMPLETED heredado abarca los tres estados posteriores al envío.
	assert.Equal(t, []string{"a2", "a3", "a4"}, ids("completed"))
	assert.Equal(t, []string{"a2"}, ids("ended"))
	assert.Equal(t, []string{"a1"}, ids("scheduled"))
	assert.Equal(t, []string{"a1"}, ids("NEW"))
	assert.Equal(t, []string{"a6"}, ids("in_progress"))

	_, err := uc.List(ctx, admin, dto.AuditListRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.List(ctx, admin, dto.AuditListRequest{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVisible_RecorreTodoElAlcanceSinPaginar(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusEnded)
	f.seedAudit("a2", "st-2", "dot-2", entity.StatusNew)
	f.seedAudit("a3", "st-2", "ad-1", entity.StatusSubmitted)
	uc := auditing.NewAuditUseCase(f.deps)
	from, to := baseTime.AddDate(0, 0, -1), baseTime.AddDate(0, 0, 1)

	list, err := uc.Visible(ctx, dot2, from, to)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a2", list[0].ID)
	assert.Equal(t, "a3", list[1].ID)

	list, err = uc.Visible(ctx, sess("guest-1", entity.Role("GUEST")), from, to)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGet_DesgloseYPermisos(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusInProgress)
	f.seedScore("a1", "A", ptr(1), "")
	f.seedScore("a1", "B", ptr(5), "")
	uc := auditing.NewAuditUseCase(f.deps)

	out, err := uc.Get(ctx, dot1, "a1")
	require.NoError(t, err)
	require.Len(t, out.Sections, 2)
	assert.True(t, decimal.NewFromInt(60).Equal(out.Sections[0].Summary.Percentage))
	assert.Equal(t, 0, out.Sections[1].Summary.ScoredCount)
	assert.Equal(t, 1, out.Total.UnscoredCount)
	assert.True(t, out.Permissions.CanEdit)
	assert.True(t, out.Permissions.CanSubmit)
	assert.False(t, out.Permissions.CanClose)
	assert.False(t, out.Permissions.CanDelete)

	_, err = uc.Get(ctx, dot2, "a1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Get(ctx, admin, "zzz")
	assert.ErrorIs(t, err, domain.ErrAuditNotFound)
}

func TestDelete_NoBorraAuditoriasConAcciones(t *testing.T) {
	f := newFixture()
	f.seedAudit("a1", "st-1", "dot-1", entity.StatusEnded)
	f.seedAudit("a2", "st-1", "dot-1", entity.StatusNew)
	f.m.actions["act-1"] = &entity.ActionPlan{ID: "act-1", AuditID: "a1", Status: entity.ActionStatusPending}
	uc := auditing.NewAuditUseCase(f.deps)

	assert.ErrorIs(t, uc.Delete(ctx, dot1, "a2"), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, admin, "a1"), domain.ErrConflict)
	require.NoError(t, uc.Delete(ctx, admin, "a2"))
	assert.NotContains(t, f.m.audits, "a2")
}
