//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
	"github.com/jhoicas/retail-audit-api/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-audit-api/pkg/config"
)

// newPool arranca PostgreSQL (o usa DATABASE_URL si está definido) y aplica las migraciones.
func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("audit_test"),
			tcpostgres.WithUsername("audit"),
			tcpostgres.WithPassword("audit_test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })
		dsn, err = ctr.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn}, "retail-audit-test")
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

type fixture struct {
	dot, aderente, amont *entity.User
	store                *entity.Store
	checklist            *entity.Checklist
	criteria             []string
}

func seed(t *testing.T, pool *pgxpool.Pool) fixture {
	t.Helper()
	ctx := context.Background()
	users := postgres.NewUserRepository(pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mk := func(name string, roles ...entity.Role) *entity.User {
		u := &entity.User{
			ID: uuid.NewString(), Email: name + "-" + uuid.NewString()[:8] + "@test.local",
			PasswordHash: "x", Name: name, Roles: roles, Status: entity.UserStatusActive,
			CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, users.Create(ctx, u))
		return u
	}
	f := fixture{
		amont:    mk("amont", entity.RoleAmont),
		dot:      mk("dot", entity.RoleDOT),
		aderente: mk("aderente", entity.RoleAderente),
	}

	f.store = &entity.Store{ID: uuid.NewString(), Codehex: "T" + uuid.NewString()[:6], Name: "Tienda", CreatedAt: now, UpdatedAt: now}
	stores := postgres.NewStoreRepository(pool)
	require.NoError(t, stores.Create(ctx, f.store))
	require.NoError(t, stores.SetDOT(ctx, f.store.ID, &f.dot.ID))

	clID, secID, itemID := uuid.NewString(), uuid.NewString(), uuid.NewString()
	f.criteria = []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	_, err := pool.Exec(ctx, `INSERT INTO checklists (id, name) VALUES ($1, 'Estándar')`, clID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO checklist_sections (id, checklist_id, name, position) VALUES ($1, $2, 'Exposición', 1)`, secID, clID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO checklist_items (id, section_id, name, position) VALUES ($1, $2, 'Lineal', 1)`, itemID, secID)
	require.NoError(t, err)
	for i, id := range f.criteria {
		_, err = pool.Exec(ctx, `INSERT INTO checklist_criteria (id, item_id, name, position) VALUES ($1, $2, $3, $4)`,
			id, itemID, []string{"Precios", "Reposición", "Limpieza"}[i], i+1)
		require.NoError(t, err)
	}
	f.checklist, err = postgres.NewChecklistRepository(pool).GetByID(ctx, clID)
	require.NoError(t, err)
	return f
}

func TestRepositories_FlujoCompleto(t *testing.T) {
	pool := newPool(t)
	f := seed(t, pool)
	ctx := context.Background()

	t.Run("checklist se arma como árbol", func(t *testing.T) {
		require.NotNil(t, f.checklist)
		require.Len(t, f.checklist.Sections, 1)
		require.Len(t, f.checklist.Sections[0].Items, 1)
		crit := f.checklist.Sections[0].Items[0].Criteria
		require.Len(t, crit, 3)
		assert.Equal(t, "Precios", crit[0].Name)
		assert.True(t, decimal.NewFromInt(1).Equal(crit[0].Weight))
	})

	t.Run("usuarios con roles y email único", func(t *testing.T) {
		users := postgres.NewUserRepository(pool)
		got, err := users.GetByEmail(ctx, f.dot.Email)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []entity.Role{entity.RoleDOT}, got.Roles)

		dup := *f.dot
		dup.ID = uuid.NewString()
		assert.ErrorIs(t, users.Create(ctx, &dup), domain.ErrEmailAlreadyExists)

		missing, err := users.GetByID(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("aderente vinculado a una sola tienda", func(t *testing.T) {
		stores := postgres.NewStoreRepository(pool)
		require.NoError(t, stores.SetAderente(ctx, f.store.ID, &f.aderente.ID))
		got, err := stores.GetByAderente(ctx, f.aderente.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, f.store.ID, got.ID)

		other := &entity.Store{ID: uuid.NewString(), Codehex: "O" + uuid.NewString()[:6], Name: "Otra"}
		require.NoError(t, stores.Create(ctx, other))
		assert.ErrorIs(t, stores.SetAderente(ctx, other.ID, &f.aderente.ID), domain.ErrDuplicate)

		byDOT, err := stores.ListByDOT(ctx, f.dot.ID)
		require.NoError(t, err)
		require.Len(t, byDOT, 1)
	})

	now := time.Now().UTC().Truncate(time.Microsecond)
	a := &entity.Audit{
		ID: uuid.NewString(), StoreID: f.store.ID, UserID: f.dot.ID, ChecklistID: f.checklist.ID,
		CreatedBy: f.dot.ID, DtStart: now, Status: entity.StatusNew, CreatedAt: now, UpdatedAt: now,
	}
	audits := postgres.NewAuditRepository(pool)
	require.NoError(t, audits.Create(ctx, a))

	t.Run("upsert de puntuación conserva id y reemplaza fotos", func(t *testing.T) {
		scores := postgres.NewScoreRepository(pool)
		v := 2
		s := &entity.AuditScore{
			ID: uuid.NewString(), AuditID: a.ID, CriteriaID: f.criteria[0], Score: &v,
			Photos: []string{"p1.jpg", "p2.jpg"}, UpdatedBy: f.dot.ID, UpdatedAt: now,
		}
		require.NoError(t, scores.Upsert(ctx, s))
		firstID := s.ID

		v2 := 0
		again := &entity.AuditScore{
			ID: uuid.NewString(), AuditID: a.ID, CriteriaID: f.criteria[0], Score: &v2, Comment: "N/A",
			Photos: []string{"p3.jpg"}, UpdatedBy: f.dot.ID, UpdatedAt: now.Add(time.Minute),
		}
		require.NoError(t, scores.Upsert(ctx, again))
		assert.Equal(t, firstID, again.ID)

		list, err := scores.ListByAudit(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].Score)
		assert.Equal(t, 0, *list[0].Score)
		assert.Equal(t, []string{"p3.jpg"}, list[0].Photos)
		assert.Equal(t, "N/A", list[0].Comment)
	})

	t.Run("actualización parcial y filtro por estado", func(t *testing.T) {
		st := entity.StatusSubmitted
		score := decimal.RequireFromString("66.67")
		require.NoError(t, audits.Update(ctx, a.ID, entity.AuditUpdate{Status: &st, SubmittedAt: &now, Score: &score}))

		got, err := audits.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusSubmitted, got.Status)
		require.NotNil(t, got.Score)
		assert.True(t, score.Equal(*got.Score))

		require.NoError(t, audits.Update(ctx, a.ID, entity.AuditUpdate{ClearScore: true}))
		got, err = audits.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Score)

		list, err := audits.List(ctx, entity.AuditFilter{StoreIDs: []string{f.store.ID}, Statuses: []entity.AuditStatus{st}})
		require.NoError(t, err)
		require.Len(t, list, 1)

		assert.ErrorIs(t, audits.Update(ctx, uuid.NewString(), entity.AuditUpdate{Status: &st}), domain.ErrAuditNotFound)
	})

	t.Run("filas heredadas se leen con el mapeo", func(t *testing.T) {
		_, err := pool.Exec(ctx, `UPDATE audits SET status = 'COMPLETED' WHERE id = $1`, a.ID)
		require.NoError(t, err)
		got, err := audits.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusEnded, got.Status)

		for _, statuses := range [][]entity.AuditStatus{
			{entity.StatusEnded},
			{entity.StatusSubmitted, entity.StatusEnded, entity.StatusClosed},
		} {
			list, err := audits.List(ctx, entity.AuditFilter{StoreIDs: []string{f.store.ID}, Statuses: statuses})
			require.NoError(t, err)
			require.Len(t, list, 1, "%v", statuses)
			assert.Equal(t, a.ID, list[0].ID)
		}
		list, err := audits.List(ctx, entity.AuditFilter{StoreIDs: []string{f.store.ID}, Statuses: []entity.AuditStatus{entity.StatusSubmitted}})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("transacción revierte acciones y comentario", func(t *testing.T) {
		runner := postgres.NewTxRunner(pool)
		err := runner.RunAudit(ctx, func(_ repository.AuditRepository, actions repository.ActionPlanRepository, comments repository.CommentRepository) error {
			require.NoError(t, actions.Create(ctx, &entity.ActionPlan{
				ID: uuid.NewString(), AuditID: a.ID, Title: "Revertida", Responsible: entity.ResponsibleDOT,
				DueDate: now, Status: entity.ActionStatusPending, CreatedBy: f.dot.ID, CreatedAt: now, UpdatedAt: now,
			}))
			require.NoError(t, comments.Create(ctx, &entity.AuditComment{
				ID: uuid.NewString(), AuditID: a.ID, UserID: f.dot.ID, Body: "x", CreatedAt: now,
			}))
			return domain.ErrConflict
		})
		assert.ErrorIs(t, err, domain.ErrConflict)

		acts, err := postgres.NewActionPlanRepository(pool).List(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, acts)
		cmts, err := postgres.NewCommentRepository(pool).ListByAudit(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, cmts)
	})

	t.Run("acciones impiden borrar la auditoría", func(t *testing.T) {
		actions := postgres.NewActionPlanRepository(pool)
		crit := f.criteria[0]
		act := &entity.ActionPlan{
			ID: uuid.NewString(), AuditID: a.ID, CriteriaID: &crit, Title: "Lineal - Precios",
			Responsible: entity.ResponsibleAderente, DueDate: now.AddDate(0, 0, 7),
			Status: entity.ActionStatusPending, CreatedBy: f.dot.ID, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, actions.Create(ctx, act))

		act.Progress = 40
		act.Status = entity.ActionStatusInProgress
		require.NoError(t, actions.Update(ctx, act))
		got, err := actions.GetByID(ctx, act.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, got.Progress)
		require.NotNil(t, got.CriteriaID)

		scoped, err := actions.Search(ctx, entity.ActionFilter{Audits: entity.AuditFilter{StoreIDs: []string{f.store.ID}}, OnlyOpen: true})
		require.NoError(t, err)
		require.Len(t, scoped, 1)
		assert.Equal(t, act.ID, scoped[0].ID)
		other, err := actions.Search(ctx, entity.ActionFilter{Audits: entity.AuditFilter{StoreIDs: []string{uuid.NewString()}}})
		require.NoError(t, err)
		assert.Empty(t, other)

		assert.Error(t, audits.Delete(ctx, a.ID))
		require.NoError(t, actions.Delete(ctx, act.ID))
		require.NoError(t, audits.Delete(ctx, a.ID))
		gone, err := audits.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})

	t.Run("visitas", func(t *testing.T) {
		visits := postgres.NewVisitRepository(pool)
		v := &entity.Visit{
			ID: uuid.NewString(), StoreID: f.store.ID, UserID: f.dot.ID, CreatedBy: f.amont.ID,
			Type: entity.VisitTypeTraining, DtStart: now, Status: entity.StatusNew, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, visits.Create(ctx, v))
		v.Status = entity.StatusEnded
		v.DtEnd = &now
		v.Notes = "formación de caja"
		require.NoError(t, visits.Update(ctx, v))

		list, err := visits.List(ctx, entity.AuditFilter{UserID: f.dot.ID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, entity.StatusEnded, list[0].Status)
		assert.Equal(t, "formación de caja", list[0].Notes)

		_, err = pool.Exec(ctx, `UPDATE visits SET status = 'COMPLETED' WHERE id = $1`, v.ID)
		require.NoError(t, err)
		list, err = visits.List(ctx, entity.AuditFilter{UserID: f.dot.ID, Statuses: []entity.AuditStatus{entity.StatusEnded}})
		require.NoError(t, err)
		require.Len(t, list, 1, "las filas COMPLETED entran en el filtro de ENDED")
	})
}
