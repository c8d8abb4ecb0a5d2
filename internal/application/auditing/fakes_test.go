package auditing_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	stores   map[string]*entity.Store
	lists    map[string]*entity.Checklist
	audits   map[string]*entity.Audit
	visits   map[string]*entity.Visit
	scores   map[string]*entity.AuditScore // audit|criteria
	actions  map[string]*entity.ActionPlan
	comments []*entity.AuditComment
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*entity.User{},
		stores:  map[string]*entity.Store{},
		lists:   map[string]*entity.Checklist{},
		audits:  map[string]*entity.Audit{},
		visits:  map[string]*entity.Visit{},
		scores:  map[string]*entity.AuditScore{},
		actions: map[string]*entity.ActionPlan{},
	}
}

func (m *memStore) nextID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("id-%03d", m.seq)
}

type userRepo struct{ m *memStore }

var _ repository.UserRepository = userRepo{}

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	r.m.users[u.ID] = &cp
	return nil
}
func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}
func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
func (r userRepo) Update(_ context.Context, u *entity.User) error {
	cp := *u
	r.m.users[u.ID] = &cp
	return nil
}
func (r userRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}
func (r userRepo) ListByAmont(_ context.Context, amontID string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.m.users {
		if u.AmontID != nil && *u.AmontID == amontID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

type storeRepo struct{ m *memStore }

var _ repository.StoreRepository = storeRepo{}

func (r storeRepo) Create(_ context.Context, s *entity.Store) error {
	cp := *s
	r.m.stores[s.ID] = &cp
	return nil
}
func (r storeRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	if s, ok := r.m.stores[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}
func (r storeRepo) GetByCodehex(_ context.Context, code string) (*entity.Store, error) {
	for _, s := range r.m.stores {
		if s.Codehex == code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}
func (r storeRepo) List(_ context.Context, _, _ int) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.m.stores {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}
func (r storeRepo) ListByDOT(_ context.Context, dotIDs ...string) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.m.stores {
		for _, id := range dotIDs {
			if s.DotUserID != nil && *s.DotUserID == id {
				cp := *s
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}
func (r storeRepo) GetByAderente(_ context.Context, aderenteID string) (*entity.Store, error) {
	for _, s := range r.m.stores {
		if s.AderenteID != nil && *s.AderenteID == aderenteID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}
func (r storeRepo) SetDOT(_ context.Context, storeID string, dot *string) error {
	s, ok := r.m.stores[storeID]
	if !ok {
		return domain.ErrStoreNotFound
	}
	s.DotUserID = dot
	return nil
}
func (r storeRepo) SetAderente(_ context.Context, storeID string, ad *string) error {
	s, ok := r.m.stores[storeID]
	if !ok {
		return domain.ErrStoreNotFound
	}
	s.AderenteID = ad
	return nil
}
func (r storeRepo) ClearAderente(_ context.Context, aderenteID string) error {
	for _, s := range r.m.stores {
		if s.AderenteID != nil && *s.AderenteID == aderenteID {
			s.AderenteID = nil
		}
	}
	return nil
}

type checklistRepo struct{ m *memStore }

func (r checklistRepo) GetByID(_ context.Context, id string) (*entity.Checklist, error) {
	return r.m.lists[id], nil
}
func (r checklistRepo) List(_ context.Context) ([]*entity.Checklist, error) {
	var out []*entity.Checklist
	for _, c := range r.m.lists {
		out = append(out, c)
	}
	return out, nil
}

type auditRepo struct{ m *memStore }

var _ repository.AuditRepository = auditRepo{}

func (r auditRepo) Create(_ context.Context, a *entity.Audit) error {
	cp := *a
	r.m.audits[a.ID] = &cp
	return nil
}
func (r auditRepo) GetByID(_ context.Context, id string) (*entity.Audit, error) {
	if a, ok := r.m.audits[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}
func (r auditRepo) Update(_ context.Context, id string, upd entity.AuditUpdate) error {
	a, ok := r.m.audits[id]
	if !ok {
		return domain.ErrAuditNotFound
	}
	if upd.Status != nil {
		a.Status = *upd.Status
	}
	if upd.DtEnd != nil {
		a.DtEnd = upd.DtEnd
	}
	if upd.SubmittedAt != nil {
		a.SubmittedAt = upd.SubmittedAt
	}
	if upd.Score != nil {
		a.Score = upd.Score
	}
	if upd.ClearScore {
		a.Score = nil
	}
	if upd.AuditorComments != nil {
		a.AuditorComments = *upd.AuditorComments
	}
	return nil
}
func (r auditRepo) List(_ context.Context, f entity.AuditFilter) ([]*entity.Audit, error) {
	var out []*entity.Audit
	for _, a := range r.m.audits {
		if !matchScope(f, a.StoreID, a.UserID) {
			continue
		}
		if !matchStatus(f, a.Status) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (r auditRepo) Delete(_ context.Context, id string) error {
	delete(r.m.audits, id)
	return nil
}

func matchStatus(f entity.AuditFilter, st entity.AuditStatus) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if s == st {
			return true
		}
	}
	return false
}

func matchScope(f entity.AuditFilter, storeID, userID string) bool {
	if f.StoreID != "" && f.StoreID != storeID {
		return false
	}
	if len(f.StoreIDs) == 0 && f.UserID == "" {
		return true
	}
	if f.UserID != "" && f.UserID == userID {
		return true
	}
	for _, id := range f.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}

type visitRepo struct{ m *memStore }

func (r visitRepo) Create(_ context.Context, v *entity.Visit) error {
	cp := *v
	r.m.visits[v.ID] = &cp
	return nil
}
func (r visitRepo) GetByID(_ context.Context, id string) (*entity.Visit, error) {
	if v, ok := r.m.visits[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}
func (r visitRepo) Update(_ context.Context, v *entity.Visit) error {
	cp := *v
	r.m.visits[v.ID] = &cp
	return nil
}
func (r visitRepo) List(_ context.Context, f entity.AuditFilter) ([]*entity.Visit, error) {
	var out []*entity.Visit
	for _, v := range r.m.visits {
		if matchScope(f, v.StoreID, v.UserID) && matchStatus(f, v.Status) {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

type scoreRepo struct{ m *memStore }

func (r scoreRepo) ListByAudit(_ context.Context, auditID string) ([]*entity.AuditScore, error) {
	var out []*entity.AuditScore
	for _, s := range r.m.scores {
		if s.AuditID == auditID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CriteriaID < out[j].CriteriaID })
	return out, nil
}
func (r scoreRepo) Upsert(_ context.Context, s *entity.AuditScore) error {
	cp := *s
	r.m.scores[s.AuditID+"|"+s.CriteriaID] = &cp
	return nil
}

type actionRepo struct {
	m        *memStore
	failing  bool // Create falla (para verificar atomicidad)
	searches []entity.ActionFilter
}

func (r *actionRepo) List(_ context.Context, auditID string) ([]*entity.ActionPlan, error) {
	var out []*entity.ActionPlan
	for _, a := range r.m.actions {
		if auditID == "" || a.AuditID == auditID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (r *actionRepo) Search(_ context.Context, f entity.ActionFilter) ([]*entity.ActionPlan, error) {
	r.searches = append(r.searches, f)
	var out []*entity.ActionPlan
	for _, a := range r.m.actions {
		au, ok := r.m.audits[a.AuditID]
		if !ok || !matchScope(f.Audits, au.StoreID, au.UserID) || !matchStatus(f.Audits, au.Status) {
			continue
		}
		if f.OnlyOpen && !a.IsOpen() {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (r *actionRepo) GetByID(_ context.Context, id string) (*entity.ActionPlan, error) {
	if a, ok := r.m.actions[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}
func (r *actionRepo) Create(_ context.Context, a *entity.ActionPlan) error {
	if r.failing {
		return fmt.Errorf("insert action: fallo simulado")
	}
	cp := *a
	r.m.actions[a.ID] = &cp
	return nil
}
func (r *actionRepo) Update(_ context.Context, a *entity.ActionPlan) error {
	if _, ok := r.m.actions[a.ID]; !ok {
		return domain.ErrActionNotFound
	}
	cp := *a
	r.m.actions[a.ID] = &cp
	return nil
}
func (r *actionRepo) Delete(_ context.Context, id string) error {
	delete(r.m.actions, id)
	return nil
}

type commentRepo struct{ m *memStore }

func (r commentRepo) ListByAudit(_ context.Context, auditID string) ([]*entity.AuditComment, error) {
	var out []*entity.AuditComment
	for _, c := range r.m.comments {
		if c.AuditID == auditID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r commentRepo) Create(_ context.Context, c *entity.AuditComment) error {
	cp := *c
	r.m.comments = append(r.m.comments, &cp)
	return nil
}

// txRunner simula la transacción: ante error restaura auditorías y acciones.
type txRunner struct {
	m       *memStore
	actions *actionRepo
}

func (t txRunner) RunAudit(ctx context.Context, fn func(repository.AuditRepository, repository.ActionPlanRepository, repository.CommentRepository) error) error {
	auditsBak := map[string]entity.Audit{}
	for k, v := range t.m.audits {
		auditsBak[k] = *v
	}
	actionsBak := map[string]*entity.ActionPlan{}
	for k, v := range t.m.actions {
		actionsBak[k] = v
	}
	commentsBak := len(t.m.comments)
	if err := fn(auditRepo{t.m}, t.actions, commentRepo{t.m}); err != nil {
		for k, v := range auditsBak {
			cp := v
			t.m.audits[k] = &cp
		}
		t.m.actions = actionsBak
		t.m.comments = t.m.comments[:commentsBak]
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas de prueba
// ──────────────────────────────────────────────────────────────────────────────

type recordingMetrics struct {
	applied   []string
	rejected  []string
	generated int
	writes    int
}

func (r *recordingMetrics) TransitionApplied(kind, from, to string) {
	r.applied = append(r.applied, kind+":"+from+"->"+to)
}
func (r *recordingMetrics) TransitionRejected(kind, event string) {
	r.rejected = append(r.rejected, kind+":"+event)
}
func (r *recordingMetrics) ActionsGenerated(n int) { r.generated += n }
func (r *recordingMetrics) ScoreWritten()          { r.writes++ }

// ──────────────────────────────────────────────────────────────────────────────
// Escenario base
// ──────────────────────────────────────────────────────────────────────────────

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	m       *memStore
	actions *actionRepo
	metrics *recordingMetrics
	deps    auditing.Deps
	now     time.Time
}

// newFixture prepara: amont-1 supervisa a dot-1; dot-1 es DOT de la tienda st-1 cuyo
// Aderente es ad-1; dot-2 es DOT de st-2. Checklist cl-1 con criterios A, B (sección s1) y C (s2).
func newFixture() *fixture {
	m := newMemStore()
	amont := "amont-1"
	dot1, dot2, ad1 := "dot-1", "dot-2", "ad-1"
	m.users["admin-1"] = &entity.User{ID: "admin-1", Roles: []entity.Role{entity.RoleAdmin}, Status: "active"}
	m.users[amont] = &entity.User{ID: amont, Roles: []entity.Role{entity.RoleAmont}, Status: "active"}
	m.users[dot1] = &entity.User{ID: dot1, Roles: []entity.Role{entity.RoleDOT}, AmontID: &amont, Status: "active"}
	m.users[dot2] = &entity.User{ID: dot2, Roles: []entity.Role{entity.RoleDOT}, Status: "active"}
	m.users[ad1] = &entity.User{ID: ad1, Roles: []entity.Role{entity.RoleAderente}, Status: "active"}
	m.users["ad-2"] = &entity.User{ID: "ad-2", Roles: []entity.Role{entity.RoleAderente}, Status: "active"}
	m.stores["st-1"] = &entity.Store{ID: "st-1", Codehex: "0A1F", Name: "Centro", DotUserID: &dot1, AderenteID: &ad1}
	m.stores["st-2"] = &entity.Store{ID: "st-2", Codehex: "0B20", Name: "Norte", DotUserID: &dot2}
	m.lists["cl-1"] = &entity.Checklist{
		ID: "cl-1", Name: "Estándar",
		Sections: []entity.ChecklistSection{
			{ID: "s1", Name: "Exposición", Items: []entity.ChecklistItem{
				{ID: "i1", Name: "Lineal", Criteria: []entity.Criterion{{ID: "A", Name: "Precios"}, {ID: "B", Name: "Reposición"}}},
			}},
			{ID: "s2", Name: "Caja", Items: []entity.ChecklistItem{
				{ID: "i2", Name: "Cola", Criteria: []entity.Criterion{{ID: "C", Name: "Espera"}}},
			}},
		},
	}

	f := &fixture{m: m, actions: &actionRepo{m: m}, metrics: &recordingMetrics{}, now: baseTime}
	f.deps = auditing.Deps{
		Audits:     auditRepo{m},
		Scores:     scoreRepo{m},
		Actions:    f.actions,
		Comments:   commentRepo{m},
		Checklists: checklistRepo{m},
		Stores:     storeRepo{m},
		Users:      userRepo{m},
		Visits:     visitRepo{m},
		Tx:         txRunner{m: m, actions: f.actions},
		Metrics:    f.metrics,
		Policy:     auditing.Policy{AutoActions: true},
		Now:        func() time.Time { return f.now },
		NewID:      m.nextID,
	}
	return f
}

// seedAudit crea directamente una auditoría en el estado indicado.
func (f *fixture) seedAudit(id, storeID, performer string, st entity.AuditStatus) *entity.Audit {
	a := &entity.Audit{
		ID: id, StoreID: storeID, UserID: performer, ChecklistID: "cl-1",
		CreatedBy: performer, DtStart: baseTime, Status: st, CreatedAt: baseTime, UpdatedAt: baseTime,
	}
	f.m.audits[id] = a
	return a
}

func (f *fixture) seedScore(auditID, criteriaID string, v *int, comment string) {
	f.m.scores[auditID+"|"+criteriaID] = &entity.AuditScore{
		ID: auditID + criteriaID, AuditID: auditID, CriteriaID: criteriaID, Score: v, Comment: comment,
	}
}

func ptr(v int) *int { return &v }
