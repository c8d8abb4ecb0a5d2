package usecase_test

import (
	"context"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

type fakeUsers struct{ m map[string]*entity.User }

func (r *fakeUsers) Create(_ context.Context, u *entity.User) error { r.m[u.ID] = u; return nil }
func (r *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.m[id], nil
}
func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.m {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUsers) Update(_ context.Context, u *entity.User) error { r.m[u.ID] = u; return nil }
func (r *fakeUsers) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.m {
		out = append(out, u)
	}
	return out, nil
}
func (r *fakeUsers) ListByAmont(_ context.Context, amontID string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.m {
		if u.AmontID != nil && *u.AmontID == amontID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeStores struct{ m map[string]*entity.Store }

func (r *fakeStores) Create(_ context.Context, s *entity.Store) error { r.m[s.ID] = s; return nil }
func (r *fakeStores) GetByID(_ context.Context, id string) (*entity.Store, error) {
	if s, ok := r.m[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}
func (r *fakeStores) GetByCodehex(_ context.Context, code string) (*entity.Store, error) {
	for _, s := range r.m {
		if s.Codehex == code {
			return s, nil
		}
	}
	return nil, nil
}
func (r *fakeStores) List(_ context.Context, _, _ int) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.m {
		out = append(out, s)
	}
	return out, nil
}
func (r *fakeStores) ListByDOT(_ context.Context, ids ...string) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.m {
		for _, id := range ids {
			if s.DotUserID != nil && *s.DotUserID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}
func (r *fakeStores) GetByAderente(_ context.Context, id string) (*entity.Store, error) {
	for _, s := range r.m {
		if s.AderenteID != nil && *s.AderenteID == id {
			return s, nil
		}
	}
	return nil, nil
}
func (r *fakeStores) SetDOT(_ context.Context, storeID string, dot *string) error {
	r.m[storeID].DotUserID = dot
	return nil
}
func (r *fakeStores) SetAderente(_ context.Context, storeID string, ad *string) error {
	r.m[storeID].AderenteID = ad
	return nil
}
func (r *fakeStores) ClearAderente(_ context.Context, id string) error {
	for _, s := range r.m {
		if s.AderenteID != nil && *s.AderenteID == id {
			s.AderenteID = nil
		}
	}
	return nil
}

// fakeTx ejecuta el callback sobre el mismo repositorio (sin rollback).
type fakeTx struct {
	stores *fakeStores
	calls  int
}

func (t *fakeTx) RunStores(_ context.Context, fn func(repository.StoreRepository) error) error {
	t.calls++
	return fn(t.stores)
}

func strPtr(s string) *string { return &s }
