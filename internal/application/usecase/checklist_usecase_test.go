package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-audit-api/internal/application/usecase"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
)

type fakeChecklists map[string]*entity.Checklist

func (f fakeChecklists) GetByID(_ context.Context, id string) (*entity.Checklist, error) {
	return f[id], nil
}
func (f fakeChecklists) List(_ context.Context) ([]*entity.Checklist, error) {
	var out []*entity.Checklist
	for _, c := range f {
		out = append(out, c)
	}
	return out, nil
}

func TestChecklist_ArbolYConteo(t *testing.T) {
	repo := fakeChecklists{"cl-1": {
		ID: "cl-1", Name: "Estándar",
		Sections: []entity.ChecklistSection{{ID: "s1", Name: "Exposición", Items: []entity.ChecklistItem{
			{ID: "i1", Name: "Lineal", Criteria: []entity.Criterion{{ID: "A", Weight: decimal.NewFromInt(2)}, {ID: "B"}}},
		}}},
	}}
	uc := usecase.NewChecklistUseCase(repo)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].CriteriaCount)
	assert.Nil(t, list[0].Sections)

	cl, err := uc.GetByID(ctx, "cl-1")
	require.NoError(t, err)
	require.Len(t, cl.Sections, 1)
	assert.Len(t, cl.Sections[0].Items[0].Criteria, 2)

	_, err = uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrChecklistNotFound)
}

type cachedChecklists struct {
	fakeChecklists
	invalidated []string
	err         error
}

func (c *cachedChecklists) Invalidate(_ context.Context, id string) error {
	c.invalidated = append(c.invalidated, id)
	return c.err
}

func TestChecklist_RefreshInvalidaLaCache(t *testing.T) {
	repo := &cachedChecklists{fakeChecklists: fakeChecklists{"cl-1": {ID: "cl-1", Name: "Estándar"}}}
	uc := usecase.NewChecklistUseCase(repo)

	cl, err := uc.Refresh(ctx, "cl-1")
	require.NoError(t, err)
	assert.Equal(t, "cl-1", cl.ID)
	assert.Equal(t, []string{"cl-1"}, repo.invalidated)

	_, err = uc.Refresh(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrChecklistNotFound)

	repo.err = errors.New("redis caído")
	_, err = uc.Refresh(ctx, "cl-1")
	assert.Error(t, err)
}

func TestChecklist_RefreshSinCacheSoloRelee(t *testing.T) {
	uc := usecase.NewChecklistUseCase(fakeChecklists{"cl-1": {ID: "cl-1"}})
	cl, err := uc.Refresh(ctx, "cl-1")
	require.NoError(t, err)
	assert.Equal(t, "cl-1", cl.ID)
}
