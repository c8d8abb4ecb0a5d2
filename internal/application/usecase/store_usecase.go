package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
	"github.com/jhoicas/retail-audit-api/pkg/logger"
)

// StoreTxRunner ejecuta la reasignación de Aderente en una transacción.
type StoreTxRunner interface {
	RunStores(ctx context.Context, fn func(stores repository.StoreRepository) error) error
}

// StoreUseCase alta de tiendas y asignación de DOT / Aderente.
type StoreUseCase struct {
	stores repository.StoreRepository
	users  repository.UserRepository
	tx     StoreTxRunner
	log    *logger.Logger
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(stores repository.StoreRepository, users repository.UserRepository, tx StoreTxRunner, log *logger.Logger) *StoreUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StoreUseCase{stores: stores, users: users, tx: tx, log: log}
}

// Create da de alta una tienda. Devuelve ErrStoreCodeExists si el codehex ya existe.
func (uc *StoreUseCase) Create(ctx context.Context, s access.Session, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if !s.Can(access.ActionManageStores) {
		return nil, domain.ErrForbidden
	}
	code := strings.ToUpper(strings.TrimSpace(in.Codehex))
	if code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: codehex y name son requeridos", domain.ErrInvalidInput)
	}
	existing, err := uc.stores.GetByCodehex(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrStoreCodeExists
	}
	now := time.Now()
	st := &entity.Store{
		ID:        uuid.New().String(),
		Codehex:   code,
		Name:      strings.TrimSpace(in.Name),
		Brand:     in.Brand,
		City:      in.City,
		Size:      in.Size,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.stores.Create(ctx, st); err != nil {
		return nil, err
	}
	return toStoreResponse(st), nil
}

// GetByID obtiene una tienda.
func (uc *StoreUseCase) GetByID(ctx context.Context, id string) (*dto.StoreResponse, error) {
	st, err := uc.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrStoreNotFound
	}
	return toStoreResponse(st), nil
}

// List lista tiendas paginadas.
func (uc *StoreUseCase) List(ctx context.Context, req dto.PageRequest) (*dto.StoreListResponse, error) {
	req.DefaultPage()
	list, err := uc.stores.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.StoreListResponse{
		Items: make([]dto.StoreResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset},
	}
	for _, st := range list {
		out.Items = append(out.Items, *toStoreResponse(st))
	}
	return out, nil
}

// SetDOT asigna (o desasigna con nil) el DOT responsable. El usuario debe tener rol DOT.
func (uc *StoreUseCase) SetDOT(ctx context.Context, s access.Session, storeID string, in dto.AssignUserRequest) (*dto.StoreResponse, error) {
	if !s.Can(access.ActionManageStores) {
		return nil, domain.ErrForbidden
	}
	st, err := uc.loadStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if in.UserID != nil {
		if err := uc.requireRole(ctx, *in.UserID, entity.RoleDOT); err != nil {
			return nil, err
		}
	}
	if err := uc.stores.SetDOT(ctx, st.ID, in.UserID); err != nil {
		return nil, err
	}
	st.DotUserID = in.UserID
	uc.log.Info().Str("store_id", st.ID).Str("actor", s.UserID).Msg("DOT de tienda actualizado")
	return toStoreResponse(st), nil
}

// SetAderente vincula (o desvincula con nil) el Aderente de la tienda. El vínculo es 1:1:
// si el Aderente estaba en otra tienda, se desvincula de ella en la misma transacción.
func (uc *StoreUseCase) SetAderente(ctx context.Context, s access.Session, storeID string, in dto.AssignUserRequest) (*dto.StoreResponse, error) {
	if !s.Can(access.ActionManageStores) {
		return nil, domain.ErrForbidden
	}
	st, err := uc.loadStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if in.UserID != nil {
		if err := uc.requireRole(ctx, *in.UserID, entity.RoleAderente); err != nil {
			return nil, err
		}
	}
	err = uc.tx.RunStores(ctx, func(stores repository.StoreRepository) error {
		if in.UserID != nil {
			if err := stores.ClearAderente(ctx, *in.UserID); err != nil {
				return err
			}
		}
		return stores.SetAderente(ctx, st.ID, in.UserID)
	})
	if err != nil {
		return nil, err
	}
	st.AderenteID = in.UserID
	uc.log.Info().Str("store_id", st.ID).Str("actor", s.UserID).Msg("Aderente de tienda actualizado")
	return toStoreResponse(st), nil
}

// ListUserStores conjunto efectivo de tiendas de un usuario: las que tiene como DOT
// más la vinculada como Aderente. Solo el propio usuario o un supervisor.
func (uc *StoreUseCase) ListUserStores(ctx context.Context, s access.Session, userID string) ([]dto.StoreResponse, error) {
	if userID != s.UserID && !s.IsSupervisor() {
		return nil, domain.ErrForbidden
	}
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	out := []dto.StoreResponse{}
	seen := map[string]bool{}
	add := func(st *entity.Store) {
		if st != nil && !seen[st.ID] {
			seen[st.ID] = true
			out = append(out, *toStoreResponse(st))
		}
	}
	if u.HasRole(entity.RoleDOT) {
		list, err := uc.stores.ListByDOT(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		for _, st := range list {
			add(st)
		}
	}
	if u.HasRole(entity.RoleAderente) {
		st, err := uc.stores.GetByAderente(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		add(st)
	}
	return out, nil
}

func (uc *StoreUseCase) loadStore(ctx context.Context, id string) (*entity.Store, error) {
	st, err := uc.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrStoreNotFound
	}
	return st, nil
}

func (uc *StoreUseCase) requireRole(ctx context.Context, userID string, role entity.Role) error {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	if !u.HasRole(role) {
		return fmt.Errorf("%w: %s no tiene rol %s", domain.ErrRoleMismatch, userID, role)
	}
	return nil
}

func toStoreResponse(st *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:         st.ID,
		Codehex:    st.Codehex,
		Name:       st.Name,
		Brand:      st.Brand,
		City:       st.City,
		Size:       st.Size,
		DotUserID:  st.DotUserID,
		AderenteID: st.AderenteID,
		CreatedAt:  st.CreatedAt,
		UpdatedAt:  st.UpdatedAt,
	}
}
