package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-audit-api/internal/application/auth"
	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/access"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

// UserUseCase alta y consulta de usuarios.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create da de alta un usuario con su conjunto de roles (solo ADMIN).
// AmontID solo aplica a usuarios DOT y debe apuntar a un usuario AMONT.
func (uc *UserUseCase) Create(ctx context.Context, s access.Session, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !s.Can(access.ActionManageUsers) {
		return nil, domain.ErrForbidden
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email y password (mín. 8) son requeridos", domain.ErrInvalidInput)
	}
	roles := entity.ParseRoles(in.Roles)
	if len(roles) == 0 {
		return nil, fmt.Errorf("%w: al menos un rol", domain.ErrInvalidInput)
	}
	for _, r := range roles {
		if !r.IsKnown() {
			return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, r)
		}
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	u := &entity.User{Roles: roles}
	if in.AmontID != nil {
		if !u.HasRole(entity.RoleDOT) {
			return nil, fmt.Errorf("%w: amont_id solo aplica a usuarios DOT", domain.ErrInvalidInput)
		}
		amont, err := uc.repo.GetByID(ctx, *in.AmontID)
		if err != nil {
			return nil, err
		}
		if amont == nil {
			return nil, domain.ErrUserNotFound
		}
		if !amont.HasRole(entity.RoleAmont) {
			return nil, fmt.Errorf("%w: el supervisor debe ser AMONT", domain.ErrRoleMismatch)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	u.ID = uuid.New().String()
	u.Email = email
	u.PasswordHash = string(hash)
	u.Name = name
	u.AmontID = in.AmontID
	u.Status = entity.UserStatusActive
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(u), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToUserResponse(u), nil
}

// List lista usuarios (supervisores).
func (uc *UserUseCase) List(ctx context.Context, s access.Session, req dto.PageRequest) (*dto.UserListResponse, error) {
	if !s.IsSupervisor() {
		return nil, domain.ErrForbidden
	}
	req.DefaultPage()
	list, err := uc.repo.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items: make([]dto.UserResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset},
	}
	for _, u := range list {
		out.Items = append(out.Items, *auth.ToUserResponse(u))
	}
	return out, nil
}

// Team DOTs supervisados por un AMONT.
func (uc *UserUseCase) Team(ctx context.Context, s access.Session, amontID string) ([]dto.UserResponse, error) {
	if amontID != s.UserID && !s.Has(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.ListByAmont(ctx, amontID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}
