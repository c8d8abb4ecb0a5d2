package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/retail-audit-api/internal/application/auth"
	"github.com/jhoicas/retail-audit-api/internal/application/dto"
	"github.com/jhoicas/retail-audit-api/internal/domain"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/pkg/jwt"
)

type userRepo struct {
	entity.User
}

func (r *userRepo) Create(context.Context, *entity.User) error { return nil }
func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if id == r.ID {
		return &r.User, nil
	}
	return nil, nil
}
func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if email == r.Email {
		return &r.User, nil
	}
	return nil, nil
}
func (r *userRepo) Update(context.Context, *entity.User) error                 { return nil }
func (r *userRepo) List(context.Context, int, int) ([]*entity.User, error)      { return nil, nil }
func (r *userRepo) ListByAmont(context.Context, string) ([]*entity.User, error) { return nil, nil }

const secret = "test-secret"

func newRepo(t *testing.T, status string, roles ...entity.Role) *userRepo {
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	return &userRepo{entity.User{ID: "u1", Email: "dot@retail.test", PasswordHash: string(hash), Roles: roles, Status: status}}
}

func TestLogin_TokenConRolesYPanel(t *testing.T) {
	uc := auth.NewAuthUseCase(newRepo(t, entity.UserStatusActive, entity.RoleDOT, entity.RoleAderente), auth.JWTConfig{Secret: secret, ExpMinutes: 5})

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "dot@retail.test", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, "aderente", out.DefaultDashboard, "ADERENTE precede a DOT")

	userID, roles, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, []string{"DOT", "ADERENTE"}, roles)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := auth.NewAuthUseCase(newRepo(t, entity.UserStatusActive, entity.RoleDOT), auth.JWTConfig{Secret: secret, ExpMinutes: 5})

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "dot@retail.test", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@retail.test", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "no se revela si el email existe")
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc := auth.NewAuthUseCase(newRepo(t, entity.UserStatusInactive, entity.RoleDOT), auth.JWTConfig{Secret: secret, ExpMinutes: 5})
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "dot@retail.test", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
