package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// Los roles viven en user_roles; se leen agregados en un array.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Acepta pool o tx.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id, u.email, u.password_hash, u.name, u.amont_id, u.status, u.created_at, u.updated_at,
	       COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles r ON r.user_id = u.id`

// Create persiste el usuario y sus roles en una transacción.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, amont_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.AmontID, user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert user", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) SELECT $1, unnest($2::text[])`,
		user.ID, user.RoleStrings(),
	); err != nil {
		return mapWriteError("insert user roles", err)
	}
	return tx.Commit(ctx)
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, userSelect+` WHERE u.id = $1 GROUP BY u.id`, id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, userSelect+` WHERE u.email = $1 GROUP BY u.id`, email)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update actualiza datos y roles del usuario. Los roles que ya no figuran se eliminan.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE users SET email = $2, password_hash = $3, name = $4, amont_id = $5, status = $6, updated_at = $7
		WHERE id = $1`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.AmontID, user.Status, user.UpdatedAt,
	); err != nil {
		return mapWriteError("update user", err)
	}
	roles := user.RoleStrings()
	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role <> ALL($2::text[])`, user.ID, roles); err != nil {
		return fmt.Errorf("delete user roles: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING`, user.ID, roles); err != nil {
		return fmt.Errorf("insert user roles: %w", err)
	}
	return tx.Commit(ctx)
}

// List lista usuarios con paginación.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	w := &whereBuilder{}
	query := userSelect + ` GROUP BY u.id ORDER BY u.created_at DESC` + pageSQL(w, limit, offset)
	return r.list(ctx, query, w.args...)
}

// ListByAmont lista los usuarios cuyo supervisor es amontID.
func (r *UserRepo) ListByAmont(ctx context.Context, amontID string) ([]*entity.User, error) {
	return r.list(ctx, userSelect+` WHERE u.amont_id = $1 GROUP BY u.id ORDER BY u.name`, amontID)
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var roles []string
	if err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.AmontID, &u.Status, &u.CreatedAt, &u.UpdatedAt, &roles,
	); err != nil {
		return nil, err
	}
	u.Roles = entity.ParseRoles(roles)
	return &u, nil
}
