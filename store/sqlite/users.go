package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"musix/models"
	"musix/store"
)

const userQuery = `
	SELECT u.id, u.name, u.email, u.password, r.name, u.created_at
	FROM t_users u
	JOIN t_roles r ON u.role_id = r.id
`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	return u, err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if !models.ValidRole(u.Role) {
		return models.User{}, store.ErrInvalidRole
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO t_users (id, name, email, password, role_id, created_at)
		VALUES (?, ?, ?, ?, (SELECT id FROM t_roles WHERE name = ?), ?)`,
		u.ID, u.Name, u.Email, u.Password, u.Role, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, store.ErrConflict
		}
		return models.User{}, errors.Wrap(err, "insert user")
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, userQuery+`WHERE u.id = ?`, id))
	if err != nil {
		return models.User{}, errors.WithStack(notFound(err))
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, userQuery+`WHERE u.email = ?`, email))
	if err != nil {
		return models.User{}, errors.WithStack(notFound(err))
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, userQuery+`ORDER BY u.created_at, u.email`)
	if err != nil {
		return nil, errors.Wrap(err, "query users")
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		users = append(users, u)
	}
	return users, errors.Wrap(rows.Err(), "iterate users")
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM t_users WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	return rowsAffected(res)
}

func (s *Store) SetUserRole(ctx context.Context, id uuid.UUID, role string) error {
	if !models.ValidRole(role) {
		return store.ErrInvalidRole
	}
	res, err := s.db.ExecContext(ctx, `UPDATE t_users SET role_id = (SELECT id FROM t_roles WHERE name = ?) WHERE id = ?`, role, id)
	if err != nil {
		return errors.Wrap(err, "update role")
	}
	return rowsAffected(res)
}

func (s *Store) UserRole(ctx context.Context, id uuid.UUID) (string, error) {
	var role string
	err := s.db.QueryRowContext(ctx, `
		SELECT r.name
		FROM t_users u
		JOIN t_roles r ON u.role_id = r.id
		WHERE u.id = ?`, id).Scan(&role)
	if err != nil {
		return "", errors.WithStack(notFound(err))
	}
	return role, nil
}
