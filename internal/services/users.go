package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"playpartner-backend-go/internal/models"
)

const userColumns = `id, email, password_hash, role, first_name, last_name, is_password_reset_required, last_login_at, created_at, updated_at`

type UserInput struct {
	Email     string  `json:"email" yaml:"email"`
	Role      string  `json:"role" yaml:"role"`
	FirstName *string `json:"firstName" yaml:"firstName"`
	LastName  *string `json:"lastName" yaml:"lastName"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.DB.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if isNoRows(err) {
		return models.User{}, ErrNotFound("User not found")
	}
	if err != nil {
		return models.User{}, WrapError(err, "get user")
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.DB.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, NormalizeEmail(email))
	if isNoRows(err) {
		return models.User{}, ErrNotFound("User not found")
	}
	if err != nil {
		return models.User{}, WrapError(err, "get user by email")
	}
	return user, nil
}

// UpsertUser creates the user or refreshes role and names of an existing
// one, matched by e-mail. The password hash is never touched here.
func (s *Store) UpsertUser(ctx context.Context, in UserInput) (models.User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return models.User{}, ErrBadRequest("Email is required")
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RoleViewer
	}
	if !models.IsRole(role) {
		return models.User{}, ErrBadRequest("Invalid role: " + in.Role)
	}
	var user models.User
	err := s.DB.GetContext(ctx, &user, `
INSERT INTO users (id, email, role, first_name, last_name, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$6)
ON CONFLICT (email) DO UPDATE SET
  role = EXCLUDED.role,
  first_name = COALESCE(EXCLUDED.first_name, users.first_name),
  last_name = COALESCE(EXCLUDED.last_name, users.last_name),
  updated_at = EXCLUDED.updated_at
RETURNING `+userColumns,
		uuid.NewString(), email, role, normalizeOptional(in.FirstName), normalizeOptional(in.LastName), s.now())
	if err != nil {
		return models.User{}, WrapError(err, "upsert user")
	}
	return user, nil
}

// SetPassword stores a new hash; resetRequired forces the user to pick a new
// password after the next login.
func (s *Store) SetPassword(ctx context.Context, userID, hash string, resetRequired bool) error {
	result, err := s.DB.ExecContext(ctx, `
UPDATE users SET password_hash = $1, is_password_reset_required = $2, updated_at = $3
WHERE id = $4
`, hash, resetRequired, s.now(), userID)
	if err != nil {
		return WrapError(err, "set password")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound("User not found")
	}
	return nil
}

func (s *Store) SetLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, s.now(), userID)
	return WrapError(err, "set last login")
}
