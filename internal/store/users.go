package store

import (
	"context"
	"time"

	"pharmasync/m/domain"
)

const userColumns = `id, username, email, password, role, created_at`

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.q.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}

// CreateUser inserts u and returns its id. It returns ErrDuplicate when the
// username or email is already taken.
func (s *Store) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	id, err := s.insert(ctx, `INSERT INTO users (username, email, password, role, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		u.Username, u.Email, u.Password, u.Role, u.CreatedAt)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	return id, err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := s.get(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return u, err
}

func (s *Store) UserByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := s.get(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return u, err
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := s.q.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE username = $1`, username)
	return n > 0, err
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := s.q.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE email = $1`, email)
	return n > 0, err
}

func (s *Store) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	n, err := s.execAffected(ctx, `UPDATE users SET password = $1 WHERE id = $2`, hash, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeToken records a token id as unusable until expiresAt.
func (s *Store) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO revoked_tokens (token_id, expires_at) VALUES ($1, $2) ON CONFLICT (token_id) DO NOTHING`, tokenID, expiresAt)
	return err
}

func (s *Store) TokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	var n int64
	err := s.q.GetContext(ctx, &n, `SELECT COUNT(*) FROM revoked_tokens WHERE token_id = $1`, tokenID)
	return n > 0, err
}

// PurgeRevokedTokens drops revocations whose tokens have expired anyway.
func (s *Store) PurgeRevokedTokens(ctx context.Context, now time.Time) (int64, error) {
	return s.execAffected(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
}
