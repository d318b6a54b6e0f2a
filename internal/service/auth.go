package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pharmasync/m/domain"
	"pharmasync/m/internal/store"
)

type authClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

// Register creates a staff account. Username and email must both be unused.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return domain.User{}, domain.Validation("username, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, domain.Validation("email is not valid")
	}

	if taken, err := s.store.UsernameExists(ctx, username); err != nil {
		return domain.User{}, domain.Persistence("unable to check username", err)
	} else if taken {
		return domain.User{}, domain.Conflict("username already exists")
	}
	if taken, err := s.store.EmailExists(ctx, email); err != nil {
		return domain.User{}, domain.Persistence("unable to check email", err)
	} else if taken {
		return domain.User{}, domain.Conflict("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, domain.Persistence("unable to secure password", err)
	}

	user := domain.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		Role:      domain.RoleStaff,
		CreatedAt: s.clock(),
	}
	id, err := s.store.CreateUser(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		return domain.User{}, s.registrationConflict(ctx, email)
	}
	if err != nil {
		return domain.User{}, domain.Persistence("unable to create user", err)
	}
	user.ID = id
	user.Password = ""
	return user, nil
}

// registrationConflict names the field a concurrent registration claimed first.
func (s *Service) registrationConflict(ctx context.Context, email string) error {
	if taken, err := s.store.EmailExists(ctx, email); err == nil && taken {
		return domain.Conflict("email already registered")
	}
	return domain.Conflict("username already exists")
}

// Login checks the credentials and issues a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, domain.Unauthorized("invalid email or password")
	}
	if err != nil {
		return Session{}, domain.Persistence("unable to load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return Session{}, domain.Unauthorized("invalid email or password")
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return Session{}, domain.Persistence("unable to generate token", err)
	}
	user.Password = ""
	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *Service) generateToken(user domain.User) (string, time.Time, error) {
	now := s.clock()
	expiresAt := now.Add(s.tokenTTL)
	claims := authClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	return signed, expiresAt, err
}

// Authenticate validates a session token and returns the identity it carries.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (domain.Identity, error) {
	if tokenString == "" {
		return domain.Identity{}, domain.Unauthorized("missing session token")
	}
	token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock))
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.Unauthorized("invalid token")
	}
	claims, ok := token.Claims.(*authClaims)
	if !ok || claims.UserID == 0 || claims.ExpiresAt == nil {
		return domain.Identity{}, domain.Unauthorized("invalid token claims")
	}

	revoked, err := s.store.TokenRevoked(ctx, claims.ID)
	if err != nil {
		return domain.Identity{}, domain.Persistence("unable to check token", err)
	}
	if revoked {
		return domain.Identity{}, domain.Unauthorized("session has ended")
	}

	return domain.Identity{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// Logout revokes the caller's token until it would have expired.
func (s *Service) Logout(ctx context.Context) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	if actor.TokenID == "" {
		return nil
	}
	if _, err := s.store.PurgeRevokedTokens(ctx, s.clock()); err != nil {
		return domain.Persistence("unable to end session", err)
	}
	if err := s.store.RevokeToken(ctx, actor.TokenID, actor.ExpiresAt); err != nil {
		return domain.Persistence("unable to end session", err)
	}
	return nil
}

// ResetPassword replaces the caller's password.
func (s *Service) ResetPassword(ctx context.Context, newPassword string) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return domain.Validation("new_password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.Persistence("unable to secure password", err)
	}
	err = s.store.UpdatePassword(ctx, actor.UserID, string(hashed))
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound("user %d not found", actor.UserID)
	}
	if err != nil {
		return domain.Persistence("unable to update password", err)
	}
	return nil
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context) (domain.User, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.store.UserByID(ctx, actor.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.NotFound("user %d not found", actor.UserID)
	}
	if err != nil {
		return domain.User{}, domain.Persistence("unable to load user", err)
	}
	user.Password = ""
	return user, nil
}
