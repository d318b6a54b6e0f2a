package seed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pharmasync/m/domain"
	"pharmasync/m/internal/config"
	"pharmasync/m/internal/store"
)

// Admin creates the default administrator when no user exists yet. It
// reports whether an account was created.
func Admin(ctx context.Context, st *store.Store, cfg config.AdminConfig) (bool, error) {
	n, err := st.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		log.Printf("users already present, skipping admin seed")
		return false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	_, err = st.CreateUser(ctx, domain.User{
		Username:  cfg.Username,
		Email:     strings.ToLower(cfg.Email),
		Password:  string(hashed),
		Role:      domain.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	log.Printf("default admin created: %s", cfg.Email)
	return true, nil
}
