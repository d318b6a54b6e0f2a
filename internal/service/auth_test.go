package service

import (
	"context"
	"testing"
	"time"

	"pharmasync/m/domain"
	"pharmasync/m/internal/report"
)

func mustRegister(t *testing.T, svc *Service, username, email, password string) domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{Username: username, Email: email, Password: password})
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	u := mustRegister(t, svc, " rahim ", "Rahim@Example.com", "s3cret")
	if u.ID == 0 || u.Username != "rahim" || u.Email != "rahim@example.com" || u.Role != domain.RoleStaff || u.Password != "" {
		t.Fatalf("registered user = %+v", u)
	}

	session, err := svc.Login(context.Background(), "RAHIM@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" || session.User.Password != "" {
		t.Fatalf("session = %+v", session)
	}
	if want := testNow.Add(time.Hour); !session.ExpiresAt.Equal(want) {
		t.Fatalf("expires at %v, want %v", session.ExpiresAt, want)
	}

	id, err := svc.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.UserID != u.ID || id.Username != "rahim" || id.Role != domain.RoleStaff || id.TokenID == "" {
		t.Fatalf("identity = %+v", id)
	}

	me, err := svc.Me(WithActor(context.Background(), id))
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.Email != "rahim@example.com" || me.Password != "" {
		t.Fatalf("me = %+v", me)
	}
}

func TestRegisterRejects(t *testing.T) {
	svc, _ := newTestService(t)
	mustRegister(t, svc, "rahim", "rahim@example.com", "pw")

	tests := []struct {
		name string
		in   RegisterInput
		want domain.Kind
	}{
		{"missing password", RegisterInput{Username: "karim", Email: "karim@example.com"}, domain.KindValidation},
		{"bad email", RegisterInput{Username: "karim", Email: "karim-at-example", Password: "pw"}, domain.KindValidation},
		{"taken username", RegisterInput{Username: "rahim", Email: "other@example.com", Password: "pw"}, domain.KindConflict},
		{"taken email", RegisterInput{Username: "karim", Email: "RAHIM@example.com", Password: "pw"}, domain.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			assertKind(t, err, tt.want)
		})
	}
}

func TestRegisterLosingInsertIsConflict(t *testing.T) {
	svc, _, db := openTestService(t, report.NewPDF("Ledger"))
	mustRegister(t, svc, "rahim", "rahim@example.com", "pw")

	// The lookup is exact but the index folds case, so the existence checks
	// pass and the insert itself hits the unique constraint.
	if _, err := db.Exec(`CREATE UNIQUE INDEX users_username_folded ON users(LOWER(username))`); err != nil {
		t.Fatalf("create index: %v", err)
	}

	_, err := svc.Register(context.Background(), RegisterInput{Username: "RAHIM", Email: "second@example.com", Password: "pw"})
	assertKind(t, err, domain.KindConflict)
	if domain.MessageOf(err) != "username already exists" {
		t.Fatalf("message = %q", domain.MessageOf(err))
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	mustRegister(t, svc, "rahim", "rahim@example.com", "s3cret")

	_, err := svc.Login(context.Background(), "rahim@example.com", "wrong")
	assertKind(t, err, domain.KindUnauthorized)
	if domain.MessageOf(err) != "invalid email or password" {
		t.Fatalf("message = %q", domain.MessageOf(err))
	}
	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	assertKind(t, err, domain.KindUnauthorized)
	if domain.MessageOf(err) != "invalid email or password" {
		t.Fatalf("message = %q", domain.MessageOf(err))
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc, clock := newTestService(t)
	mustRegister(t, svc, "rahim", "rahim@example.com", "s3cret")
	session, err := svc.Login(context.Background(), "rahim@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	_, err = svc.Authenticate(context.Background(), "")
	assertKind(t, err, domain.KindUnauthorized)
	_, err = svc.Authenticate(context.Background(), session.Token+"x")
	assertKind(t, err, domain.KindUnauthorized)

	other := New(svc.store, nil, "another-secret", time.Hour, WithClock(clock.Now))
	_, err = other.Authenticate(context.Background(), session.Token)
	assertKind(t, err, domain.KindUnauthorized)

	clock.Add(2 * time.Hour)
	_, err = svc.Authenticate(context.Background(), session.Token)
	assertKind(t, err, domain.KindUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)
	mustRegister(t, svc, "rahim", "rahim@example.com", "s3cret")
	first, err := svc.Login(context.Background(), "rahim@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	second, err := svc.Login(context.Background(), "rahim@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	id, err := svc.Authenticate(context.Background(), first.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := svc.Logout(WithActor(context.Background(), id)); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	_, err = svc.Authenticate(context.Background(), first.Token)
	assertKind(t, err, domain.KindUnauthorized)
	if _, err := svc.Authenticate(context.Background(), second.Token); err != nil {
		t.Fatalf("other session ended too: %v", err)
	}

	err = svc.Logout(context.Background())
	assertKind(t, err, domain.KindUnauthorized)
}

func TestResetPassword(t *testing.T) {
	svc, _ := newTestService(t)
	u := mustRegister(t, svc, "rahim", "rahim@example.com", "old")
	ctx := WithActor(context.Background(), domain.Identity{UserID: u.ID, Username: u.Username, Role: u.Role})

	err := svc.ResetPassword(ctx, "")
	assertKind(t, err, domain.KindValidation)
	if err := svc.ResetPassword(ctx, "new"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	_, err = svc.Login(context.Background(), "rahim@example.com", "old")
	assertKind(t, err, domain.KindUnauthorized)
	if _, err := svc.Login(context.Background(), "rahim@example.com", "new"); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}

	ghost := WithActor(context.Background(), domain.Identity{UserID: 404, Role: domain.RoleStaff})
	err = svc.ResetPassword(ghost, "pw")
	assertKind(t, err, domain.KindNotFound)
}
