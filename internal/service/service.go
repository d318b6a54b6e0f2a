package service

import (
	"context"
	"errors"
	"io"
	"time"

	"pharmasync/m/domain"
	"pharmasync/m/internal/store"
)

type actorContextKey struct{}

// WithActor returns a context carrying the authenticated identity.
func WithActor(ctx context.Context, actor domain.Identity) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFrom returns the identity stored by WithActor.
func ActorFrom(ctx context.Context) (domain.Identity, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Identity)
	return actor, ok
}

// LedgerRenderer turns a ledger into a downloadable document.
type LedgerRenderer interface {
	RenderLedger(w io.Writer, l domain.Ledger) error
}

// Service implements the pharmacy operations on top of the store. Every
// operation returns a *domain.Error on failure.
type Service struct {
	store    *store.Store
	renderer LedgerRenderer
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs a Service.
func New(st *store.Store, renderer LedgerRenderer, secret string, tokenTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		store:    st,
		renderer: renderer,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time { return s.now().UTC() }

func (s *Service) today() time.Time { return domain.StartOfDay(s.clock()) }

// requireActor returns the caller identity or an unauthorized error.
func requireActor(ctx context.Context) (domain.Identity, error) {
	actor, ok := ActorFrom(ctx)
	if !ok || actor.UserID == 0 {
		return domain.Identity{}, domain.Unauthorized("authentication required")
	}
	return actor, nil
}

// persistence wraps err unless it already carries a kind.
func persistence(msg string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Persistence(msg, err)
}
