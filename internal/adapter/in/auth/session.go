// Package auth keeps the caller identity in a signed cookie session and
// carries it through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"yatube/internal/model"
	"yatube/pkg/logger"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "yatube_session"
	userIDKey   = "user_id"

	sessionMaxAge = 14 * 24 * 60 * 60
)

type IdentityResolver interface {
	Resolve(ctx context.Context, userID int64) (model.Identity, error)
}

type Sessions struct {
	store    sessions.Store
	resolver IdentityResolver
}

// NewCookieStore creates the cookie store used for login sessions.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func New(store sessions.Store, resolver IdentityResolver) *Sessions {
	return &Sessions{store: store, resolver: resolver}
}

// Middleware resolves the session user and stores the identity in the request
// context. Broken cookies and deleted users are treated as anonymous.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		id := model.Anonymous
		session, err := s.store.Get(r, SessionName)
		if err != nil {
			log.Debug("ignoring invalid session cookie", "error", err)
		}
		if session != nil {
			if userID, ok := session.Values[userIDKey].(int64); ok {
				resolved, err := s.resolver.Resolve(ctx, userID)
				if err != nil {
					log.Error("resolve session user", "user_id", userID, "error", err)
				} else {
					id = resolved
				}
			}
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, id)))
	})
}

func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, id model.Identity) error {
	if !id.Authenticated() {
		return errors.New("login of anonymous identity")
	}
	session, _ := s.store.Get(r, SessionName)
	session.Values[userIDKey] = id.UserID
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, userIDKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the caller identity, anonymous when none was set.
func FromContext(ctx context.Context) model.Identity {
	id, ok := ctx.Value(ctxKey{}).(model.Identity)
	if !ok {
		return model.Anonymous
	}
	return id
}
