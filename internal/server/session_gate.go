package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dealsadmin/internal/session"
	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/httpx/reply"
	"dealsadmin/pkg/logx"
)

const SessionCookie = "admin_session"

type contextKeySession struct{}

func withSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, contextKeySession{}, s)
}

func sessionFromContext(ctx context.Context) (session.Session, error) {
	s, ok := ctx.Value(contextKeySession{}).(session.Session)
	if !ok {
		return session.Session{}, fmt.Errorf("session: %w", contextx.ErrNoValue)
	}

	return s, nil
}

// Gate resolves the session cookie and guards the operator pages.
type Gate struct {
	sessions     session.Store
	views        *ViewRegistry
	secureCookie bool
}

func NewGate(sessions session.Store, views *ViewRegistry, secureCookie bool) Gate {
	return Gate{
		sessions:     sessions,
		views:        views,
		secureCookie: secureCookie,
	}
}

// Require redirects requests without a live session to the login page.
func (g Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		s, err := g.current(r)

		switch {
		case errors.Is(err, session.ErrNotFound):
			g.clearCookie(w)
			reply.SeeOther(w, r, "/")

			return
		case err != nil:
			reply.Error(ctx, w, fmt.Errorf("gate.current: %w", err))

			return
		}

		ctx = contextx.WithSessionID(ctx, s.ID)
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldSessionID, s.ID.String())))
		ctx = withSession(ctx, s)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Expire drops a session the backend stopped accepting and sends the
// operator back to the login page.
func (g Gate) Expire(w http.ResponseWriter, r *http.Request, s session.Session) {
	ctx := r.Context()

	logger(ctx).Info("session expired")

	g.end(ctx, w, s.ID)
	reply.SeeOther(w, r, "/")
}

func (g Gate) start(ctx context.Context, w http.ResponseWriter, s session.Session) error {
	if err := g.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("sessions.Save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID.String(),
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   g.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (g Gate) end(ctx context.Context, w http.ResponseWriter, id contextx.SessionID) {
	if err := g.sessions.Delete(ctx, id); err != nil {
		logger(ctx).Error("sessions.Delete", logx.Error(err))
	}

	g.views.CloseSession(id)
	g.clearCookie(w)
}

func (g Gate) current(r *http.Request) (session.Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return session.Session{}, session.ErrNotFound
	}

	s, err := g.sessions.Get(r.Context(), contextx.SessionID(cookie.Value))
	if err != nil {
		return session.Session{}, fmt.Errorf("sessions.Get: %w", err)
	}

	if s.Expired(time.Now()) {
		return session.Session{}, session.ErrNotFound
	}

	return s, nil
}

func (g Gate) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   g.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
