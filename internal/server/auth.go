package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"git.appkode.ru/pub/go/failure"

	"dealsadmin/internal/domain"
	"dealsadmin/internal/session"
	"dealsadmin/pkg/httpx/reply"
	"dealsadmin/pkg/httpx/req"
	"dealsadmin/pkg/logx"
)

type authClient interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type loginForm struct {
	Email    string `form:"email"        validate:"required,email"`
	Password string `form:"password,raw" validate:"required"`
}

// AuthServer serves the login page and owns session creation.
type AuthServer struct {
	gate       Gate
	client     authClient
	pages      *Pages
	sessionTTL time.Duration
}

func NewAuthServer(gate Gate, client authClient, pages *Pages, sessionTTL time.Duration) AuthServer {
	return AuthServer{
		gate:       gate,
		client:     client,
		pages:      pages,
		sessionTTL: sessionTTL,
	}
}

func (s AuthServer) getIndex(w http.ResponseWriter, r *http.Request) error {
	if _, err := s.gate.current(r); err == nil {
		reply.SeeOther(w, r, "/deals")

		return nil
	}

	return s.renderLogin(w, http.StatusOK, "", "")
}

func (s AuthServer) postLogin(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var form loginForm

	if err := req.Form(r, &form); err != nil {
		if failure.IsInvalidArgumentError(err) {
			return s.renderLogin(w, http.StatusBadRequest, form.Email, "Enter a valid email and password")
		}

		return fmt.Errorf("req.Form: %w", err)
	}

	token, err := s.client.Login(ctx, form.Email, form.Password)
	if err != nil {
		logger(ctx).Warn("client.Login", logx.Error(err))

		status := http.StatusUnauthorized
		if !domain.IsAuthError(err) {
			status = http.StatusBadGateway
		}

		return s.renderLogin(w, status, form.Email, domain.Message(err, "Login failed"))
	}

	sess := session.New(token, form.Email, s.sessionTTL, time.Now())

	if err = s.gate.start(ctx, w, sess); err != nil {
		if errors.Is(err, session.ErrExpired) {
			return s.renderLogin(w, http.StatusUnauthorized, form.Email, "Login failed")
		}

		return fmt.Errorf("gate.start: %w", err)
	}

	logger(ctx).Info("operator logged in", slog.String(logx.FieldSessionID, sess.ID.String()))
	reply.SeeOther(w, r, "/deals")

	return nil
}

func (s AuthServer) postLogout(w http.ResponseWriter, r *http.Request) error {
	if sess, err := s.gate.current(r); err == nil {
		s.gate.end(r.Context(), w, sess.ID)
	} else {
		s.gate.clearCookie(w)
	}

	reply.SeeOther(w, r, "/")

	return nil
}

func (s AuthServer) renderLogin(w http.ResponseWriter, status int, email, message string) error {
	return s.pages.Render(w, status, "login", loginPage{
		layoutData: layoutData{Title: "Sign in"},
		FormEmail:  email,
		Error:      message,
	})
}
