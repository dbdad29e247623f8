package session

import (
	"context"
	"fmt"
	"sync"
)

type loginer interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// ServiceAccount is an authenticator backed by configured credentials. It
// logs in lazily and again whenever the backend rejects its token.
type ServiceAccount struct {
	loginer  loginer
	email    string
	password string

	mu    sync.RWMutex
	token string
}

func NewServiceAccount(loginer loginer, email, password string) *ServiceAccount {
	return &ServiceAccount{
		loginer:  loginer,
		email:    email,
		password: password,
	}
}

func (a *ServiceAccount) BearerToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.token
}

func (a *ServiceAccount) Authenticate(ctx context.Context) error {
	token, err := a.loginer.Login(ctx, a.email, a.password)
	if err != nil {
		a.mu.Lock()
		a.token = ""
		a.mu.Unlock()

		return fmt.Errorf("loginer.Login: %w", err)
	}

	a.mu.Lock()
	a.token = token
	a.mu.Unlock()

	logger(ctx).Debug("service account logged in")

	return nil
}
