package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type loginerFunc func(ctx context.Context, email, password string) (string, error)

func (f loginerFunc) Login(ctx context.Context, email, password string) (string, error) {
	return f(ctx, email, password)
}

func TestServiceAccount(t *testing.T) {
	t.Parallel()
	rq := require.New(t)

	var gotEmail, gotPassword string

	calls := 0
	account := NewServiceAccount(loginerFunc(func(_ context.Context, email, password string) (string, error) {
		calls++
		gotEmail, gotPassword = email, password

		if calls > 1 {
			return "", errors.New("invalid credentials")
		}

		return "tok-1", nil
	}), "watcher@example.com", "secret")

	rq.Empty(account.BearerToken())

	rq.NoError(account.Authenticate(context.Background()))
	rq.Equal("tok-1", account.BearerToken())
	rq.Equal("watcher@example.com", gotEmail)
	rq.Equal("secret", gotPassword)

	rq.Error(account.Authenticate(context.Background()))
	rq.Empty(account.BearerToken())
}
