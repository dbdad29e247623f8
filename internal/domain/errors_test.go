package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"dealsadmin/internal/domain"
	"dealsadmin/pkg/errcodes"
)

func TestAppError(t *testing.T) {
	rq := require.New(t)

	cause := context.Canceled
	err := fmt.Errorf("adminapi.ApproveDeal: %w", domain.NewActionError("Approve failed", cause))

	rq.True(domain.IsActionError(err))
	rq.False(domain.IsFetchError(err))
	rq.False(domain.IsAuthError(err))
	rq.ErrorIs(err, context.Canceled)
	rq.Equal("Approve failed", domain.Message(err, "fallback"))

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.ActionFailed, code)

	var appErr *domain.AppError

	rq.ErrorAs(err, &appErr)
	rq.Equal("Approve failed: context canceled", appErr.Detailed())

	inFlight := domain.NewError(errcodes.ActionInProgress, "Another action is in progress")
	rq.True(domain.IsActionError(inFlight))

	rq.Equal("fallback", domain.Message(errors.New("plain"), "fallback"))
	rq.False(domain.IsAppError(errors.New("plain")))
}
