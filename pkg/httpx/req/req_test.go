package req_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"dealsadmin/pkg/httpx/req"
)

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password,raw" validate:"required"`
	Ignored  int    `form:"ignored"`
}

func TestForm(t *testing.T) {
	testCases := []struct {
		name     string
		values   url.Values
		want     loginForm
		wantFail bool
	}{
		{
			name:   "Trimmed email, raw password",
			values: url.Values{"email": {"  ops@example.com "}, "password": {" secret "}},
			want:   loginForm{Email: "ops@example.com", Password: " secret "},
		},
		{
			name:     "Missing password",
			values:   url.Values{"email": {"ops@example.com"}},
			wantFail: true,
		},
		{
			name:     "Malformed email",
			values:   url.Values{"email": {"ops"}, "password": {"x"}},
			wantFail: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tc.values.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			var form loginForm

			err := req.Form(r, &form)
			if tc.wantFail {
				rq.Error(err)
				rq.True(failure.IsInvalidArgumentError(err))

				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, form)
		})
	}
}

func TestRead(t *testing.T) {
	rq := require.New(t)

	type body struct {
		Status string `json:"status" validate:"required"`
	}

	var dest body

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"published"}`))
	rq.NoError(req.Read(r, &dest))
	rq.Equal("published", dest.Status)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err := req.Read(r, &dest)
	rq.True(failure.IsInvalidArgumentError(err))
}
