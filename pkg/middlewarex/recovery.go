package middlewarex

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/logx"
)

// Recovery turns a handler panic into a 500 that names the trace id, so an
// operator can quote it when reporting the failure.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler { //nolint:errorlint,err113
				panic(rec)
			}

			logger(ctx).Error(
				"panic in handler",
				slog.Any(logx.FieldError, rec),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)

			message := http.StatusText(http.StatusInternalServerError)
			if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
				message = fmt.Sprintf("%s (reference %s)", message, traceID)
			}

			http.Error(w, message, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
