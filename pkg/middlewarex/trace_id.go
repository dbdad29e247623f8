package middlewarex

import (
	"net/http"
	"regexp"

	"github.com/rs/xid"

	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/httpx"
)

// Incoming ids end up in every log line, so only short plain tokens are kept.
var validTraceID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`) //nolint:gochecknoglobals

// TraceID reuses the caller's X-Trace-Id when it looks sane and generates a
// fresh xid otherwise. The id is echoed in the response.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(httpx.HeaderTraceID)

		if !validTraceID.MatchString(traceID) {
			traceID = xid.New().String()
		}

		ctx := contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))

		w.Header().Set(httpx.HeaderTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
