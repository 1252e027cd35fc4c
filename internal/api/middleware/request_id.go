package middleware

import (
	"net/http"
	"strings"

	"github.com/ManuGH/availwin/internal/log"
	"github.com/google/uuid"
)

// HeaderRequestID carries the request correlation id in both directions.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen bounds client-supplied ids.
const maxRequestIDLen = 128

// RequestID adds a unique ID to every request. A well-formed client id is
// kept, anything else is replaced by a fresh UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if reqID == "" || len(reqID) > maxRequestIDLen || strings.ContainsAny(reqID, " \t\r\n") {
			reqID = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, reqID)
		ctx := log.ContextWithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
