package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog"
)

// CronAuthMiddleware guards the scheduled endpoints with a shared bearer
// secret. Fails closed: no secret configured means no access.
func CronAuthMiddleware(cronSecret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			expected := "Bearer " + cronSecret
			got := r.Header.Get("Authorization")
			if cronSecret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
				logger.Warn().Str("path", r.URL.Path).Msg("Rejected cron request")
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
