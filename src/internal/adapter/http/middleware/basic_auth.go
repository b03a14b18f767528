package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/api-sage/account-ledger/src/internal/logger"
)

// Realm is announced to clients that call a ledger route without credentials.
const Realm = "account-ledger"

// BasicAuth admits requests that present the configured channel id and key.
func BasicAuth(channelID, channelKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if channelID == "" || channelKey == "" {
				logger.Error("basic auth middleware missing channel configuration", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			id, key, ok := r.BasicAuth()
			if !ok || !secureEqual(id, channelID) || !secureEqual(key, channelKey) {
				logger.Info("basic auth middleware unauthorized request", logger.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"credentials": credentialState(ok),
				})
				w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`", charset="UTF-8"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			logger.Info("basic auth middleware authorized request", logger.Fields{
				"method":  r.Method,
				"path":    r.URL.Path,
				"channel": id,
			})
			next.ServeHTTP(w, r)
		})
	}
}

func credentialState(present bool) string {
	if present {
		return "invalid"
	}
	return "missing"
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
