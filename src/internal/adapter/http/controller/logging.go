package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/account-ledger/src/internal/logger"
)

// ledgerQueryKeys are the query parameters that identify what a request
// touches. They are lifted into their own log fields.
var ledgerQueryKeys = []string{"accountNumber", "instrumentId", "reference", "id"}

func requestFields(r *http.Request) logger.Fields {
	fields := logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}
	query := r.URL.Query()
	for _, key := range ledgerQueryKeys {
		if v := query.Get(key); v != "" {
			fields[key] = v
		}
	}
	return fields
}

func logRequest(r *http.Request, payload any) {
	fields := requestFields(r)
	if payload != nil {
		fields["payload"] = logger.SanitizePayload(payload)
	}
	logger.Info("http request", fields)
}

func logResponse(r *http.Request, status int, payload any, start time.Time) {
	fields := requestFields(r)
	fields["status"] = status
	fields["durationMs"] = time.Since(start).Milliseconds()
	fields["response"] = logger.SanitizePayload(payload)
	logger.Info("http response", fields)
}

// logError merges extra over the request fields, so a handler can name the
// account number it resolved from a body.
func logError(r *http.Request, err error, extra logger.Fields) {
	fields := requestFields(r)
	for k, v := range extra {
		fields[k] = v
	}
	logger.Error("http handler error", err, fields)
}
