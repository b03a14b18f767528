package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
)

type validator interface {
	Validate() error
}

// serveBody decodes a JSON request body, validates it and hands it to call.
func serveBody[Req validator, Resp any](w http.ResponseWriter, r *http.Request, okStatus int, call func(context.Context, Req) (commons.Response[Resp], error)) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[Resp]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req Req
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[Resp]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[Resp](services.MsgValidationFailed, err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := call(r.Context(), req)
	respond(w, r, okStatus, response, err, start)
}

// serveQuery answers a GET request from its query string.
func serveQuery[Resp any](w http.ResponseWriter, r *http.Request, call func(context.Context) (commons.Response[Resp], error)) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[Resp]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := call(r.Context())
	respond(w, r, http.StatusOK, response, err, start)
}

func respond[Resp any](w http.ResponseWriter, r *http.Request, okStatus int, response commons.Response[Resp], err error, start time.Time) {
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusFor(response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, okStatus, response)
	logResponse(r, okStatus, response, start)
}

func statusFor(message string) int {
	switch message {
	case services.MsgValidationFailed, services.MsgInvalidPin:
		return http.StatusBadRequest
	case services.MsgAccountNotFound, services.MsgCustomerNotFound, services.MsgInstrumentNotFound, services.MsgOrderNotFound:
		return http.StatusNotFound
	case services.MsgAccountLocked, services.MsgAccountClosed:
		return http.StatusConflict
	case services.MsgDeclined:
		return http.StatusUnprocessableEntity
	case services.MsgUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func protect(handler http.HandlerFunc, authMiddleware func(http.Handler) http.Handler) http.Handler {
	if authMiddleware == nil {
		return handler
	}
	return authMiddleware(handler)
}
