package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func ledgerHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func withCredentials(req *http.Request, id, key string) *http.Request {
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(id+":"+key)))
	return req
}

func TestBasicAuth_AllowsLedgerChannel(t *testing.T) {
	called := false
	mw := BasicAuth("LedgerApp", "LedgerKey001")

	req := withCredentials(httptest.NewRequest(http.MethodGet, "/accounts?accountNumber=10000000", nil), "LedgerApp", "LedgerKey001")
	rr := httptest.NewRecorder()
	mw(ledgerHandler(t, &called)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !called {
		t.Fatalf("expected status %d and handler call, got %d called=%v", http.StatusOK, rr.Code, called)
	}
}

func TestBasicAuth_RejectsWrongKey(t *testing.T) {
	called := false
	mw := BasicAuth("LedgerApp", "LedgerKey001")

	req := withCredentials(httptest.NewRequest(http.MethodPost, "/accounts/withdraw", nil), "LedgerApp", "WrongKey")
	rr := httptest.NewRecorder()
	mw(ledgerHandler(t, &called)).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected status %d without handler call, got %d called=%v", http.StatusUnauthorized, rr.Code, called)
	}
}

func TestBasicAuth_MissingCredentialsAnnounceRealm(t *testing.T) {
	called := false
	mw := BasicAuth("LedgerApp", "LedgerKey001")

	rr := httptest.NewRecorder()
	mw(ledgerHandler(t, &called)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/transfer-funds", nil))

	if rr.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected status %d without handler call, got %d called=%v", http.StatusUnauthorized, rr.Code, called)
	}
	if got := rr.Header().Get("WWW-Authenticate"); !strings.Contains(got, `realm="account-ledger"`) {
		t.Fatalf("expected ledger realm challenge, got %q", got)
	}
}

func TestBasicAuth_UnconfiguredChannelFails(t *testing.T) {
	called := false
	mw := BasicAuth("LedgerApp", "")

	req := withCredentials(httptest.NewRequest(http.MethodGet, "/currencies", nil), "LedgerApp", "")
	rr := httptest.NewRecorder()
	mw(ledgerHandler(t, &called)).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError || called {
		t.Fatalf("expected status %d without handler call, got %d called=%v", http.StatusInternalServerError, rr.Code, called)
	}
}
