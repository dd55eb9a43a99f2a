package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tregeagle/finagle/internal/api"
	"github.com/tregeagle/finagle/internal/config"
	"github.com/tregeagle/finagle/internal/testutil"
)

func newTestRouter(t *testing.T, apiKey string) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)

	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Security.APIKey = apiKey

	return api.NewRouter(api.Services{
		System:       testutil.NewTestSystemService(t, db),
		Users:        testutil.NewTestUserService(t, db),
		Transactions: testutil.NewTestTransactionService(t, db),
		Imports:      testutil.NewTestImportService(t, db),
		Exports:      testutil.NewTestExportService(t, db),
		Reports:      testutil.NewTestReportService(t, db),
	}, cfg)
}

func TestRouter(t *testing.T) {
	t.Run("health is open and carries security headers", func(t *testing.T) {
		router := newTestRouter(t, "secret")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/health", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
		if w.Header().Get("X-Frame-Options") != "DENY" {
			t.Error("Expected security headers on the response")
		}
		if w.Header().Get("Content-Type") != "application/json" {
			t.Error("Expected a JSON response")
		}
	})

	t.Run("user routes require the API key", func(t *testing.T) {
		router := newTestRouter(t, "secret")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"username":"zoe"}`)))
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403 without key, got %d", w.Code)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"username":"zoe"}`))
		req.Header.Set("X-API-Key", "secret")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Errorf("Expected 201 with key, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects malformed user ids", func(t *testing.T) {
		router := newTestRouter(t, "")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/not-a-uuid/reports/cgt", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("serves a full report round trip", func(t *testing.T) {
		router := newTestRouter(t, "")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"username":"yara"}`)))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		id := between(w.Body.String(), `"id":"`, `"`)

		for _, body := range []string{
			`{"date":"2022-01-10","action":"buy","ticker":"NDQ","quantity":50,"price":"30"}`,
			`{"date":"2023-02-10","action":"sell","ticker":"NDQ","quantity":50,"price":"34"}`,
		} {
			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/users/"+id+"/transactions", strings.NewReader(body)))
			if w.Code != http.StatusCreated {
				t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
			}
		}

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/"+id+"/reports/cgt/2022-2023", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"net_capital_gain":"100.00"`) {
			t.Errorf("Expected a net capital gain of 100.00, got %s", w.Body.String())
		}
	})
}

func between(s, start, end string) string {
	_, rest, ok := strings.Cut(s, start)
	if !ok {
		return ""
	}
	v, _, _ := strings.Cut(rest, end)
	return v
}
