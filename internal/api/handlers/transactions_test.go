package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tregeagle/finagle/internal/model"
	"github.com/tregeagle/finagle/internal/testutil"
)

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	setup := func(t *testing.T) (*TransactionHandler, model.User, func(body string) *httptest.ResponseRecorder) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		handler := NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		user := testutil.NewUser().Build(t, db)
		post := func(body string) *httptest.ResponseRecorder {
			req := testutil.NewRequestWithBody(http.MethodPost, "/api/v1/users/"+user.ID+"/transactions",
				strings.NewReader(body), map[string]string{"userId": user.ID})
			w := httptest.NewRecorder()
			handler.CreateTransaction(w, req)
			return w
		}
		return handler, user, post
	}

	t.Run("creates a buy", func(t *testing.T) {
		_, user, post := setup(t)

		w := post(`{"date":"2023-01-05","action":"buy","ticker":"bhp","quantity":100,"price":"45.10","fee":"9.95"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var tx model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&tx)

		if tx.UserID != user.ID || tx.Ticker != "BHP" || tx.Value != "4510" || tx.Fee != "9.95" {
			t.Errorf("Unexpected transaction: %+v", tx)
		}
	})

	t.Run("returns 400 with field errors", func(t *testing.T) {
		_, _, post := setup(t)

		w := post(`{"date":"05/01/2023","action":"buy","ticker":"BHP","quantity":-1,"price":"1"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}

		var body struct {
			Details map[string]string `json:"details"`
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)

		if body.Details["date"] == "" || body.Details["quantity"] == "" {
			t.Errorf("Expected date and quantity errors, got %v", body.Details)
		}
	})

	t.Run("returns 422 for an oversell", func(t *testing.T) {
		_, _, post := setup(t)

		w := post(`{"date":"2023-01-05","action":"sell","ticker":"BHP","quantity":10,"price":"45"}`)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("applies query filters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		user := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(user.ID).WithTicker("BHP").WithDate("2023-08-01").Build(t, db)
		testutil.NewTransaction(user.ID).WithTicker("CBA").WithDate("2023-08-01").Build(t, db)
		testutil.NewTransaction(user.ID).WithTicker("BHP").WithDate("2022-08-01").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/users/"+user.ID+"/transactions?ticker=BHP&fy=2023-2024",
			map[string]string{"userId": user.ID})
		w := httptest.NewRecorder()
		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var txs []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&txs)

		if len(txs) != 1 || txs[0].Ticker != "BHP" || txs[0].Date != "2023-08-01" {
			t.Errorf("Expected a single 2023 BHP transaction, got %+v", txs)
		}
	})

	t.Run("returns 400 for malformed fy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/users/"+user.ID+"/transactions?fy=2023",
			map[string]string{"userId": user.ID})
		w := httptest.NewRecorder()
		handler.ListTransactions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns empty array", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/v1/users/"+user.ID+"/transactions",
			map[string]string{"userId": user.ID})
		w := httptest.NewRecorder()
		handler.ListTransactions(w, req)

		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Errorf("Expected [], got %s", w.Body.String())
		}
	})
}

func TestTransactionHandler_GetAndDeleteTransaction(t *testing.T) {
	t.Run("gets and deletes a transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		user := testutil.NewUser().Build(t, db)
		tx := testutil.NewTransaction(user.ID).Build(t, db)
		params := map[string]string{"userId": user.ID, "transactionId": tx.ID}
		path := "/api/v1/users/" + user.ID + "/transactions/" + tx.ID

		w := httptest.NewRecorder()
		handler.GetTransaction(w, testutil.NewRequestWithURLParams(http.MethodGet, path, params))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		handler.DeleteTransaction(w, testutil.NewRequestWithURLParams(http.MethodDelete, path, params))
		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		handler.GetTransaction(w, testutil.NewRequestWithURLParams(http.MethodGet, path, params))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, got %d", w.Code)
		}
	})

	t.Run("returns 422 when a sell depends on the buy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTransactionHandler(testutil.NewTestTransactionService(t, db))
		user := testutil.NewUser().Build(t, db)
		buy := testutil.NewTransaction(user.ID).WithDate("2023-01-01").Build(t, db)
		testutil.NewTransaction(user.ID).Sell().WithDate("2023-02-01").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/v1/users/"+user.ID+"/transactions/"+buy.ID,
			map[string]string{"userId": user.ID, "transactionId": buy.ID})
		w := httptest.NewRecorder()
		handler.DeleteTransaction(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", w.Code, w.Body.String())
		}
	})
}
