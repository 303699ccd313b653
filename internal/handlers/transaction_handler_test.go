package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledger/internal/errors"
	"ledger/internal/middleware"
	"ledger/internal/models"
	"ledger/internal/services"
	"ledger/internal/validator"
)

const (
	testSession = "6f1d3c2a-8b4e-4f6a-9c1d-2e3f4a5b6c7d"
	testTxID    = "0b8e7f6a-5d4c-4b3a-8f2e-1d0c9b8a7f6e"
)

// --- mock transaction service ---

type mockTransactionService struct {
	listTransactionsFn  func(sessionID string) ([]models.Transaction, error)
	getTransactionFn    func(sessionID, transactionID string) (*models.Transaction, error)
	getSummaryFn        func(sessionID string) (*models.Summary, error)
	createTransactionFn func(sessionID string, input services.TransactionInput) (*models.Transaction, error)
	updateTransactionFn func(sessionID, transactionID string, input services.TransactionInput) (*models.Transaction, error)
	deleteTransactionFn func(sessionID, transactionID string) error
}

func (m *mockTransactionService) ListTransactions(_ context.Context, sessionID string) ([]models.Transaction, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(sessionID)
	}
	return []models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransaction(_ context.Context, sessionID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionFn != nil {
		return m.getTransactionFn(sessionID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetSummary(_ context.Context, sessionID string) (*models.Summary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(sessionID)
	}
	return &models.Summary{Amount: decimal.Zero}, nil
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, sessionID string, input services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(sessionID, input)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(_ context.Context, sessionID, transactionID string, input services.TransactionInput) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(sessionID, transactionID, input)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, sessionID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(sessionID, transactionID)
	}
	return nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupTransactionRouter(svc services.TransactionServicer) *gin.Engine {
	handler := NewTransactionHandler(svc, middleware.DefaultSessionConfig)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/transactions", handler.CreateTransaction)
	scoped := r.Group("/transactions", middleware.RequireSession(middleware.DefaultSessionConfig))
	scoped.GET("", handler.ListTransactions)
	scoped.GET("/summary", handler.GetSummary)
	scoped.GET("/:id", handler.GetTransaction)
	scoped.PUT("/:id", handler.UpdateTransaction)
	scoped.DELETE("/:id", handler.DeleteTransaction)
	return r
}

func doRequest(r *gin.Engine, method, path, body, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "sessionId", Value: session})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	if _, ok := result["error"].(string); !ok {
		t.Fatalf("expected error string in response, got: %v", result)
	}
	if result["code"] != code {
		t.Errorf("expected error code %q, got %q", code, result["code"])
	}
}

func fieldNames(t *testing.T, result map[string]interface{}) []string {
	t.Helper()
	raw, ok := result["fields"].([]interface{})
	if !ok {
		t.Fatalf("expected fields array in response, got: %v", result)
	}
	names := make([]string, 0, len(raw))
	for _, f := range raw {
		names = append(names, f.(map[string]interface{})["field"].(string))
	}
	return names
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sessionId" {
			return c
		}
	}
	return nil
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 and issues cookie without session", func(t *testing.T) {
		var gotSession string
		var gotInput services.TransactionInput
		svc := &mockTransactionService{
			createTransactionFn: func(sessionID string, input services.TransactionInput) (*models.Transaction, error) {
				gotSession = sessionID
				gotInput = input
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "POST", "/transactions", `{"title":"Salary","amount":1000,"type":"credit"}`, "")

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec.Body.Len() != 0 {
			t.Errorf("expected empty body, got %q", rec.Body.String())
		}
		cookie := sessionCookie(rec)
		if cookie == nil {
			t.Fatal("expected sessionId cookie to be set")
		}
		if cookie.Value != gotSession {
			t.Errorf("cookie %q does not match session passed to service %q", cookie.Value, gotSession)
		}
		if cookie.Path != "/" {
			t.Errorf("expected cookie path /, got %q", cookie.Path)
		}
		if cookie.MaxAge != 604800 {
			t.Errorf("expected max-age 604800, got %d", cookie.MaxAge)
		}
		if gotInput.Title != "Salary" || !gotInput.Amount.Equal(decimal.NewFromInt(1000)) || gotInput.Type != models.TransactionTypeCredit {
			t.Errorf("unexpected input passed to service: %+v", gotInput)
		}
	})

	t.Run("reuses existing session without setting cookie", func(t *testing.T) {
		var gotSession string
		svc := &mockTransactionService{
			createTransactionFn: func(sessionID string, _ services.TransactionInput) (*models.Transaction, error) {
				gotSession = sessionID
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "POST", "/transactions", `{"title":"Rent","amount":300,"type":"debit"}`, testSession)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotSession != testSession {
			t.Errorf("expected session %s, got %s", testSession, gotSession)
		}
		if sessionCookie(rec) != nil {
			t.Error("cookie should only be set when a session is minted")
		}
	})

	t.Run("replaces malformed session cookie", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{})

		rec := doRequest(r, "POST", "/transactions", `{"title":"Rent","amount":300,"type":"debit"}`, "garbage")

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		cookie := sessionCookie(rec)
		if cookie == nil || cookie.Value == "garbage" {
			t.Fatalf("expected a freshly minted cookie, got %v", cookie)
		}
	})

	validationCases := []struct {
		name   string
		body   string
		fields []string
		rule   string
	}{
		{"zero amount", `{"title":"Salary","amount":0,"type":"credit"}`, []string{"amount"}, "gt"},
		{"negative amount", `{"title":"Salary","amount":-10,"type":"credit"}`, []string{"amount"}, "gt"},
		{"quoted amount", `{"title":"Salary","amount":"1000","type":"credit"}`, []string{"amount"}, "type"},
		{"boolean amount", `{"title":"Salary","amount":true,"type":"credit"}`, []string{"amount"}, "type"},
		{"sub-cent amount", `{"title":"Salary","amount":0.001,"type":"credit"}`, []string{"amount"}, "decimal_places"},
		{"amount above column limit", `{"title":"Salary","amount":1e15,"type":"credit"}`, []string{"amount"}, "lt"},
		{"invalid type", `{"title":"Salary","amount":10,"type":"income"}`, []string{"type"}, "transaction_type"},
		{"missing title", `{"amount":10,"type":"credit"}`, []string{"title"}, "required"},
		{"everything missing", `{}`, []string{"title", "amount", "type"}, "required"},
	}
	for _, tt := range validationCases {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			called := false
			svc := &mockTransactionService{
				createTransactionFn: func(string, services.TransactionInput) (*models.Transaction, error) {
					called = true
					return &models.Transaction{}, nil
				},
			}
			r := setupTransactionRouter(svc)

			rec := doRequest(r, "POST", "/transactions", tt.body, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			result := parseJSON(t, rec)
			assertErrorCode(t, result, "VALIDATION_FAILED")
			got := fieldNames(t, result)
			if strings.Join(got, ",") != strings.Join(tt.fields, ",") {
				t.Errorf("expected fields %v, got %v", tt.fields, got)
			}
			first := result["fields"].([]interface{})[0].(map[string]interface{})
			if first["rule"] != tt.rule {
				t.Errorf("expected rule %q, got %v", tt.rule, first["rule"])
			}
			if called {
				t.Error("service must not be called when validation fails")
			}
			if sessionCookie(rec) != nil {
				t.Error("no cookie should be issued for an invalid request")
			}
		})
	}

	t.Run("accepts two decimal places", func(t *testing.T) {
		var gotInput services.TransactionInput
		svc := &mockTransactionService{
			createTransactionFn: func(_ string, input services.TransactionInput) (*models.Transaction, error) {
				gotInput = input
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "POST", "/transactions", `{"title":"Coffee","amount":99999999.99,"type":"debit"}`, testSession)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotInput.Amount.Equal(decimal.RequireFromString("99999999.99")) {
			t.Errorf("expected exact amount, got %s", gotInput.Amount)
		}
	})

	t.Run("returns 400 on malformed JSON", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{})

		rec := doRequest(r, "POST", "/transactions", `{"title":`, "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 500 on store failure", func(t *testing.T) {
		svc := &mockTransactionService{
			createTransactionFn: func(string, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, context.DeadlineExceeded)
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "POST", "/transactions", `{"title":"Salary","amount":1000,"type":"credit"}`, testSession)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INTERNAL_ERROR")
		if strings.Contains(rec.Body.String(), "deadline") {
			t.Error("internal error details must not leak")
		}
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("returns 200 with session transactions", func(t *testing.T) {
		svc := &mockTransactionService{
			listTransactionsFn: func(sessionID string) ([]models.Transaction, error) {
				return []models.Transaction{
					{Base: models.Base{ID: testTxID}, Title: "Salary", Amount: decimal.NewFromInt(1000), SessionID: sessionID},
				}, nil
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "GET", "/transactions", "", testSession)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		list := result["transactions"].([]interface{})
		if len(list) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(list))
		}
		tx := list[0].(map[string]interface{})
		if tx["amount"].(float64) != 1000 {
			t.Errorf("expected numeric amount 1000, got %v", tx["amount"])
		}
		if tx["session_id"] != testSession {
			t.Errorf("expected session_id %s, got %v", testSession, tx["session_id"])
		}
	})

	t.Run("returns empty array not null", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{})

		rec := doRequest(r, "GET", "/transactions", "", testSession)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"transactions":[]`) {
			t.Errorf("expected empty array, got %s", rec.Body.String())
		}
	})

	t.Run("returns 401 without session", func(t *testing.T) {
		called := false
		svc := &mockTransactionService{
			listTransactionsFn: func(string) ([]models.Transaction, error) {
				called = true
				return nil, nil
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "GET", "/transactions", "", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
		if called {
			t.Error("service must not be reached without a session")
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("returns 200 with transaction", func(t *testing.T) {
		svc := &mockTransactionService{
			getTransactionFn: func(sessionID, id string) (*models.Transaction, error) {
				return &models.Transaction{Base: models.Base{ID: id}, Title: "Rent", Amount: decimal.NewFromInt(-300), SessionID: sessionID}, nil
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "GET", "/transactions/"+testTxID, "", testSession)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["id"] != testTxID {
			t.Errorf("expected id %s, got %v", testTxID, tx["id"])
		}
		if tx["amount"].(float64) != -300 {
			t.Errorf("expected amount -300, got %v", tx["amount"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockTransactionService{
			getTransactionFn: func(string, string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "GET", "/transactions/"+testTxID, "", testSession)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "TRANSACTION_NOT_FOUND")
		if result["error"] != "Transaction not found" {
			t.Errorf("unexpected message %v", result["error"])
		}
	})

	t.Run("returns 400 on non-UUID id", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{})

		rec := doRequest(r, "GET", "/transactions/42", "", testSession)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "VALIDATION_FAILED")
		if got := fieldNames(t, result); len(got) != 1 || got[0] != "id" {
			t.Errorf("expected id field error, got %v", got)
		}
	})
}

func TestTransactionHandler_GetSummary(t *testing.T) {
	t.Run("returns 200 with amount", func(t *testing.T) {
		svc := &mockTransactionService{
			getSummaryFn: func(string) (*models.Summary, error) {
				return &models.Summary{Amount: decimal.NewFromInt(700)}, nil
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "GET", "/transactions/summary", "", testSession)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		summary := parseJSON(t, rec)["summary"].(map[string]interface{})
		if summary["amount"].(float64) != 700 {
			t.Errorf("expected 700, got %v", summary["amount"])
		}
	})

	t.Run("returns explicit zero", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{})

		rec := doRequest(r, "GET", "/transactions/summary", "", testSession)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != `{"summary":{"amount":0}}` {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	})

	t.Run("returns 401 without session", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{})

		rec := doRequest(r, "GET", "/transactions/summary", "", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("returns 201 with empty body", func(t *testing.T) {
		var gotID string
		var gotInput services.TransactionInput
		svc := &mockTransactionService{
			updateTransactionFn: func(_, id string, input services.TransactionInput) (*models.Transaction, error) {
				gotID = id
				gotInput = input
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "PUT", "/transactions/"+testTxID, `{"title":"Groceries","amount":200,"type":"debit"}`, testSession)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec.Body.Len() != 0 {
			t.Errorf("expected empty body, got %q", rec.Body.String())
		}
		if gotID != testTxID {
			t.Errorf("expected id %s, got %s", testTxID, gotID)
		}
		if gotInput.Type != models.TransactionTypeDebit {
			t.Errorf("expected debit, got %s", gotInput.Type)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockTransactionService{
			updateTransactionFn: func(string, string, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "PUT", "/transactions/"+testTxID, `{"title":"Groceries","amount":200,"type":"debit"}`, testSession)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})

	t.Run("returns 400 on invalid body", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{})

		rec := doRequest(r, "PUT", "/transactions/"+testTxID, `{"title":"Groceries","amount":200,"type":"refund"}`, testSession)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_FAILED")
	})

	t.Run("returns 401 without session", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{})

		rec := doRequest(r, "PUT", "/transactions/"+testTxID, `{"title":"Groceries","amount":200,"type":"debit"}`, "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 204", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{})

		rec := doRequest(r, "DELETE", "/transactions/"+testTxID, "", testSession)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockTransactionService{
			deleteTransactionFn: func(string, string) error {
				return apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(svc)

		rec := doRequest(r, "DELETE", "/transactions/"+testTxID, "", testSession)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})

	t.Run("returns 401 without session", func(t *testing.T) {
		r := setupTransactionRouter(&mockTransactionService{})

		rec := doRequest(r, "DELETE", "/transactions/"+testTxID, "", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
