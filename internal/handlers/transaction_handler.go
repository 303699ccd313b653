package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledger/internal/middleware"
	"ledger/internal/models"
	"ledger/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	session            middleware.SessionConfig
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, session middleware.SessionConfig) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, session: session}
}

// TransactionRequest is the body of create and update requests.
type TransactionRequest struct {
	Title  string                 `json:"title" binding:"required,max=255" example:"Salary"`
	Amount models.Amount          `json:"amount" binding:"gt=0,lt=100000000,decimal_places=2" swaggertype:"number" minimum:"0.01" maximum:"99999999.99" example:"1000"`
	Type   models.TransactionType `json:"type" binding:"required,transaction_type" enums:"credit,debit" example:"credit"`
}

func (r TransactionRequest) input() services.TransactionInput {
	return services.TransactionInput{Title: r.Title, Amount: r.Amount.Decimal, Type: r.Type}
}

// TransactionURI holds the :id path parameter.
type TransactionURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// TransactionListResponse wraps the session's transactions.
type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

// TransactionResponse wraps a single transaction.
type TransactionResponse struct {
	Transaction models.Transaction `json:"transaction"`
}

// SummaryResponse wraps the session's balance.
type SummaryResponse struct {
	Summary models.Summary `json:"summary"`
}

// ListTransactions returns every transaction of the current session
// @Summary     List transactions
// @Description Get all transactions for the current session
// @Tags        transactions
// @Produce     json
// @Security    SessionCookie
// @Success     200 {object} TransactionListResponse "Transactions"
// @Failure     401 {object} ErrorResponse "Missing or invalid session"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.ListTransactions(c.Request.Context(), sessionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{Transactions: transactions})
}

// GetTransaction returns one transaction of the current session
// @Summary     Get transaction by ID
// @Description Get a specific transaction by its ID
// @Tags        transactions
// @Produce     json
// @Security    SessionCookie
// @Param       id path string true "Transaction ID (UUID)"
// @Success     200 {object} TransactionResponse "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Missing or invalid session"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var uri TransactionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), sessionID, uri.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Transaction: *transaction})
}

// GetSummary returns the balance of the current session
// @Summary     Get summary
// @Description Get the summary of all transactions for the current session
// @Tags        transactions
// @Produce     json
// @Security    SessionCookie
// @Success     200 {object} SummaryResponse "Sum of signed amounts, 0 when empty"
// @Failure     401 {object} ErrorResponse "Missing or invalid session"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetSummary(c.Request.Context(), sessionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Summary: *summary})
}

// CreateTransaction records a new transaction, starting a session if needed
// @Summary     Create a transaction
// @Description Create a new transaction. Issues a sessionId cookie when the request carries none.
// @Tags        transactions
// @Accept      json
// @Security    SessionCookie
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 "Transaction created successfully"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	sessionID := middleware.EnsureSession(c, h.session)

	if _, err := h.transactionService.CreateTransaction(c.Request.Context(), sessionID, req.input()); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// UpdateTransaction overwrites a transaction of the current session
// @Summary     Update transaction
// @Description Update a specific transaction by its ID. The amount is re-signed from the given type.
// @Tags        transactions
// @Accept      json
// @Security    SessionCookie
// @Param       id      path string             true "Transaction ID (UUID)"
// @Param       request body TransactionRequest true "New transaction details"
// @Success     201 "Transaction updated successfully"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Missing or invalid session"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var uri TransactionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if _, err := h.transactionService.UpdateTransaction(c.Request.Context(), sessionID, uri.ID, req.input()); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// DeleteTransaction removes a transaction of the current session
// @Summary     Delete transaction
// @Description Delete a specific transaction by its ID
// @Tags        transactions
// @Security    SessionCookie
// @Param       id path string true "Transaction ID (UUID)"
// @Success     204 "Transaction deleted successfully"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Missing or invalid session"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var uri TransactionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), sessionID, uri.ID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error  string              `json:"error" example:"Transaction not found"`
	Code   string              `json:"code" example:"TRANSACTION_NOT_FOUND"`
	Fields []FieldErrorPayload `json:"fields,omitempty"`
}

// FieldErrorPayload describes one invalid request field.
type FieldErrorPayload struct {
	Field   string `json:"field" example:"amount"`
	Rule    string `json:"rule" example:"gt"`
	Message string `json:"message" example:"must be greater than 0"`
}
