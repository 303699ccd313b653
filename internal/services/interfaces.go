package services

import (
	"context"

	"github.com/shopspring/decimal"

	"ledger/internal/models"
)

// TransactionInput carries the client-supplied fields shared by create and update.
type TransactionInput struct {
	Title  string
	Amount decimal.Decimal
	Type   models.TransactionType
}

// TransactionServicer defines the contract for session-scoped ledger operations.
// Every method only ever sees rows belonging to sessionID.
type TransactionServicer interface {
	ListTransactions(ctx context.Context, sessionID string) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, sessionID, transactionID string) (*models.Transaction, error)
	GetSummary(ctx context.Context, sessionID string) (*models.Summary, error)
	CreateTransaction(ctx context.Context, sessionID string, input TransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, sessionID, transactionID string, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, sessionID, transactionID string) error
}
