package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"ledger/internal/models"
	"ledger/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewSessionID returns a fresh session token.
func NewSessionID() string {
	return uuid.New()
}

// CreateTestTransaction inserts a transaction with the given signed amount
// directly, bypassing the service.
func CreateTestTransaction(t *testing.T, db *gorm.DB, sessionID string, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Title:     fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:    decimal.NewFromInt(amount),
		SessionID: sessionID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
