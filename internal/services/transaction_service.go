package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/uuid"
)

const maxTitleLength = 255

// transactionService handles session-scoped transaction logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// validateInput mirrors the HTTP binding rules so the service rejects bad
// input before touching the store even when called directly. Amounts must fit
// the decimal(10,2) column exactly.
func validateInput(input TransactionInput) error {
	var fields []apperrors.FieldError
	if strings.TrimSpace(input.Title) == "" {
		fields = append(fields, apperrors.FieldError{Field: "title", Rule: "required", Message: "is required"})
	} else if utf8.RuneCountInString(input.Title) > maxTitleLength {
		fields = append(fields, apperrors.FieldError{Field: "title", Rule: "max", Message: "must be at most 255 characters"})
	}
	switch {
	case !input.Amount.IsPositive():
		fields = append(fields, apperrors.FieldError{Field: "amount", Rule: "gt", Message: "must be greater than 0"})
	case !input.Amount.LessThan(models.MaxAmount):
		fields = append(fields, apperrors.FieldError{Field: "amount", Rule: "lt", Message: "must be less than " + models.MaxAmount.String()})
	case !input.Amount.Equal(input.Amount.Round(models.AmountScale)):
		fields = append(fields, apperrors.FieldError{Field: "amount", Rule: "decimal_places", Message: "must have at most 2 decimal places"})
	}
	if !input.Type.IsValid() {
		fields = append(fields, apperrors.FieldError{Field: "type", Rule: "transaction_type", Message: "must be credit or debit"})
	}
	if len(fields) > 0 {
		return apperrors.WithFields(apperrors.ErrValidation, fields)
	}
	return nil
}

func validateSession(sessionID string) error {
	if !uuid.IsValid(sessionID) {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// ListTransactions returns every transaction of the session in store order.
func (s *transactionService) ListTransactions(ctx context.Context, sessionID string) ([]models.Transaction, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}

	transactions := []models.Transaction{}
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetTransaction retrieves a transaction by ID within the session. An ID that
// exists under another session is reported exactly like a missing one.
func (s *transactionService) GetTransaction(ctx context.Context, sessionID, transactionID string) (*models.Transaction, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if !uuid.IsValid(transactionID) {
		return nil, apperrors.ErrTransactionNotFound
	}

	return findTransaction(s.db.WithContext(ctx), sessionID, transactionID)
}

func findTransaction(db *gorm.DB, sessionID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := db.Where("id = ? AND session_id = ?", transactionID, sessionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetSummary sums the signed amounts of the session. No rows sum to zero.
func (s *transactionService) GetSummary(ctx context.Context, sessionID string) (*models.Summary, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}

	var total decimal.NullDecimal
	row := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("session_id = ?", sessionID).
		Row()
	if err := row.Scan(&total); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// SQLite sums in floating point; stored amounts never exceed the column scale.
	summary := &models.Summary{Amount: decimal.Zero}
	if total.Valid {
		summary.Amount = total.Decimal.Round(models.AmountScale)
	}
	return summary, nil
}

// CreateTransaction stores a new transaction with its amount signed by type.
func (s *transactionService) CreateTransaction(ctx context.Context, sessionID string, input TransactionInput) (*models.Transaction, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		Title:     input.Title,
		Amount:    input.Type.SignedAmount(input.Amount),
		SessionID: sessionID,
	}
	if err := s.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// UpdateTransaction overwrites the title and re-signed amount of an existing
// transaction. The existence check and the write share one database
// transaction; a row that vanished in between is reported as not found.
func (s *transactionService) UpdateTransaction(ctx context.Context, sessionID, transactionID string, input TransactionInput) (*models.Transaction, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !uuid.IsValid(transactionID) {
		return nil, apperrors.ErrTransactionNotFound
	}

	var updated *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transaction, err := findTransaction(tx, sessionID, transactionID)
		if err != nil {
			return err
		}

		signed := input.Type.SignedAmount(input.Amount)
		result := tx.Model(&models.Transaction{}).
			Where("id = ? AND session_id = ?", transactionID, sessionID).
			Updates(map[string]interface{}{
				"title":  input.Title,
				"amount": signed,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrTransactionNotFound
		}

		transaction.Title = input.Title
		transaction.Amount = signed
		updated = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction removes a transaction of the session. Deleting the same
// ID twice reports not found the second time.
func (s *transactionService) DeleteTransaction(ctx context.Context, sessionID, transactionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	if !uuid.IsValid(transactionID) {
		return apperrors.ErrTransactionNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findTransaction(tx, sessionID, transactionID); err != nil {
			return err
		}

		result := tx.Where("id = ? AND session_id = ?", transactionID, sessionID).
			Delete(&models.Transaction{})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrTransactionNotFound
		}
		return nil
	})
}
