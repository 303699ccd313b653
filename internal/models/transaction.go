package models

import (
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Amounts are stored as decimal(10,2).
const AmountScale = 2

// MaxAmount is the exclusive upper bound of an absolute amount.
var MaxAmount = decimal.New(1, 8)

// Amount is a client-supplied decimal that must arrive as a bare JSON number.
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON rejects strings, booleans, objects and arrays.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] != '-' && (data[0] < '0' || data[0] > '9') && string(data) != "null" {
		value := "string"
		if data[0] != '"' {
			value = "non-number"
		}
		return &json.UnmarshalTypeError{Value: value, Type: reflect.TypeOf(float64(0))}
	}
	return a.Decimal.UnmarshalJSON(data)
}

// TransactionType is the direction of a transaction as supplied by the client.
// It is never persisted; only its effect on the sign of Amount is stored.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// IsValid reports whether t is credit or debit.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// SignedAmount returns amount for credits and -amount for debits.
func (t TransactionType) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeCredit {
		return amount
	}
	return amount.Neg()
}

// Transaction is a ledger entry owned by an anonymous session.
// A positive Amount is money in, a negative Amount money out.
type Transaction struct {
	Base
	Title     string          `gorm:"type:text;not null" json:"title"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	SessionID string          `gorm:"type:char(36);not null;index" json:"session_id"`
}

// Summary is the aggregate of a session's signed amounts.
type Summary struct {
	Amount decimal.Decimal `json:"amount"`
}
