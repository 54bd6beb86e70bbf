package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

// DefaultCategory is assigned to transactions that arrive without one,
// mirroring the upstream fetch query's COALESCE fallback.
const DefaultCategory = "Others"

// Transaction is a single expense record as delivered by the data-fetch
// layer: the amount is an already-normalized non-negative magnitude.
// Transactions are read-only to the analytics core.
type Transaction struct {
	ID       int64
	Category string
	Amount   float64
	Date     time.Time
}

var (
	ErrInvalidID      = errors.New("invalid transaction id")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("negative amount")
	ErrZeroDate       = errors.New("date cannot be zero")
	ErrNoTransactions = errors.New("no transactions")
)

func (t Transaction) Validate() error {
	if t.ID <= 0 {
		return ErrInvalidID
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrInvalidAmount
	}
	if t.Amount < 0 {
		return ErrNegativeAmount
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Normalize fills the category fallback. It does not touch amount or date.
func (t Transaction) Normalize() Transaction {
	if strings.TrimSpace(t.Category) == "" {
		t.Category = DefaultCategory
	}
	return t
}

// Month returns the calendar month key ("2006-01") of the transaction.
func (t Transaction) Month() string {
	return t.Date.Format("2006-01")
}

// ValidateAll checks every record and reports the first malformed one.
// Malformed input is a hard failure, not an insufficient-data outcome.
func ValidateAll(txs []Transaction) error {
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Round2 rounds a monetary figure to two decimal places. Applied only at
// the output boundary; internal computation keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
