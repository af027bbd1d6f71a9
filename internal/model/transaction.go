// Package model defines the core domain types shared by all engines.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// TransactionRecord is an immutable snapshot of a single financial
// transaction. Records are owned by the transaction store; the engines only
// ever read them.
//
// Sign convention follows the source statements: positive amounts are
// expenses, negative amounts are income.
type TransactionRecord struct {
	Date     time.Time
	ID       string
	Category string
	Note     string
	Amount   float64
}

// Hash creates a stable hash for duplicate detection on import.
func (t *TransactionRecord) Hash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Category,
		t.Note)
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)
}

// IsIncome reports whether the record represents income.
func (t *TransactionRecord) IsIncome() bool {
	return t.Amount < 0
}
