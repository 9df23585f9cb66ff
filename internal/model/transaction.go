package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the fixed dd/MM/yyyy HH:mm:ss format used for createdAt
// values and for query bounds. Timestamps carry no zone and are parsed as UTC.
const TimestampLayout = "02/01/2006 15:04:05"

// Kind classifies a ledger transaction.
type Kind string

const (
	KindPayment  Kind = "PAYMENT"
	KindReversal Kind = "REVERSAL"
)

// ParseKind maps the exact, case-sensitive CSV value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPayment, KindReversal:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// ParseTimestamp parses a value in TimestampLayout. time.Parse tolerates
// fractional seconds the layout does not name, so the length is checked too.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if len(s) != len(TimestampLayout) {
		return time.Time{}, errors.New("unexpected text after seconds")
	}
	return t, nil
}

// Transaction represents a row in transactions.csv. Moves Amount from
// FromAccount to ToAccount. Values are never mutated after load; a reversal is
// a separate Transaction pointing at the payment it cancels.
type Transaction struct {
	ID          string
	FromAccount string
	ToAccount   string
	CreatedAt   time.Time
	Amount      decimal.Decimal
	Kind        Kind
	RelatedID   string // empty unless Kind == KindReversal
}

// Involves reports whether accountID is on either side of the transaction.
func (t Transaction) Involves(accountID string) bool {
	return t.FromAccount == accountID || t.ToAccount == accountID
}

// Within reports whether CreatedAt lies in the closed interval [from, to].
func (t Transaction) Within(from, to time.Time) bool {
	return !t.CreatedAt.Before(from) && !t.CreatedAt.After(to)
}
