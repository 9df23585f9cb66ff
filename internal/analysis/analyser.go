// Package analysis computes relative balances over an in-memory transaction set.
package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txanalyser/internal/model"
)

// Result is the outcome of one balance query.
type Result struct {
	RelativeBalance decimal.Decimal
	Transactions    []model.Transaction // contributing payments, in load order
}

// Analyser answers balance queries against a fixed transaction set. It never
// mutates the set, so one Analyser may serve concurrent queries.
type Analyser struct {
	payments  []model.Transaction
	reversals int
	reversed  map[string]struct{} // payment IDs named by any reversal
}

// NewAnalyser creates an Analyser over txns. The slice must not be modified
// afterwards.
func NewAnalyser(txns []model.Transaction) *Analyser {
	a := &Analyser{reversed: make(map[string]struct{})}
	for _, txn := range txns {
		switch txn.Kind {
		case model.KindPayment:
			a.payments = append(a.payments, txn)
		case model.KindReversal:
			a.reversals++
			a.reversed[txn.RelatedID] = struct{}{}
		}
	}
	return a
}

// Analyse returns the net movement for accountID from payments created in
// [from, to] that have not been reversed. Reversal is matched by payment ID
// across the whole set, regardless of the reversal's accounts or of when
// either record was created. from > to yields an empty result.
func (a *Analyser) Analyse(accountID string, from, to time.Time) Result {
	inRange := a.paymentsInRange(accountID, from, to)
	return Result{
		RelativeBalance: relativeBalance(inRange, accountID),
		Transactions:    inRange,
	}
}

// Reversed reports whether a reversal in the set references paymentID.
func (a *Analyser) Reversed(paymentID string) bool {
	_, ok := a.reversed[paymentID]
	return ok
}

// Counts returns the number of payments and reversals in the set.
func (a *Analyser) Counts() (payments, reversals int) {
	return len(a.payments), a.reversals
}

func (a *Analyser) paymentsInRange(accountID string, from, to time.Time) []model.Transaction {
	inRange := []model.Transaction{}
	for _, p := range a.payments {
		if !p.Involves(accountID) || !p.Within(from, to) || a.Reversed(p.ID) {
			continue
		}
		inRange = append(inRange, p)
	}
	return inRange
}

// relativeBalance subtracts outgoing and adds incoming amounts. A self-transfer
// gets both adjustments and nets to zero.
func relativeBalance(txns []model.Transaction, accountID string) decimal.Decimal {
	balance := decimal.Zero
	for _, txn := range txns {
		if txn.FromAccount == accountID {
			balance = balance.Sub(txn.Amount)
		}
		if txn.ToAccount == accountID {
			balance = balance.Add(txn.Amount)
		}
	}
	return balance
}
