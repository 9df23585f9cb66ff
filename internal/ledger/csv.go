package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txanalyser/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "transactionId,fromAccountId,toAccountId,createdAt,amount,transactionType,relatedTransaction"

const (
	numPaymentFields  = 6
	numReversalFields = 7
	colID             = 0
	colFrom           = 1
	colTo             = 2
	colCreatedAt      = 3
	colAmount         = 4
	colType           = 5
	colRelated        = 6
)

var fieldNames = [numReversalFields]string{
	"transactionId", "fromAccountId", "toAccountId", "createdAt", "amount", "transactionType", "relatedTransaction",
}

// ReadTransactions reads every transaction from a transactions.csv reader,
// preserving row order. The first row is always discarded as a header. Any
// row that fails to decode, including a blank line between rows, aborts the
// whole read with a *FormatError.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // 6 or 7, checked per row

	txns := []model.Transaction{}
	nextLine := 0
	for header := true; ; header = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return txns, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &FormatError{Row: perr.Line, Err: perr.Err}
			}
			return nil, fmt.Errorf("%w: reading transactions CSV: %w", ErrSource, err)
		}

		// encoding/csv skips empty lines; a gap in line numbers is one.
		line, _ := cr.FieldPos(0)
		if !header && line != nextLine {
			return nil, &FormatError{Row: nextLine, Err: errors.New("empty row")}
		}
		nextLine = lastLine(cr, rec) + 1
		if header {
			continue
		}

		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			var ferr *FormatError
			if errors.As(err, &ferr) {
				ferr.Row = line
				return nil, ferr
			}
			return nil, &FormatError{Row: line, Err: err}
		}
		txns = append(txns, txn)
	}
}

// lastLine returns the line on which the current record ends, allowing for
// newlines inside a quoted final field.
func lastLine(cr *csv.Reader, rec []string) int {
	last := len(rec) - 1
	line, _ := cr.FieldPos(last)
	return line + strings.Count(rec[last], "\n")
}

// UnmarshalTransaction converts a CSV row to a Transaction. Fields are trimmed
// before interpretation. A payment may carry an empty trailing
// relatedTransaction column. Errors are *FormatError with Row unset.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numPaymentFields && len(record) != numReversalFields {
		return model.Transaction{}, &FormatError{
			Err: fmt.Errorf("expected %d or %d fields, got %d", numPaymentFields, numReversalFields, len(record)),
		}
	}

	fields := make([]string, len(record))
	for i, f := range record {
		fields[i] = strings.TrimSpace(f)
	}

	createdAt, err := model.ParseTimestamp(fields[colCreatedAt])
	if err != nil {
		return model.Transaction{}, fieldError(colCreatedAt, fields, err)
	}

	amount, err := decimal.NewFromString(fields[colAmount])
	if err != nil {
		return model.Transaction{}, fieldError(colAmount, fields, err)
	}

	kind, err := model.ParseKind(fields[colType])
	if err != nil {
		return model.Transaction{}, fieldError(colType, fields, err)
	}

	var related string
	switch {
	case kind == model.KindPayment && len(fields) == numReversalFields && fields[colRelated] != "":
		return model.Transaction{}, fieldError(colRelated, fields, errors.New("payment must not reference a related transaction"))
	case kind == model.KindReversal && len(fields) != numReversalFields:
		return model.Transaction{}, fieldError(colType, fields, errors.New("reversal requires a related transaction"))
	case kind == model.KindReversal:
		related = fields[colRelated]
		if related == "" {
			return model.Transaction{}, fieldError(colRelated, fields, errors.New("reversal requires a related transaction"))
		}
	}

	return model.Transaction{
		ID:          fields[colID],
		FromAccount: fields[colFrom],
		ToAccount:   fields[colTo],
		CreatedAt:   createdAt,
		Amount:      amount,
		Kind:        kind,
		RelatedID:   related,
	}, nil
}

func fieldError(col int, fields []string, err error) *FormatError {
	return &FormatError{Field: fieldNames[col], Value: fields[col], Err: err}
}
