package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/potmover/potmover/internal/model"
)

// Header is the CSV header for ledger.csv.
const Header = "tx_id,date,account,type,amount,counterparty,description"

const (
	numFields  = 7
	colID      = 0
	colDate    = 1
	colAccount = 2
	colType    = 3
	colAmount  = 4
	colCounter = 5
	colDesc    = 6
	timeLayout = time.RFC3339Nano
)

// ReadTransactions reads all rows from a ledger.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes rows to a ledger.csv writer (including header).
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = tx.ID
	row[colDate] = tx.Date.Format(timeLayout)
	row[colAccount] = string(tx.Account)
	row[colType] = string(tx.Type)
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colCounter] = string(tx.Counterparty)
	row[colDesc] = tx.Description
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(timeLayout, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.Transaction{
		ID:           record[colID],
		Date:         date,
		Account:      model.AccountID(record[colAccount]),
		Type:         model.TransactionType(record[colType]),
		Amount:       amount,
		Counterparty: model.AccountID(record[colCounter]),
		Description:  record[colDesc],
	}, nil
}
