package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack/internal/core"
)

// csvHeader is the fixed column order of transaction CSV files.
var csvHeader = []string{"Date", "Description", "Category", "Amount", "Type"}

var ErrBadCSVHeader = errors.New("unexpected csv header")

// CSVFilename returns the download name for an export generated at t,
// e.g. "transactions_20240131.csv".
func CSVFilename(t time.Time) string {
	return "transactions_" + t.Format("20060102") + ".csv"
}

// ToCSVRows converts transactions to CSV field rows, header excluded.
// Field values are raw; quoting is the writer's job.
func ToCSVRows(txs []core.Transaction) [][]string {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			tx.Date.String(),
			tx.Description,
			tx.Category,
			tx.Amount.String(),
			string(tx.Type),
		})
	}
	return rows
}

// WriteCSV writes the header and one row per transaction. Fields
// containing commas, quotes or newlines come out double-quote escaped.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range ToCSVRows(txs) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ParseCSV reads transactions back from a CSV export. The header must
// match exactly; each data row must carry a valid date, amount and type.
// Parsed transactions have no ID; the caller assigns one on insert.
func ParseCSV(r io.Reader) ([]core.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("%w: got %q", ErrBadCSVHeader, strings.Join(header, ","))
		}
	}

	var txs []core.Transaction
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		date, err := core.ParseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		amount, err := core.ParseAmount(record[3])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		tx := core.Transaction{
			Date:        date,
			Description: record[1],
			Category:    record[2],
			Amount:      amount,
			Type:        core.TransactionType(strings.ToLower(strings.TrimSpace(record[4]))),
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
