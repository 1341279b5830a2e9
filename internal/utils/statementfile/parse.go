// Package statementfile parses bank statement exports (CSV and XLSX) into
// rows ready for import. Header names are matched case-insensitively so the
// common export layouts of different banks work without configuration.
package statementfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Row is one parsed statement transaction.
type Row struct {
	TransactionDate time.Time
	ValueDate       *time.Time
	Description     string
	Reference       string
	Debit           decimal.Decimal
	Credit          decimal.Decimal
	Balance         decimal.Decimal
}

var (
	ErrNoHeader     = errors.New("statement file has no header row")
	ErrMissingColumns = errors.New("statement file is missing required columns")
)

// dateLayouts are tried in order when parsing date cells.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"01/02/2006 15:04:05", // XLSX default serial rendering
	"2 Jan 2006",
}

type columnIndex struct {
	date        int
	valueDate   int
	description int
	reference   int
	debit       int
	credit      int
	balance     int
}

func resolveColumns(header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, valueDate: -1, description: -1, reference: -1, debit: -1, credit: -1, balance: -1}
	for i, name := range header {
		switch normalizeHeader(name) {
		case "date", "transactiondate", "txndate", "postingdate":
			idx.date = i
		case "valuedate":
			idx.valueDate = i
		case "description", "narration", "details", "particulars":
			idx.description = i
		case "reference", "ref", "refno", "chequeno", "chequenumber":
			idx.reference = i
		case "debit", "debitamount", "withdrawal", "withdrawals", "paidout":
			idx.debit = i
		case "credit", "creditamount", "deposit", "deposits", "paidin":
			idx.credit = i
		case "balance", "runningbalance", "closingbalance":
			idx.balance = i
		}
	}
	if idx.date < 0 || idx.description < 0 || idx.debit < 0 || idx.credit < 0 {
		return idx, fmt.Errorf("%w: need date, description, debit and credit", ErrMissingColumns)
	}
	return idx, nil
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(s)
	return s
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	// Bank exports sometimes parenthesize negatives
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	return decimal.NewFromString(s)
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// parseRecords converts raw records (header first) into rows. Rows with no
// date or with both debit and credit empty are skipped and counted.
func parseRecords(records [][]string) ([]Row, int, error) {
	if len(records) == 0 {
		return nil, 0, ErrNoHeader
	}
	idx, err := resolveColumns(records[0])
	if err != nil {
		return nil, 0, err
	}

	rows := make([]Row, 0, len(records)-1)
	skipped := 0
	for n, record := range records[1:] {
		if isBlank(record) {
			skipped++
			continue
		}
		date, err := parseDate(cell(record, idx.date))
		if err != nil {
			skipped++
			continue
		}
		debit, err := parseAmount(cell(record, idx.debit))
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: bad debit amount: %w", n+2, err)
		}
		credit, err := parseAmount(cell(record, idx.credit))
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: bad credit amount: %w", n+2, err)
		}
		if debit.IsZero() && credit.IsZero() {
			skipped++
			continue
		}
		if debit.IsNegative() || credit.IsNegative() {
			return nil, 0, fmt.Errorf("row %d: amounts must be non-negative", n+2)
		}
		if debit.IsPositive() && credit.IsPositive() {
			return nil, 0, fmt.Errorf("row %d: row has both debit and credit", n+2)
		}

		balance := decimal.Zero
		if idx.balance >= 0 {
			if balance, err = parseAmount(cell(record, idx.balance)); err != nil {
				return nil, 0, fmt.Errorf("row %d: bad balance: %w", n+2, err)
			}
		}

		row := Row{
			TransactionDate: date,
			Description:     strings.TrimSpace(cell(record, idx.description)),
			Reference:       strings.TrimSpace(cell(record, idx.reference)),
			Debit:           debit,
			Credit:          credit,
			Balance:         balance,
		}
		if idx.valueDate >= 0 {
			if vd, err := parseDate(cell(record, idx.valueDate)); err == nil {
				row.ValueDate = &vd
			}
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseCSV parses a CSV statement export.
func ParseCSV(r io.Reader) ([]Row, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Tolerate ragged exports
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV: %w", err)
	}
	return parseRecords(records)
}

// ParseXLSX parses the first sheet of an XLSX statement export.
func ParseXLSX(r io.Reader) ([]Row, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, ErrNoHeader
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return parseRecords(records)
}
