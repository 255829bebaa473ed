package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"saltscope/internal/domain"
)

// RowError describes a data row that could not be imported. Row numbers are
// 1-based and count the header.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result is the outcome of parsing one uploaded sales export. Bad rows are
// skipped and reported; they never abort the import.
type Result struct {
	Transactions []domain.Transaction `json:"-"`
	Skipped      []RowError           `json:"skipped,omitempty"`
}

// Column aliases accepted in uploaded files, keyed by canonical name. Headers
// are normalized (lowercased, spaces and dashes to underscores) before lookup.
var headerAliases = map[string]string{
	"date":              "date",
	"txn_date":          "date",
	"transaction_date":  "date",
	"invoice_date":      "date",
	"jurisdiction":      "jurisdiction",
	"jurisdiction_code": "jurisdiction",
	"state":             "jurisdiction",
	"state_code":        "jurisdiction",
	"amount":            "amount",
	"gross":             "amount",
	"gross_amount":      "amount",
	"sale_amount":       "amount",
	"total":             "amount",
	"channel":           "channel",
	"sales_channel":     "channel",
	"exempt":            "exempt",
	"exempt_amount":     "exempt",
	"taxable":           "taxable",
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"2006-01-02T15:04:05Z07:00",
}

// ParseFile parses an uploaded sales export into transactions for the given
// analysis. maxRows bounds the number of data rows; zero means no limit.
func ParseFile(r io.Reader, fileType domain.FileType, analysisID uuid.UUID, maxRows int) (*Result, error) {
	var rows [][]string
	var err error
	switch fileType {
	case domain.FileTypeCSV:
		rows, err = readCSV(r)
	case domain.FileTypeXLSX:
		rows, err = readXLSX(r)
	default:
		return nil, domain.ErrUnsupportedFileType
	}
	if err != nil {
		return nil, err
	}
	return buildTransactions(rows, analysisID, maxRows)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest.readCSV: %w", err)
	}
	return rows, nil
}

// readXLSX reads the first sheet of the workbook.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest.readXLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("ingest.readXLSX: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("ingest.readXLSX rows: %w", err)
	}
	return rows, nil
}

func buildTransactions(rows [][]string, analysisID uuid.UUID, maxRows int) (*Result, error) {
	if len(rows) < 2 {
		return nil, domain.ErrNoTransactions
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}
	dataRows := rows[1:]
	if maxRows > 0 && len(dataRows) > maxRows {
		return nil, fmt.Errorf("ingest: file has %d data rows, limit is %d", len(dataRows), maxRows)
	}

	result := &Result{}
	seq := 0
	for i, row := range dataRows {
		rowNum := i + 2
		if isBlank(row) {
			continue
		}
		txn, rerr := parseRow(row, cols)
		if rerr != "" {
			result.Skipped = append(result.Skipped, RowError{Row: rowNum, Message: rerr})
			continue
		}
		seq++
		txn.ID = uuid.New()
		txn.AnalysisID = analysisID
		txn.Seq = seq
		result.Transactions = append(result.Transactions, txn)
	}

	if len(result.Transactions) == 0 {
		return nil, domain.ErrNoTransactions
	}
	return result, nil
}

// mapHeader resolves column positions by canonical name. Date, jurisdiction,
// and amount are required; the rest are optional.
func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int)
	for i, raw := range header {
		if canonical, ok := headerAliases[normalizeHeader(raw)]; ok {
			if _, taken := cols[canonical]; !taken {
				cols[canonical] = i
			}
		}
	}
	for _, required := range []string{"date", "jurisdiction", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("ingest: missing required column %q", required)
		}
	}
	return cols, nil
}

func normalizeHeader(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

func parseRow(row []string, cols map[string]int) (domain.Transaction, string) {
	var txn domain.Transaction

	date, err := parseDate(cell(row, cols["date"]))
	if err != nil {
		return txn, fmt.Sprintf("invalid date %q", cell(row, cols["date"]))
	}
	txn.Date = date

	code := strings.ToUpper(strings.TrimSpace(cell(row, cols["jurisdiction"])))
	if code == "" {
		return txn, "missing jurisdiction"
	}
	txn.JurisdictionCode = code

	gross, err := parseAmount(cell(row, cols["amount"]))
	if err != nil {
		return txn, fmt.Sprintf("invalid amount %q", cell(row, cols["amount"]))
	}
	txn.GrossAmount = gross

	txn.Channel = parseChannel(cellOpt(row, cols, "channel"))

	if raw := cellOpt(row, cols, "exempt"); raw != "" {
		exempt, err := parseAmount(raw)
		if err != nil {
			return txn, fmt.Sprintf("invalid exempt amount %q", raw)
		}
		txn.ExemptAmount = &exempt
	}
	if raw := cellOpt(row, cols, "taxable"); raw != "" {
		taxable, ok := parseBool(raw)
		if !ok {
			return txn, fmt.Sprintf("invalid taxable flag %q", raw)
		}
		txn.Taxable = &taxable
	}
	return txn, ""
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellOpt(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok {
		return ""
	}
	return cell(row, idx)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty")
	}
	return decimal.NewFromString(s)
}

// parseChannel maps free-form channel values; anything unrecognized and
// non-empty is "other", a blank cell defaults to direct.
func parseChannel(raw string) domain.Channel {
	switch strings.ToLower(raw) {
	case "", "direct", "website", "web":
		return domain.ChannelDirect
	case "marketplace", "amazon", "ebay", "etsy", "walmart":
		return domain.ChannelMarketplace
	default:
		return domain.ChannelOther
	}
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "yes", "y", "1":
		return true, true
	case "false", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
