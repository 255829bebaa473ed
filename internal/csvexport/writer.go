package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"saltscope/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (18 columns).
var columns = []string{
	"Jurisdiction",
	"Year",
	"Nexus Type",
	"Nexus Date",
	"Obligation Start",
	"First Nexus Year",
	"Gross Sales",
	"Exempt Sales",
	"Taxable Sales",
	"Exposure Sales",
	"Direct Sales",
	"Marketplace Sales",
	"Transaction Count",
	"Base Tax",
	"Interest",
	"Penalties",
	"Estimated Liability",
	"Calculation Errors",
}

// Writer wraps csv.Writer for exporting analysis results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResults converts a batch of year results to CSV rows and writes them.
func (w *Writer) WriteResults(results []domain.YearResult) error {
	for i := range results {
		row := resultToRow(&results[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func resultToRow(r *domain.YearResult) []string {
	row := make([]string, len(columns))

	row[0] = r.JurisdictionCode
	row[1] = strconv.Itoa(r.Year)
	row[2] = string(r.NexusType)
	row[3] = formatDate(r.NexusDate)
	row[4] = formatDate(r.ObligationStart)
	if r.FirstNexusYear != nil {
		row[5] = strconv.Itoa(*r.FirstNexusYear)
	}
	row[6] = r.GrossSales.StringFixed(2)
	row[7] = r.ExemptSales.StringFixed(2)
	row[8] = r.TaxableSales.StringFixed(2)
	row[9] = r.ExposureSales.StringFixed(2)
	row[10] = r.DirectSales.StringFixed(2)
	row[11] = r.MarketplaceSales.StringFixed(2)
	row[12] = strconv.Itoa(r.TransactionCount)
	row[13] = r.BaseTax.StringFixed(2)
	row[14] = r.Interest.StringFixed(2)
	row[15] = r.PenaltyBreakdown.Total().StringFixed(2)
	row[16] = r.EstimatedLiability.StringFixed(2)
	row[17] = strings.Join(r.CalculationErrors, "; ")

	return row
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an analysis name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_analysis_name}_{YYYY-MM-DD}.csv
func BuildFilename(analysisName string) string {
	sanitized := SanitizeFilename(analysisName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
