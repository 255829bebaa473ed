// Command seedrates converts the state nexus rules Excel workbook into a SQL
// seed file. Reads the State_Rules sheet (one row per state) covering
// thresholds, combined rates, and marketplace treatment.
// Usage: go run ./cmd/seedrates
// Output: db/seeds/jurisdictions.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type stateRule struct {
	code                 string
	name                 string
	revenueThreshold     string // empty = NULL
	transactionThreshold string // empty = NULL
	operator             string
	lookbackStrategy     string
	combinedRate         float64
	marketplaceExcluded  bool
	effectiveFrom        string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "State Nexus Rules Summary.xlsx"
	outPath := "db/seeds/jurisdictions.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rules, err := parseStateSheet(f)
	if err != nil {
		return fmt.Errorf("parse state sheet: %w", err)
	}
	log.Printf("State_Rules sheet: %d states", len(rules))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	var b strings.Builder
	b.WriteString("-- Jurisdiction seed data generated from the state rules workbook.\n")
	fmt.Fprintf(&b, "-- %d states.\n", len(rules))
	b.WriteString("-- Run: make seed-rates\n")
	b.WriteString("BEGIN;\n\n")

	writeJurisdictions(&b, rules)
	writeThresholdRules(&b, rules)
	writeTaxRates(&b, rules)
	writeMarketplaceRules(&b, rules)

	b.WriteString("\nCOMMIT;\n")

	if _, err := out.WriteString(b.String()); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}

	log.Printf("Generated seed for %d states in %s", len(rules), outPath)
	return nil
}

// parseStateSheet reads the State_Rules sheet (index 0).
// Columns: A(0)=code, B(1)=name, C(2)=revenue threshold, D(3)=transaction
// threshold, E(4)=operator (OR/AND), F(5)=lookback strategy, G(6)=combined
// rate (percentage), H(7)=marketplace excluded (Y/N), I(8)=effective from.
// Data starts at row index 1.
func parseStateSheet(f *excelize.File) ([]stateRule, error) {
	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	var rules []stateRule
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 9 {
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(cellVal(row, 0)))
		if len(code) != 2 {
			continue
		}

		ratePct, err := parsePercent(cellVal(row, 6))
		if err != nil {
			log.Printf("row %d: skipping %s: %v", i+1, code, err)
			continue
		}

		rule := stateRule{
			code:                 code,
			name:                 strings.TrimSpace(cellVal(row, 1)),
			revenueThreshold:     normalizeAmount(cellVal(row, 2)),
			transactionThreshold: normalizeCount(cellVal(row, 3)),
			operator:             normalizeOperator(cellVal(row, 4)),
			lookbackStrategy:     normalizeStrategy(cellVal(row, 5)),
			combinedRate:         ratePct / 100,
			marketplaceExcluded:  strings.EqualFold(strings.TrimSpace(cellVal(row, 7)), "Y"),
			effectiveFrom:        strings.TrimSpace(cellVal(row, 8)),
		}
		if rule.revenueThreshold == "" && rule.transactionThreshold == "" {
			log.Printf("row %d: skipping %s: no thresholds", i+1, code)
			continue
		}
		if rule.effectiveFrom == "" {
			rule.effectiveFrom = "2018-06-21"
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func writeJurisdictions(b *strings.Builder, rules []stateRule) {
	b.WriteString("INSERT INTO jurisdictions (code, name) VALUES\n")
	for i := range rules {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(b, "  ('%s', '%s')", rules[i].code, escapeSQL(rules[i].name))
	}
	b.WriteString("\nON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name;\n\n")
}

func writeThresholdRules(b *strings.Builder, rules []stateRule) {
	b.WriteString("INSERT INTO threshold_rules (jurisdiction_code, revenue_threshold, transaction_threshold, operator, lookback_strategy, effective_from) VALUES\n")
	for i := range rules {
		r := &rules[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(b, "  ('%s', %s, %s, '%s', '%s', '%s')",
			r.code, nullable(r.revenueThreshold), nullable(r.transactionThreshold),
			r.operator, r.lookbackStrategy, r.effectiveFrom)
	}
	b.WriteString("\nON CONFLICT (jurisdiction_code, effective_from) DO NOTHING;\n\n")
}

func writeTaxRates(b *strings.Builder, rules []stateRule) {
	b.WriteString("INSERT INTO tax_rates (jurisdiction_code, combined_rate, effective_from) VALUES\n")
	for i := range rules {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(b, "  ('%s', %.6f, '%s')", rules[i].code, rules[i].combinedRate, rules[i].effectiveFrom)
	}
	b.WriteString("\nON CONFLICT (jurisdiction_code, effective_from) DO NOTHING;\n\n")
}

func writeMarketplaceRules(b *strings.Builder, rules []stateRule) {
	b.WriteString("INSERT INTO marketplace_rules (jurisdiction_code, exclude_from_liability) VALUES\n")
	for i := range rules {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(b, "  ('%s', %t)", rules[i].code, rules[i].marketplaceExcluded)
	}
	b.WriteString("\nON CONFLICT (jurisdiction_code) DO UPDATE SET exclude_from_liability = EXCLUDED.exclude_from_liability;\n")
}

// parsePercent accepts "6.25%", "6.25", or "0.0625" style cells and always
// returns a percentage.
func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, fmt.Errorf("empty rate")
	}
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	if rate < 1 {
		rate *= 100
	}
	return rate, nil
}

func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return ""
	}
	return s
}

func normalizeCount(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if _, err := strconv.Atoi(s); err != nil {
		return ""
	}
	return s
}

func normalizeOperator(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "AND") {
		return "and"
	}
	return "or"
}

func normalizeStrategy(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "previous_calendar_year", "previous":
		return "previous_calendar_year"
	case "rolling_12_month", "rolling":
		return "rolling_12_month"
	default:
		return "current_or_previous_calendar_year"
	}
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return s
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
