package nexus

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"saltscope/internal/domain"
)

// Crossing captures the exact transaction at which a threshold was first
// exceeded, with the running totals at that point for diagnostics.
type Crossing struct {
	TransactionID uuid.UUID
	Date          time.Time
	Revenue       decimal.Decimal
	Count         int
}

// FindCrossing walks transactions in order, accumulating gross revenue and
// transaction count, and returns the first point at which the rule's combined
// condition holds. Threshold tests always use gross sales: jurisdictions
// measure gross revenue for economic nexus, not the taxable subset.
//
// Transactions must already be sorted ascending by date with ingestion order
// breaking ties, so repeated runs find the same crossing.
func FindCrossing(txns []domain.Transaction, rule *domain.ThresholdRule) (Crossing, bool) {
	if rule == nil || (rule.RevenueThreshold == nil && rule.TransactionThreshold == nil) {
		return Crossing{}, false
	}

	revenue := decimal.Zero
	count := 0
	for i := range txns {
		t := &txns[i]
		revenue = revenue.Add(t.GrossAmount)
		count++

		revenueMet := rule.RevenueThreshold != nil && revenue.GreaterThanOrEqual(*rule.RevenueThreshold)
		countMet := rule.TransactionThreshold != nil && count >= *rule.TransactionThreshold

		var met bool
		switch {
		case rule.RevenueThreshold == nil:
			met = countMet
		case rule.TransactionThreshold == nil:
			met = revenueMet
		case rule.Operator == domain.OperatorAnd:
			met = revenueMet && countMet
		default:
			met = revenueMet || countMet
		}

		if met {
			return Crossing{
				TransactionID: t.ID,
				Date:          t.Date,
				Revenue:       revenue,
				Count:         count,
			}, true
		}
	}
	return Crossing{}, false
}

// windowTxns returns the transactions dated within [from, to). The input is
// sorted, so the result is a contiguous subslice.
func windowTxns(txns []domain.Transaction, from, to time.Time) []domain.Transaction {
	lo := len(txns)
	for i := range txns {
		if !txns[i].Date.Before(from) {
			lo = i
			break
		}
	}
	hi := len(txns)
	for i := lo; i < len(txns); i++ {
		if !txns[i].Date.Before(to) {
			hi = i
			break
		}
	}
	return txns[lo:hi]
}
