package nexus

import (
	"time"

	"github.com/shopspring/decimal"

	"saltscope/internal/domain"
)

// rollingStrategy buckets sales by calendar month and tests the trailing
// twelve-month sum and count at each month. The first month whose trailing
// window crosses establishes nexus on the date of that month's first
// transaction, and nexus is sticky for every later year.
type rollingStrategy struct{}

func (rollingStrategy) Name() string { return domain.StrategyRollingTwelveMonth }

type monthBucket struct {
	month    time.Time
	revenue  decimal.Decimal
	count    int
	firstTxn time.Time
}

func (rollingStrategy) Evaluate(txns []domain.Transaction, year int, rule *domain.ThresholdRule) Determination {
	crossing, ok := findRollingCrossing(txns, rule)
	if !ok || crossing.Date.Year() > year {
		return Determination{}
	}
	return trailingWindowDetermination(crossing, year)
}

// findRollingCrossing scans month buckets chronologically and returns the
// crossing for the first month whose trailing 12-month window satisfies the
// rule. The reported date is the first transaction of that month.
func findRollingCrossing(txns []domain.Transaction, rule *domain.ThresholdRule) (Crossing, bool) {
	if len(txns) == 0 || rule == nil {
		return Crossing{}, false
	}
	if rule.RevenueThreshold == nil && rule.TransactionThreshold == nil {
		return Crossing{}, false
	}

	buckets := bucketByMonth(txns)
	for i := range buckets {
		b := &buckets[i]
		windowStart := b.month.AddDate(0, -11, 0)

		revenue := decimal.Zero
		count := 0
		for j := i; j >= 0 && !buckets[j].month.Before(windowStart); j-- {
			revenue = revenue.Add(buckets[j].revenue)
			count += buckets[j].count
		}

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
			return Crossing{Date: b.firstTxn, Revenue: revenue, Count: count}, true
		}
	}
	return Crossing{}, false
}

// bucketByMonth folds sorted transactions into per-month revenue/count
// buckets, keeping months in chronological order.
func bucketByMonth(txns []domain.Transaction) []monthBucket {
	var buckets []monthBucket
	for i := range txns {
		t := &txns[i]
		key := monthKey(t.Date)
		if n := len(buckets); n > 0 && buckets[n-1].month.Equal(key) {
			buckets[n-1].revenue = buckets[n-1].revenue.Add(t.GrossAmount)
			buckets[n-1].count++
			continue
		}
		buckets = append(buckets, monthBucket{
			month:    key,
			revenue:  t.GrossAmount,
			count:    1,
			firstTxn: t.Date,
		})
	}
	return buckets
}
