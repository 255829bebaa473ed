package nexus

import (
	"time"

	"saltscope/internal/domain"
)

// quarterlyStrategy evaluates, for each calendar quarter of the year under
// test, the twelve months ending at that quarter's end. The earliest quarter
// whose trailing window crosses establishes nexus for the year.
type quarterlyStrategy struct{}

func (quarterlyStrategy) Name() string { return domain.StrategyQuarterly }

func (quarterlyStrategy) Evaluate(txns []domain.Transaction, year int, rule *domain.ThresholdRule) Determination {
	for q := 1; q <= 4; q++ {
		end := time.Date(year, time.Month(q*3), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		start := end.AddDate(-1, 0, 0)
		if crossing, ok := FindCrossing(windowTxns(txns, start, end), rule); ok {
			return trailingWindowDetermination(crossing, year)
		}
	}
	return Determination{}
}

// anniversaryStrategy measures a single fixed twelve-month window per year,
// ending on the jurisdiction's anniversary date (for example Oct 1–Sep 30)
// instead of quarter boundaries.
type anniversaryStrategy struct{}

func (anniversaryStrategy) Name() string { return domain.StrategyFixedAnniversary }

// validAnniversary reports whether a rule carries a usable anniversary
// month/day. The aggregator warns when a fixed-anniversary rule fails this.
func validAnniversary(rule *domain.ThresholdRule) bool {
	return rule.AnniversaryMonth >= 1 && rule.AnniversaryMonth <= 12 &&
		rule.AnniversaryDay >= 1 && rule.AnniversaryDay <= 31
}

func (anniversaryStrategy) Evaluate(txns []domain.Transaction, year int, rule *domain.ThresholdRule) Determination {
	month, day := rule.AnniversaryMonth, rule.AnniversaryDay
	if !validAnniversary(rule) {
		// Misconfigured anniversary degrades to a calendar-year window.
		month, day = 12, 31
	}
	// Window is the 12 months ending on the anniversary date, inclusive.
	end := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	start := end.AddDate(-1, 0, 0)
	if crossing, ok := FindCrossing(windowTxns(txns, start, end), rule); ok {
		return trailingWindowDetermination(crossing, year)
	}
	return Determination{}
}
