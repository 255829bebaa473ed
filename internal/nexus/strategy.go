package nexus

import (
	"time"

	"saltscope/internal/domain"
)

// Determination is a strategy's answer for a single year.
type Determination struct {
	HasNexus        bool
	NexusDate       time.Time
	ObligationStart time.Time
}

// Strategy decides, for one year, whether a jurisdiction's lookback rule
// establishes nexus and when the collection obligation begins. Implementations
// are stateless; the same transaction slice always yields the same answer.
type Strategy interface {
	Name() string
	// Evaluate receives the jurisdiction's full sorted transaction history and
	// the year under test; each strategy slices its own measurement windows.
	Evaluate(txns []domain.Transaction, year int, rule *domain.ThresholdRule) Determination
}

var strategies = map[string]Strategy{
	domain.StrategyPreviousCalendarYear:  calendarStrategy{name: domain.StrategyPreviousCalendarYear, currentFirst: false},
	domain.StrategyCurrentOrPreviousYear: calendarStrategy{name: domain.StrategyCurrentOrPreviousYear, currentFirst: true},
	domain.StrategyRollingTwelveMonth:    rollingStrategy{},
	domain.StrategyQuarterly:             quarterlyStrategy{},
	domain.StrategyFixedAnniversary:      anniversaryStrategy{},
}

// ForRule resolves the strategy named by a threshold rule. Unknown names fall
// back to current-or-previous-calendar-year rather than aborting the run; the
// second return reports the fallback so the engine can surface a warning.
func ForRule(rule *domain.ThresholdRule) (Strategy, bool) {
	if s, ok := strategies[rule.LookbackStrategy]; ok {
		return s, true
	}
	return strategies[domain.StrategyCurrentOrPreviousYear], false
}

// calendarStrategy covers the two calendar-year lookbacks. A crossing in the
// prior year obligates from January 1; a crossing within the year itself
// obligates from the first of the following month. currentFirst controls
// which window is consulted first.
type calendarStrategy struct {
	name         string
	currentFirst bool
}

func (s calendarStrategy) Name() string { return s.name }

func (s calendarStrategy) Evaluate(txns []domain.Transaction, year int, rule *domain.ThresholdRule) Determination {
	current := func() (Determination, bool) {
		window := windowTxns(txns, janFirst(year), janFirst(year+1))
		if crossing, ok := FindCrossing(window, rule); ok {
			return Determination{
				HasNexus:        true,
				NexusDate:       crossing.Date,
				ObligationStart: firstOfNextMonth(crossing.Date),
			}, true
		}
		return Determination{}, false
	}
	previous := func() (Determination, bool) {
		window := windowTxns(txns, janFirst(year-1), janFirst(year))
		if crossing, ok := FindCrossing(window, rule); ok {
			return Determination{
				HasNexus:        true,
				NexusDate:       crossing.Date,
				ObligationStart: janFirst(year),
			}, true
		}
		return Determination{}, false
	}

	checks := []func() (Determination, bool){previous, current}
	if s.currentFirst {
		checks = []func() (Determination, bool){current, previous}
	}
	for _, check := range checks {
		if det, ok := check(); ok {
			return det
		}
	}
	return Determination{}
}

// trailingWindowDetermination applies the shared obligation rule for
// trailing-window strategies: a crossing inside year Y obligates from the
// following month, a crossing in the lookback tail before Y obligates from
// January 1 of Y.
func trailingWindowDetermination(crossing Crossing, year int) Determination {
	det := Determination{HasNexus: true, NexusDate: crossing.Date}
	if crossing.Date.Year() < year {
		det.ObligationStart = janFirst(year)
	} else {
		det.ObligationStart = firstOfNextMonth(crossing.Date)
	}
	return det
}
