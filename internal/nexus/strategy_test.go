package nexus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saltscope/internal/domain"
	"saltscope/internal/nexus"
)

func TestForRule_KnownStrategies(t *testing.T) {
	for _, name := range []string{
		domain.StrategyPreviousCalendarYear,
		domain.StrategyCurrentOrPreviousYear,
		domain.StrategyRollingTwelveMonth,
		domain.StrategyQuarterly,
		domain.StrategyFixedAnniversary,
	} {
		s, known := nexus.ForRule(&domain.ThresholdRule{LookbackStrategy: name})
		require.True(t, known, name)
		assert.Equal(t, name, s.Name())
	}
}

func TestForRule_UnknownFallsBack(t *testing.T) {
	s, known := nexus.ForRule(&domain.ThresholdRule{LookbackStrategy: "biennial"})

	assert.False(t, known)
	assert.Equal(t, domain.StrategyCurrentOrPreviousYear, s.Name())
}

func TestCalendarStrategy_PriorYearCrossingObligatesJanuaryFirst(t *testing.T) {
	txns := []domain.Transaction{
		txn("2022-08-10", "120000", domain.ChannelDirect),
		txn("2023-03-01", "5000", domain.ChannelDirect),
	}
	rule := revenueRule("CA", "100000", domain.StrategyPreviousCalendarYear)
	s, _ := nexus.ForRule(rule)

	det := s.Evaluate(txns, 2023, rule)

	require.True(t, det.HasNexus)
	assert.Equal(t, day("2022-08-10"), det.NexusDate)
	assert.Equal(t, day("2023-01-01"), det.ObligationStart)
}

func TestCalendarStrategy_InYearCrossingObligatesNextMonth(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-04-18", "150000", domain.ChannelDirect),
	}
	rule := revenueRule("CA", "100000", domain.StrategyCurrentOrPreviousYear)
	s, _ := nexus.ForRule(rule)

	det := s.Evaluate(txns, 2023, rule)

	require.True(t, det.HasNexus)
	assert.Equal(t, day("2023-04-18"), det.NexusDate)
	assert.Equal(t, day("2023-05-01"), det.ObligationStart)
}

func TestCalendarStrategy_NoCrossingEitherYear(t *testing.T) {
	txns := []domain.Transaction{
		txn("2022-08-10", "40000", domain.ChannelDirect),
		txn("2023-03-01", "50000", domain.ChannelDirect),
	}
	rule := revenueRule("CA", "100000", domain.StrategyCurrentOrPreviousYear)
	s, _ := nexus.ForRule(rule)

	det := s.Evaluate(txns, 2023, rule)

	assert.False(t, det.HasNexus)
}

// Five months of 2023 sales against a $100K rolling twelve-month threshold:
// the trailing sum reaches $110K in April, so collection obligates from May 1
// and only May sales sit inside the obligation period.
func TestRollingStrategy_MidYearCrossing(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-01-05", "20000", domain.ChannelDirect),
		txn("2023-02-07", "25000", domain.ChannelDirect),
		txn("2023-03-09", "30000", domain.ChannelDirect),
		txn("2023-04-03", "35000", domain.ChannelDirect),
		txn("2023-05-11", "10000", domain.ChannelDirect),
	}
	rule := revenueRule("CA", "100000", domain.StrategyRollingTwelveMonth)
	s, _ := nexus.ForRule(rule)

	det := s.Evaluate(txns, 2023, rule)

	require.True(t, det.HasNexus)
	assert.Equal(t, day("2023-04-03"), det.NexusDate)
	assert.Equal(t, day("2023-05-01"), det.ObligationStart)
}

func TestRollingStrategy_PriorYearCrossingObligatesJanuaryFirst(t *testing.T) {
	txns := []domain.Transaction{
		txn("2022-10-15", "120000", domain.ChannelDirect),
		txn("2023-02-01", "5000", domain.ChannelDirect),
	}
	rule := revenueRule("CA", "100000", domain.StrategyRollingTwelveMonth)
	s, _ := nexus.ForRule(rule)

	det := s.Evaluate(txns, 2023, rule)

	require.True(t, det.HasNexus)
	assert.Equal(t, day("2022-10-15"), det.NexusDate)
	assert.Equal(t, day("2023-01-01"), det.ObligationStart)
}

func TestRollingStrategy_WindowExpires(t *testing.T) {
	// $60K in each of two months more than a year apart never sums to $100K
	// inside any trailing twelve-month window.
	txns := []domain.Transaction{
		txn("2022-01-15", "60000", domain.ChannelDirect),
		txn("2023-03-15", "60000", domain.ChannelDirect),
	}
	rule := revenueRule("CA", "100000", domain.StrategyRollingTwelveMonth)
	s, _ := nexus.ForRule(rule)

	det := s.Evaluate(txns, 2023, rule)

	assert.False(t, det.HasNexus)
}

func TestRollingStrategy_FutureCrossingNotVisibleToEarlierYear(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-02-01", "30000", domain.ChannelDirect),
		txn("2024-01-20", "90000", domain.ChannelDirect),
	}
	rule := revenueRule("CA", "100000", domain.StrategyRollingTwelveMonth)
	s, _ := nexus.ForRule(rule)

	assert.False(t, s.Evaluate(txns, 2023, rule).HasNexus)
	assert.True(t, s.Evaluate(txns, 2024, rule).HasNexus)
}

func TestQuarterlyStrategy_FirstQuarterWindowCrossing(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-02-10", "110000", domain.ChannelDirect),
	}
	rule := revenueRule("HI", "100000", domain.StrategyQuarterly)
	s, _ := nexus.ForRule(rule)

	det := s.Evaluate(txns, 2023, rule)

	require.True(t, det.HasNexus)
	assert.Equal(t, day("2023-02-10"), det.NexusDate)
	assert.Equal(t, day("2023-03-01"), det.ObligationStart)
}

func TestQuarterlyStrategy_TrailingTailCrossing(t *testing.T) {
	// Crossing sits in the lookback tail before the year under test, so the
	// obligation starts January 1.
	txns := []domain.Transaction{
		txn("2022-06-20", "110000", domain.ChannelDirect),
		txn("2023-01-15", "1000", domain.ChannelDirect),
	}
	rule := revenueRule("HI", "100000", domain.StrategyQuarterly)
	s, _ := nexus.ForRule(rule)

	det := s.Evaluate(txns, 2023, rule)

	require.True(t, det.HasNexus)
	assert.Equal(t, day("2022-06-20"), det.NexusDate)
	assert.Equal(t, day("2023-01-01"), det.ObligationStart)
}

func TestAnniversaryStrategy_WindowEndsOnAnniversary(t *testing.T) {
	rule := revenueRule("NM", "100000", domain.StrategyFixedAnniversary)
	rule.AnniversaryMonth = 9
	rule.AnniversaryDay = 30
	s, _ := nexus.ForRule(rule)

	// Inside the Oct 1, 2022 – Sep 30, 2023 window.
	inWindow := []domain.Transaction{txn("2022-11-15", "120000", domain.ChannelDirect)}
	det := s.Evaluate(inWindow, 2023, rule)
	require.True(t, det.HasNexus)
	assert.Equal(t, day("2023-01-01"), det.ObligationStart)

	// Just past the window end.
	outside := []domain.Transaction{txn("2023-10-02", "120000", domain.ChannelDirect)}
	assert.False(t, s.Evaluate(outside, 2023, rule).HasNexus)
}

func TestAnniversaryStrategy_MisconfiguredFallsBackToCalendarWindow(t *testing.T) {
	rule := revenueRule("NM", "100000", domain.StrategyFixedAnniversary)
	s, _ := nexus.ForRule(rule)

	txns := []domain.Transaction{txn("2023-06-15", "120000", domain.ChannelDirect)}
	det := s.Evaluate(txns, 2023, rule)

	require.True(t, det.HasNexus)
	assert.Equal(t, day("2023-07-01"), det.ObligationStart)
}
