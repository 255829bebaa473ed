package nexus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saltscope/internal/domain"
	"saltscope/internal/nexus"
)

func TestFindCrossing_RevenueOnly(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-01-10", "40000", domain.ChannelDirect),
		txn("2023-02-15", "60000", domain.ChannelDirect),
		txn("2023-03-20", "5000", domain.ChannelDirect),
	}
	rule := revenueRule("CA", "100000", domain.StrategyCurrentOrPreviousYear)

	crossing, ok := nexus.FindCrossing(txns, rule)

	require.True(t, ok)
	assert.Equal(t, txns[1].ID, crossing.TransactionID)
	assert.Equal(t, day("2023-02-15"), crossing.Date)
	assert.True(t, crossing.Revenue.Equal(d("100000")), "revenue %s", crossing.Revenue)
	assert.Equal(t, 2, crossing.Count)
}

func TestFindCrossing_ExactBoundaryCounts(t *testing.T) {
	txns := []domain.Transaction{txn("2023-01-10", "100000", domain.ChannelDirect)}
	rule := revenueRule("CA", "100000", domain.StrategyCurrentOrPreviousYear)

	_, ok := nexus.FindCrossing(txns, rule)

	assert.True(t, ok, "threshold met exactly should cross")
}

func TestFindCrossing_CountOnly(t *testing.T) {
	var txns []domain.Transaction
	for i := 0; i < 5; i++ {
		txns = append(txns, txn("2023-03-01", "10", domain.ChannelDirect))
	}
	rule := &domain.ThresholdRule{
		JurisdictionCode:     "NY",
		TransactionThreshold: intp(3),
		Operator:             domain.OperatorOr,
	}

	crossing, ok := nexus.FindCrossing(txns, rule)

	require.True(t, ok)
	assert.Equal(t, 3, crossing.Count)
	assert.Equal(t, txns[2].ID, crossing.TransactionID)
}

func TestFindCrossing_AndRequiresBoth(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-01-05", "150000", domain.ChannelDirect),
		txn("2023-02-05", "100", domain.ChannelDirect),
		txn("2023-03-05", "100", domain.ChannelDirect),
	}
	rule := &domain.ThresholdRule{
		JurisdictionCode:     "CT",
		RevenueThreshold:     dp("100000"),
		TransactionThreshold: intp(3),
		Operator:             domain.OperatorAnd,
	}

	crossing, ok := nexus.FindCrossing(txns, rule)

	require.True(t, ok)
	assert.Equal(t, txns[2].ID, crossing.TransactionID, "revenue alone must not cross under AND")
	assert.Equal(t, 3, crossing.Count)
}

func TestFindCrossing_OrEitherSuffices(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-01-05", "150000", domain.ChannelDirect),
	}
	rule := &domain.ThresholdRule{
		JurisdictionCode:     "TX",
		RevenueThreshold:     dp("100000"),
		TransactionThreshold: intp(200),
		Operator:             domain.OperatorOr,
	}

	crossing, ok := nexus.FindCrossing(txns, rule)

	require.True(t, ok)
	assert.Equal(t, txns[0].ID, crossing.TransactionID)
}

func TestFindCrossing_NoCrossing(t *testing.T) {
	txns := []domain.Transaction{txn("2023-01-05", "99999.99", domain.ChannelDirect)}
	rule := revenueRule("CA", "100000", domain.StrategyCurrentOrPreviousYear)

	_, ok := nexus.FindCrossing(txns, rule)

	assert.False(t, ok)
}

func TestFindCrossing_MarketplaceCountsTowardThreshold(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-01-05", "60000", domain.ChannelMarketplace),
		txn("2023-02-05", "40000", domain.ChannelDirect),
	}
	rule := revenueRule("CA", "100000", domain.StrategyCurrentOrPreviousYear)

	crossing, ok := nexus.FindCrossing(txns, rule)

	require.True(t, ok)
	assert.Equal(t, txns[1].ID, crossing.TransactionID)
	assert.True(t, crossing.Revenue.Equal(d("100000")))
}

func TestFindCrossing_NilRuleOrNoThresholds(t *testing.T) {
	txns := []domain.Transaction{txn("2023-01-05", "1000000", domain.ChannelDirect)}

	_, ok := nexus.FindCrossing(txns, nil)
	assert.False(t, ok)

	_, ok = nexus.FindCrossing(txns, &domain.ThresholdRule{JurisdictionCode: "ZZ"})
	assert.False(t, ok)
}
