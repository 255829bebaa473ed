package nexus_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"saltscope/internal/domain"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func intp(n int) *int { return &n }

func txn(date, amount string, channel domain.Channel) domain.Transaction {
	return domain.Transaction{
		ID:          uuid.New(),
		Date:        day(date),
		GrossAmount: d(amount),
		Channel:     channel,
	}
}

func jurisdictionTxn(code, date, amount string, channel domain.Channel) domain.Transaction {
	t := txn(date, amount, channel)
	t.JurisdictionCode = code
	return t
}

func revenueRule(code, threshold, strategy string) *domain.ThresholdRule {
	return &domain.ThresholdRule{
		JurisdictionCode: code,
		RevenueThreshold: dp(threshold),
		Operator:         domain.OperatorOr,
		LookbackStrategy: strategy,
	}
}
