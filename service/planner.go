package service

import (
	"time"

	"github.com/shopspring/decimal"

	"bnpl-agent/domain"
)

// InstallmentPlanner builds fixed-count, fixed-interval payment schedules.
type InstallmentPlanner struct {
	policy Policy
}

func NewInstallmentPlanner(policy Policy) *InstallmentPlanner {
	return &InstallmentPlanner{policy: policy}
}

// BuildPlan splits the amount into equal installments starting today. The
// first count-1 payments are the rounded base amount; the last payment is
// the remainder, so the schedule always sums to the amount exactly.
func (p *InstallmentPlanner) BuildPlan(
	amount decimal.Decimal,
	today time.Time,
) domain.InstallmentPlan {

	count := p.policy.Installments
	base := amount.DivRound(decimal.NewFromInt(int64(count)), 2)

	payments := make([]decimal.Decimal, 0, count)
	for i := 0; i < count-1; i++ {
		payments = append(payments, base)
	}
	last := amount.Sub(base.Mul(decimal.NewFromInt(int64(count - 1))))
	payments = append(payments, last)

	dates := make([]string, 0, count)
	for i := 0; i < count; i++ {
		date := today.AddDate(0, 0, 7*p.policy.IntervalWeeks*i)
		dates = append(dates, date.Format(dateLayout))
	}

	return domain.InstallmentPlan{
		Installments:  count,
		IntervalWeeks: p.policy.IntervalWeeks,
		FeePercent:    p.policy.FeePercent,
		Payments:      payments,
		PaymentDates:  dates,
	}
}
