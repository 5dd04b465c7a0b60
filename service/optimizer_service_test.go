package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bnpl-agent/domain"
)

type stubSummarizer struct {
	text string
	err  error
}

func (s *stubSummarizer) Summarize(SummaryContext) (string, error) {
	return s.text, s.err
}

func newOptimizer(t *testing.T, summarizer Summarizer, profiles ...domain.UserProfile) *OptimizerService {
	t.Helper()
	snapshots, _ := newSnapshotService(profiles...)
	return NewOptimizerService(snapshots, summarizer, DefaultPolicy())
}

func cartTotal(t *testing.T, items []domain.CartItem) decimal.Decimal {
	t.Helper()
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}

func TestOptimizeCart_TightBudgetSplitsCart(t *testing.T) {
	optimizer := newOptimizer(t, nil, tightBudgetProfile(t))

	cart := []domain.CartItem{
		{Name: "Diapers", Price: money(t, "24.99"), Category: "Baby & Kids", DeferredEligible: true},
		{Name: "AirPods", Price: money(t, "149.99"), Category: "Electronics", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 2)

	diapers := result.Recommendations[0]
	assert.Equal(t, domain.StrategyPayNow, diapers.Strategy)
	assert.Contains(t, diapers.Reason, "essential")

	airpods := result.Recommendations[1]
	assert.Equal(t, domain.StrategyDeferred, airpods.Strategy)
	require.NotNil(t, airpods.Plan)
	assert.Equal(t, "37.50", airpods.Plan.Payments[0].StringFixed(2))
	assert.Equal(t, "37.49", airpods.Plan.Payments[3].StringFixed(2))
	assert.Equal(t, []string{"2026-08-29", "2026-09-12", "2026-09-26", "2026-10-10"}, airpods.PaymentDates)

	assert.Equal(t, "24.99", result.PayNowTotal.StringFixed(2))
	assert.Equal(t, "149.99", result.DeferredTotal.StringFixed(2))
	assert.Equal(t, "37.50", result.MonthlyInstallment.StringFixed(2))
	// 500 - (24.99 + 37.50)
	assert.Equal(t, "437.51", result.ProjectedBalance.StringFixed(2))
	assert.Empty(t, result.Warnings)
}

func TestOptimizeCart_TotalsAreConserved(t *testing.T) {
	optimizer := newOptimizer(t, nil, tightBudgetProfile(t))

	cart := []domain.CartItem{
		{Name: "Groceries Bundle", Price: money(t, "52.00"), Category: "Groceries", DeferredEligible: true},
		{Name: "Diapers", Price: money(t, "24.99"), Category: "Baby & Kids", DeferredEligible: true},
		{Name: "AirPods", Price: money(t, "149.99"), Category: "Electronics", DeferredEligible: true},
		{Name: "Winter Jacket", Price: money(t, "49.99"), Category: "Clothing", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	sum := result.PayNowTotal.Add(result.DeferredTotal)
	assert.True(t, sum.Equal(cartTotal(t, cart)), "pay now + deferred = %s", sum)

	// Cada item aparece exactamente en una partición y una recomendación
	assert.Len(t, result.Recommendations, len(cart))
	assert.Len(t, result.PayNowItems, len(cart)-len(result.DeferredItems))
}

func TestOptimizeCart_SmallNonEssentialPaysNow(t *testing.T) {
	optimizer := newOptimizer(t, nil, tightBudgetProfile(t))

	cart := []domain.CartItem{
		{Name: "T-Shirt", Price: money(t, "10.00"), Category: "Clothing", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, domain.StrategyPayNow, result.Recommendations[0].Strategy)
	assert.False(t, result.Recommendations[0].Item.IsEssential)
	assert.Empty(t, result.DeferredItems)
}

func TestOptimizeCart_IneligibleAccountPaysNow(t *testing.T) {
	profile := tightBudgetProfile(t)
	profile.DeferredEligible = false
	optimizer := newOptimizer(t, nil, profile)

	cart := []domain.CartItem{
		{Name: "AirPods", Price: money(t, "149.99"), Category: "Electronics", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, domain.StrategyPayNow, result.Recommendations[0].Strategy)
	assert.Contains(t, result.Recommendations[0].Reason, "not available for your account")
	assert.Empty(t, result.DeferredItems)
}

func TestOptimizeCart_AboveMaximumWarnsAndPaysNow(t *testing.T) {
	profile := tightBudgetProfile(t)
	profile.BankBalance = money(t, "10000")
	optimizer := newOptimizer(t, nil, profile)

	cart := []domain.CartItem{
		{Name: "OLED TV", Price: money(t, "2499.00"), Category: "Electronics", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, domain.StrategyPayNow, result.Recommendations[0].Strategy)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "OLED TV")
}

func TestOptimizeCart_TightBudgetWarningRepeatsPerCandidate(t *testing.T) {
	// Los esenciales solos ya exceden lo disponible: cada candidato difiere
	// y repite la advertencia, evaluada contra el total esencial ORIGINAL.
	optimizer := newOptimizer(t, nil, tightBudgetProfile(t))

	cart := []domain.CartItem{
		{Name: "Groceries Haul", Price: money(t, "180.00"), Category: "Groceries", DeferredEligible: true},
		{Name: "AirPods", Price: money(t, "149.99"), Category: "Electronics", DeferredEligible: true},
		{Name: "Headphones", Price: money(t, "89.99"), Category: "Electronics", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	require.Len(t, result.DeferredItems, 2)
	tight := 0
	for _, warning := range result.Warnings {
		if warning == "Budget is tight! Consider if all items are necessary." {
			tight++
		}
	}
	assert.Equal(t, 2, tight)
}

func TestOptimizeCart_OverdraftWarning(t *testing.T) {
	profile := tightBudgetProfile(t)
	profile.BankBalance = money(t, "40")
	optimizer := newOptimizer(t, nil, profile)

	cart := []domain.CartItem{
		{Name: "Groceries Bundle", Price: money(t, "52.00"), Category: "Groceries", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	// 40 - 52 = -12
	assert.Equal(t, "-12.00", result.ProjectedBalance.StringFixed(2))
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "overdraw your account by $12.00")
}

func TestOptimizeCart_LowBalanceCaution(t *testing.T) {
	profile := tightBudgetProfile(t)
	profile.BankBalance = money(t, "120")
	profile.UpcomingBills = nil
	optimizer := newOptimizer(t, nil, profile)

	cart := []domain.CartItem{
		{Name: "Groceries Bundle", Price: money(t, "52.00"), Category: "Groceries", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	assert.Equal(t, "68.00", result.ProjectedBalance.StringFixed(2))
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "leave only $68.00")
}

func TestOptimizeCart_NegativePriceRejectedWithWarning(t *testing.T) {
	optimizer := newOptimizer(t, nil, tightBudgetProfile(t))

	cart := []domain.CartItem{
		{Name: "Broken Scan", Price: money(t, "-5.00"), Category: "Electronics", DeferredEligible: true},
		{Name: "Diapers", Price: money(t, "24.99"), Category: "Baby & Kids", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Diapers", result.Recommendations[0].Item.Name)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "Broken Scan")
	assert.Equal(t, "24.99", result.PayNowTotal.StringFixed(2))
}

func TestOptimizeCart_EmptyCart(t *testing.T) {
	optimizer := newOptimizer(t, nil, tightBudgetProfile(t))

	result, err := optimizer.OptimizeCart("user_003", nil, testNow)
	require.NoError(t, err)

	assert.Empty(t, result.PayNowItems)
	assert.Empty(t, result.DeferredItems)
	assert.Equal(t, "0.00", result.PayNowTotal.StringFixed(2))
	assert.Equal(t, "0.00", result.DeferredTotal.StringFixed(2))
	assert.Equal(t, "0.00", result.MonthlyInstallment.StringFixed(2))
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.Summary)
}

func TestOptimizeCart_TooManyItems(t *testing.T) {
	optimizer := newOptimizer(t, nil, tightBudgetProfile(t))

	cart := make([]domain.CartItem, MaxCartItems+1)
	for i := range cart {
		cart[i] = domain.CartItem{Name: "Item", Price: money(t, "1.00"), Category: "General"}
	}

	_, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum")
}

func TestOptimizeCart_UserNotFound(t *testing.T) {
	optimizer := newOptimizer(t, nil)

	_, err := optimizer.OptimizeCart("ghost", nil, testNow)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestOptimizeCart_Idempotent(t *testing.T) {
	optimizer := newOptimizer(t, nil, tightBudgetProfile(t))

	cart := []domain.CartItem{
		{Name: "Diapers", Price: money(t, "24.99"), Category: "Baby & Kids", DeferredEligible: true},
		{Name: "AirPods", Price: money(t, "149.99"), Category: "Electronics", DeferredEligible: true},
	}

	first, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)
	second, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	assert.Equal(t, first.PayNowTotal.StringFixed(2), second.PayNowTotal.StringFixed(2))
	assert.Equal(t, first.DeferredTotal.StringFixed(2), second.DeferredTotal.StringFixed(2))
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Len(t, second.Recommendations, len(first.Recommendations))
}

func TestDeferralRules_OrderingContract(t *testing.T) {
	rules := deferralRules()

	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.name)
	}

	assert.Equal(t, []string{
		"account not eligible",
		"exceeds deferred maximum",
		"essentials exceed available funds",
		"item would breach buffer",
		"installment fits safe ceiling",
		"sufficient funds",
	}, names)
}

func TestOptimizeCart_SummarizerTextIsUsed(t *testing.T) {
	summarizer := &stubSummarizer{text: "Looks like a solid plan.\n"}
	optimizer := newOptimizer(t, summarizer, tightBudgetProfile(t))

	result, err := optimizer.OptimizeCart("user_003", nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Looks like a solid plan.", result.Summary)
}

func TestOptimizeCart_SummarizerFailureFallsBack(t *testing.T) {
	summarizer := &stubSummarizer{err: errors.New("timeout")}
	optimizer := newOptimizer(t, summarizer, tightBudgetProfile(t))

	cart := []domain.CartItem{
		{Name: "Diapers", Price: money(t, "24.99"), Category: "Baby & Kids", DeferredEligible: true},
		{Name: "AirPods", Price: money(t, "149.99"), Category: "Electronics", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	assert.Contains(t, result.Summary, "Emily Rodriguez")
	assert.Contains(t, result.Summary, "AirPods")
	assert.Contains(t, result.Summary, "$900.00")
	assert.Contains(t, result.Summary, "2026-09-10")
}

func TestOptimizeCart_AllPayNowSummary(t *testing.T) {
	profile := tightBudgetProfile(t)
	profile.BankBalance = money(t, "5000")
	optimizer := newOptimizer(t, nil, profile)

	cart := []domain.CartItem{
		{Name: "Groceries Bundle", Price: money(t, "52.00"), Category: "Groceries", DeferredEligible: true},
	}

	result, err := optimizer.OptimizeCart("user_003", cart, testNow)
	require.NoError(t, err)

	assert.Empty(t, result.DeferredItems)
	assert.Contains(t, result.Summary, "$52.00")
	assert.Contains(t, result.Summary, "Projected balance")
}
