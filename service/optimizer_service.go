package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bnpl-agent/domain"
)

// Summarizer generates the narrative summary of an optimization. It is a
// pluggable collaborator; the optimizer always falls back to its own
// deterministic rule-based text when the summarizer is absent or fails.
type Summarizer interface {
	Summarize(ctx SummaryContext) (string, error)
}

// SummaryContext carries everything a Summarizer needs about the decision.
type SummaryContext struct {
	Snapshot         domain.FinancialSnapshot
	PayNowItems      []domain.CartItem
	DeferredItems    []domain.CartItem
	PayNowTotal      decimal.Decimal
	DeferredTotal    decimal.Decimal
	ProjectedBalance decimal.Decimal
}

type OptimizerService struct {
	snapshots  *SnapshotService
	classifier *Classifier
	planner    *InstallmentPlanner
	summarizer Summarizer
	policy     Policy
}

// NewOptimizerService creates the cart optimizer. summarizer may be nil, in
// which case the deterministic rule-based summary is always used.
func NewOptimizerService(
	snapshots *SnapshotService,
	summarizer Summarizer,
	policy Policy,
) *OptimizerService {
	return &OptimizerService{
		snapshots:  snapshots,
		classifier: NewClassifier(policy),
		planner:    NewInstallmentPlanner(policy),
		summarizer: summarizer,
		policy:     policy,
	}
}

// ruleInput is the context a deferral rule is evaluated against.
// essentialTotal is computed once, before the candidate loop, and never
// updated as candidates are re-assigned to pay-now. Later decisions
// intentionally do not see earlier re-assignments.
type ruleInput struct {
	item           domain.CartItem
	snapshot       domain.FinancialSnapshot
	essentialTotal decimal.Decimal
	policy         Policy
}

type ruleOutcome struct {
	strategy string
	reason   string
	warning  string
}

type deferralRule struct {
	name  string
	apply func(in ruleInput) *ruleOutcome
}

// deferralRules is the priority-ordered decision policy for a deferred
// candidate. The first rule that returns a non-nil outcome wins; the
// ordering is a contract, not incidental.
func deferralRules() []deferralRule {
	return []deferralRule{
		{
			name: "account not eligible",
			apply: func(in ruleInput) *ruleOutcome {
				if in.snapshot.DeferredEligible {
					return nil
				}
				return &ruleOutcome{
					strategy: domain.StrategyPayNow,
					reason:   "Deferred payment is not available for your account.",
				}
			},
		},
		{
			name: "exceeds deferred maximum",
			apply: func(in ruleInput) *ruleOutcome {
				if in.item.Price.LessThanOrEqual(in.policy.MaxDeferredAmount) {
					return nil
				}
				return &ruleOutcome{
					strategy: domain.StrategyPayNow,
					reason: fmt.Sprintf("Item exceeds the deferred payment limit of $%s.",
						in.policy.MaxDeferredAmount.StringFixed(2)),
					warning: fmt.Sprintf("%s exceeds the deferred payment maximum amount.", in.item.Name),
				}
			},
		},
		{
			name: "essentials exceed available funds",
			apply: func(in ruleInput) *ruleOutcome {
				if in.essentialTotal.LessThanOrEqual(in.snapshot.AvailableForSpending) {
					return nil
				}
				return &ruleOutcome{
					strategy: domain.StrategyDeferred,
					reason: "Your essential purchases already exceed available funds. " +
						"Deferring this payment helps preserve cash for necessities.",
					warning: "Budget is tight! Consider if all items are necessary.",
				}
			},
		},
		{
			name: "item would breach buffer",
			apply: func(in ruleInput) *ruleOutcome {
				if in.essentialTotal.Add(in.item.Price).LessThanOrEqual(in.snapshot.AvailableForSpending) {
					return nil
				}
				remaining := in.snapshot.AvailableForSpending.
					Sub(in.essentialTotal).
					Sub(in.item.Price)
				return &ruleOutcome{
					strategy: domain.StrategyDeferred,
					reason: fmt.Sprintf("Paying now would leave you with only $%s. "+
						"Deferring maintains a safety buffer.", remaining.StringFixed(2)),
				}
			},
		},
		{
			name: "installment fits safe ceiling",
			apply: func(in ruleInput) *ruleOutcome {
				installment := in.item.Price.DivRound(
					decimal.NewFromInt(int64(in.policy.Installments)), 2)
				if installment.GreaterThan(in.snapshot.SafeInstallmentCeiling) {
					return nil
				}
				return &ruleOutcome{
					strategy: domain.StrategyDeferred,
					reason: fmt.Sprintf("At $%s per payment, this fits comfortably in your "+
						"budget while preserving cash for unexpected expenses.",
						installment.StringFixed(2)),
				}
			},
		},
		{
			name: "sufficient funds",
			apply: func(in ruleInput) *ruleOutcome {
				return &ruleOutcome{
					strategy: domain.StrategyPayNow,
					reason:   "You have sufficient funds. Paying now avoids future payment obligations.",
				}
			},
		},
	}
}

func evaluateRules(rules []deferralRule, in ruleInput) ruleOutcome {
	for _, rule := range rules {
		if outcome := rule.apply(in); outcome != nil {
			return *outcome
		}
	}
	// unreachable: the last rule always matches
	return ruleOutcome{strategy: domain.StrategyPayNow, reason: "No rule matched."}
}

// OptimizeCart decides, item by item, whether to pay now or defer via the
// fixed installment plan, and produces the consolidated settlement result.
func (s *OptimizerService) OptimizeCart(
	userID string,
	items []domain.CartItem,
	now time.Time,
) (domain.OptimizationResult, error) {

	if len(items) > MaxCartItems {
		return domain.OptimizationResult{}, fmt.Errorf("cart exceeds the maximum of %d items", MaxCartItems)
	}

	snapshot, err := s.snapshots.BuildSnapshot(userID, now)
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	warnings := []string{}

	// Rechazar items con precio inválido, el resto del carrito sigue
	valid := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.Price.IsNegative() {
			warnings = append(warnings,
				fmt.Sprintf("%s has an invalid price and was removed from the analysis.", item.Name))
			continue
		}
		valid = append(valid, item)
	}

	essential, candidates := s.classifier.Classify(valid)

	essentialTotal := sumPrices(essential)

	recommendations := make([]domain.Recommendation, 0, len(valid))
	payNowItems := []domain.CartItem{}
	deferredItems := []domain.CartItem{}

	// Los items esenciales siempre se pagan de una vez
	for _, item := range essential {
		recommendations = append(recommendations, domain.Recommendation{
			Item:     item,
			Strategy: domain.StrategyPayNow,
			Reason:   fmt.Sprintf("%s items are essential and should be paid immediately.", item.Category),
		})
		payNowItems = append(payNowItems, item)
	}

	rules := deferralRules()
	for _, item := range candidates {
		outcome := evaluateRules(rules, ruleInput{
			item:           item,
			snapshot:       snapshot,
			essentialTotal: essentialTotal,
			policy:         s.policy,
		})
		if outcome.warning != "" {
			warnings = append(warnings, outcome.warning)
		}

		rec := domain.Recommendation{
			Item:     item,
			Strategy: outcome.strategy,
			Reason:   outcome.reason,
		}
		if outcome.strategy == domain.StrategyDeferred {
			plan := s.planner.BuildPlan(item.Price, now)
			rec.Plan = &plan
			rec.InstallmentAmount = plan.Payments[0]
			rec.PaymentDates = plan.PaymentDates
			deferredItems = append(deferredItems, item)
		} else {
			payNowItems = append(payNowItems, item)
		}
		recommendations = append(recommendations, rec)
	}

	payNowTotal := sumPrices(payNowItems)
	deferredTotal := sumPrices(deferredItems)

	monthly := decimal.Zero
	if len(deferredItems) > 0 {
		monthly = deferredTotal.DivRound(decimal.NewFromInt(int64(s.policy.Installments)), 2)
	}

	// Balance proyectado después del primer pago
	projected := snapshot.CurrentBalance.Sub(payNowTotal.Add(monthly))
	if projected.IsNegative() {
		warnings = append(warnings,
			fmt.Sprintf("Warning: this purchase would overdraw your account by $%s!",
				projected.Abs().StringFixed(2)))
	} else if projected.LessThan(s.policy.LowBalanceThreshold) {
		warnings = append(warnings,
			fmt.Sprintf("Caution: this would leave only $%s in your account.",
				projected.StringFixed(2)))
	}

	result := domain.OptimizationResult{
		PayNowItems:        payNowItems,
		DeferredItems:      deferredItems,
		PayNowTotal:        payNowTotal,
		DeferredTotal:      deferredTotal,
		MonthlyInstallment: monthly,
		Recommendations:    recommendations,
		Warnings:           warnings,
		ProjectedBalance:   projected,
	}
	result.Summary = s.buildSummary(snapshot, result)

	return result, nil
}

func (s *OptimizerService) buildSummary(
	snapshot domain.FinancialSnapshot,
	result domain.OptimizationResult,
) string {
	if s.summarizer == nil {
		return s.ruleBasedSummary(snapshot, result)
	}

	text, err := s.summarizer.Summarize(SummaryContext{
		Snapshot:         snapshot,
		PayNowItems:      result.PayNowItems,
		DeferredItems:    result.DeferredItems,
		PayNowTotal:      result.PayNowTotal,
		DeferredTotal:    result.DeferredTotal,
		ProjectedBalance: result.ProjectedBalance,
	})
	if err != nil {
		log.Printf("Warning: summary generation failed, using rule-based summary: %v", err)
		return s.ruleBasedSummary(snapshot, result)
	}
	return strings.TrimSpace(text)
}

// ruleBasedSummary is the deterministic narrative used whenever no external
// summarizer is configured or it fails.
func (s *OptimizerService) ruleBasedSummary(
	snapshot domain.FinancialSnapshot,
	result domain.OptimizationResult,
) string {
	if len(result.DeferredItems) == 0 {
		return fmt.Sprintf(
			"You can comfortably pay $%s for all items today. "+
				"Projected balance after this purchase: $%s.",
			result.PayNowTotal.StringFixed(2),
			result.ProjectedBalance.StringFixed(2))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Smart payment strategy for %s.\n", snapshot.UserName)
	fmt.Fprintf(&b, "Today's payment: $%s for %d items.\n",
		result.PayNowTotal.StringFixed(2), len(result.PayNowItems))
	fmt.Fprintf(&b, "Deferred: $%s split into %d payments of $%s every %d weeks.\n",
		result.DeferredTotal.StringFixed(2),
		s.policy.Installments,
		result.MonthlyInstallment.StringFixed(2),
		s.policy.IntervalWeeks)

	names := itemNames(result.DeferredItems)
	if len(names) > 3 {
		names = names[:3]
	}
	fmt.Fprintf(&b, "Financing: %s.\n", strings.Join(names, ", "))

	if snapshot.PaycheckAmount.IsPositive() && snapshot.PaycheckDate != "" {
		fmt.Fprintf(&b, "With your next paycheck of $%s coming on %s, this strategy "+
			"keeps enough aside for rent and bills while getting everything you need today.",
			snapshot.PaycheckAmount.StringFixed(2), snapshot.PaycheckDate)
	}

	return strings.TrimSpace(b.String())
}

func sumPrices(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}

func itemNames(items []domain.CartItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
