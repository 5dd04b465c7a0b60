package domain

import "github.com/shopspring/decimal"

// Payment strategies for a single cart item.
const (
	StrategyPayNow   = "PAY_NOW"
	StrategyDeferred = "DEFERRED"
)

type CartItem struct {
	Name             string
	Price            decimal.Decimal
	Category         string
	DeferredEligible bool
	IsEssential      bool // derivado de la categoría por el clasificador
}

type InstallmentPlan struct {
	Installments  int
	IntervalWeeks int
	FeePercent    decimal.Decimal
	Payments      []decimal.Decimal // el último pago absorbe el redondeo
	PaymentDates  []string          // YYYY-MM-DD
}

// TotalAmount returns the sum of every scheduled payment.
func (p InstallmentPlan) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, payment := range p.Payments {
		total = total.Add(payment)
	}
	return total
}

type Recommendation struct {
	Item              CartItem
	Strategy          string // "PAY_NOW" or "DEFERRED"
	Reason            string
	Plan              *InstallmentPlan `json:",omitempty"`
	InstallmentAmount decimal.Decimal
	PaymentDates      []string `json:",omitempty"`
}

type OptimizationResult struct {
	PayNowItems        []CartItem
	DeferredItems      []CartItem
	PayNowTotal        decimal.Decimal
	DeferredTotal      decimal.Decimal
	MonthlyInstallment decimal.Decimal
	Recommendations    []Recommendation
	Summary            string
	Warnings           []string
	ProjectedBalance   decimal.Decimal // balance after pay-now total plus first installment
}

type CartOptimizationInput struct {
	UserID string
	Items  []CartItemInput
}

// CartItemInput is the inbound shape of a cart item. Upstream collaborators
// (catalog lookup, manual entry) may omit fields, so defaults are applied here.
type CartItemInput struct {
	Name             string
	Price            decimal.Decimal
	Category         string
	DeferredEligible *bool // defaults to true when omitted
}

// Item applies input defaults and returns the domain item.
func (in CartItemInput) Item() CartItem {
	eligible := true
	if in.DeferredEligible != nil {
		eligible = *in.DeferredEligible
	}
	name := in.Name
	if name == "" {
		name = "Unknown Item"
	}
	category := in.Category
	if category == "" {
		category = "General"
	}
	return CartItem{
		Name:             name,
		Price:            in.Price,
		Category:         category,
		DeferredEligible: eligible,
	}
}

// NewCartItems converts raw item inputs into cart items.
func NewCartItems(inputs []CartItemInput) []CartItem {
	items := make([]CartItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, in.Item())
	}
	return items
}
