package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bill struct {
	Name    string
	Amount  decimal.Decimal
	DueDate time.Time
}

type Paycheck struct {
	Amount decimal.Decimal
	Date   time.Time
}

type UserProfile struct {
	ID               string
	Name             string
	BankBalance      decimal.Decimal
	UpcomingBills    []Bill
	NextPaycheck     *Paycheck `json:",omitempty"`
	DeferredEligible bool
	CreditTier       string
}

// UserSummary is the listing view of a profile.
type UserSummary struct {
	ID      string
	Name    string
	Balance decimal.Decimal
}

// UpcomingBill is a bill that falls inside the snapshot's look-ahead window.
type UpcomingBill struct {
	Name      string
	Amount    decimal.Decimal
	DueDate   string // YYYY-MM-DD
	DaysUntil int
}

// FinancialSnapshot is the user's financial situation computed for a single
// point in time. Immutable once built.
type FinancialSnapshot struct {
	UserID                 string
	UserName               string
	CurrentBalance         decimal.Decimal
	UpcomingBills          []UpcomingBill
	TotalUpcomingBills     decimal.Decimal
	PaycheckAmount         decimal.Decimal
	PaycheckDate           string // YYYY-MM-DD, empty when no paycheck in window
	ProjectedBalance       decimal.Decimal
	AvailableForSpending   decimal.Decimal
	SafeInstallmentCeiling decimal.Decimal
	DeferredEligible       bool
	CreditTier             string
}
