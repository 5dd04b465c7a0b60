package domain

import "github.com/shopspring/decimal"

// Calendar event types.
const (
	EventPayment         = "PAYMENT"
	EventDeferredPayment = "DEFERRED_PAYMENT"
	EventBill            = "BILL"
	EventIncome          = "INCOME"
)

// CalendarEvent is a single future cash-flow event. Dates are canonical
// YYYY-MM-DD strings so lexicographic and chronological order coincide.
type CalendarEvent struct {
	Date         string
	Type         string
	Description  string
	Amount       decimal.Decimal // negative = outflow
	RelatedItems []string        `json:",omitempty"`
}
