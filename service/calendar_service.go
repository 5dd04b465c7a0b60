package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"bnpl-agent/domain"
)

// CalendarService merges the optimization outcome with the snapshot's bills
// and paycheck into one chronologically ordered cash-flow calendar.
type CalendarService struct {
	snapshots *SnapshotService
	optimizer *OptimizerService
	policy    Policy
}

func NewCalendarService(
	snapshots *SnapshotService,
	optimizer *OptimizerService,
	policy Policy,
) *CalendarService {
	return &CalendarService{snapshots: snapshots, optimizer: optimizer, policy: policy}
}

// PaymentCalendar optimizes the cart and returns the full calendar of
// resulting payments, upcoming bills and expected income.
func (s *CalendarService) PaymentCalendar(
	userID string,
	items []domain.CartItem,
	now time.Time,
) ([]domain.CalendarEvent, error) {

	result, err := s.optimizer.OptimizeCart(userID, items, now)
	if err != nil {
		return nil, err
	}
	// El snapshot ya quedó en cache durante la optimización
	snapshot, err := s.snapshots.BuildSnapshot(userID, now)
	if err != nil {
		return nil, err
	}
	return s.BuildCalendar(result, snapshot, now), nil
}

// BuildCalendar assembles the event stream: the pay-now payment today, the
// installment payments every interval, one event per upcoming bill and the
// paycheck if one falls in the window. Events are sorted ascending by date;
// same-day events keep their construction order.
func (s *CalendarService) BuildCalendar(
	result domain.OptimizationResult,
	snapshot domain.FinancialSnapshot,
	now time.Time,
) []domain.CalendarEvent {

	events := []domain.CalendarEvent{}

	events = append(events, domain.CalendarEvent{
		Date:        now.Format(dateLayout),
		Type:        domain.EventPayment,
		Description: "Cart purchase - pay now items",
		Amount:      result.PayNowTotal.Neg(),
	})

	if len(result.DeferredItems) > 0 {
		names := itemNames(result.DeferredItems)
		per := result.DeferredTotal.DivRound(
			decimal.NewFromInt(int64(s.policy.Installments)), 2)
		for i := 0; i < s.policy.Installments; i++ {
			date := now.AddDate(0, 0, 7*s.policy.IntervalWeeks*i)
			events = append(events, domain.CalendarEvent{
				Date:         date.Format(dateLayout),
				Type:         domain.EventDeferredPayment,
				Description:  fmt.Sprintf("Deferred payment %d/%d", i+1, s.policy.Installments),
				Amount:       per.Neg(),
				RelatedItems: names,
			})
		}
	}

	for _, bill := range snapshot.UpcomingBills {
		events = append(events, domain.CalendarEvent{
			Date:        bill.DueDate,
			Type:        domain.EventBill,
			Description: bill.Name,
			Amount:      bill.Amount.Neg(),
		})
	}

	if snapshot.PaycheckDate != "" {
		events = append(events, domain.CalendarEvent{
			Date:        snapshot.PaycheckDate,
			Type:        domain.EventIncome,
			Description: "Paycheck",
			Amount:      snapshot.PaycheckAmount,
		})
	}

	// Ordenar por fecha, preservando el orden de construcción en empates
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})

	return events
}
