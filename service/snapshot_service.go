package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"bnpl-agent/domain"
	"bnpl-agent/repository"
)

// ErrUserNotFound is returned when a profile lookup misses.
var ErrUserNotFound = errors.New("user not found")

const dateLayout = "2006-01-02"

type SnapshotService struct {
	repo   repository.UserRepository
	cache  repository.CacheRepository
	policy Policy
}

// NewSnapshotService creates a new SnapshotService with the given repository.
func NewSnapshotService(
	repo repository.UserRepository,
	cache repository.CacheRepository,
	policy Policy,
) *SnapshotService {
	return &SnapshotService{repo: repo, cache: cache, policy: policy}
}

// ListUsers lists every available user profile.
func (s *SnapshotService) ListUsers() []domain.UserSummary {
	profiles := s.repo.List()
	summaries := make([]domain.UserSummary, 0, len(profiles))
	for _, profile := range profiles {
		summaries = append(summaries, domain.UserSummary{
			ID:      profile.ID,
			Name:    profile.Name,
			Balance: profile.BankBalance,
		})
	}
	return summaries
}

// BuildSnapshot computes the user's financial snapshot for the given moment:
// upcoming bills and paycheck inside the look-ahead window, the spendable
// amount after the safety buffer, and the safe per-installment ceiling.
// Snapshots are deterministic per user and day, so they are cached by day.
func (s *SnapshotService) BuildSnapshot(
	userID string,
	now time.Time,
) (domain.FinancialSnapshot, error) {

	cacheKey := fmt.Sprintf("snapshot:%s:%s", userID, now.Format(dateLayout))
	if raw, ok := s.cache.Get(cacheKey); ok {
		var cached domain.FinancialSnapshot
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	profile, ok := s.repo.FindByID(userID)
	if !ok {
		return domain.FinancialSnapshot{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := today.AddDate(0, 0, s.policy.LookAheadDays)

	// Facturas dentro de la ventana
	var upcoming []domain.UpcomingBill
	totalBills := decimal.Zero
	for _, bill := range profile.UpcomingBills {
		if bill.DueDate.Before(today) || bill.DueDate.After(cutoff) {
			continue
		}
		upcoming = append(upcoming, domain.UpcomingBill{
			Name:      bill.Name,
			Amount:    bill.Amount,
			DueDate:   bill.DueDate.Format(dateLayout),
			DaysUntil: int(bill.DueDate.Sub(today).Hours() / 24),
		})
		totalBills = totalBills.Add(bill.Amount)
	}

	// Próximo salario, solo si cae dentro de la ventana
	paycheckAmount := decimal.Zero
	paycheckDate := ""
	if profile.NextPaycheck != nil {
		date := profile.NextPaycheck.Date
		if !date.Before(today) && !date.After(cutoff) {
			paycheckAmount = profile.NextPaycheck.Amount
			paycheckDate = date.Format(dateLayout)
		}
	}

	balance := profile.BankBalance
	projected := balance.Sub(totalBills).Add(paycheckAmount)

	// Disponible para gastos discrecionales, manteniendo un colchón
	buffer := balance.Mul(s.policy.BufferPercent)
	available := balance.Sub(totalBills).Sub(buffer)
	if available.IsNegative() {
		available = decimal.Zero
	}
	available = available.Round(2)

	ceiling := available.Mul(s.policy.SafeInstallmentPercent).Round(2)

	creditTier := profile.CreditTier
	if creditTier == "" {
		creditTier = "unknown"
	}

	snapshot := domain.FinancialSnapshot{
		UserID:                 profile.ID,
		UserName:               profile.Name,
		CurrentBalance:         balance,
		UpcomingBills:          upcoming,
		TotalUpcomingBills:     totalBills,
		PaycheckAmount:         paycheckAmount,
		PaycheckDate:           paycheckDate,
		ProjectedBalance:       projected.Round(2),
		AvailableForSpending:   available,
		SafeInstallmentCeiling: ceiling,
		DeferredEligible:       profile.DeferredEligible,
		CreditTier:             creditTier,
	}

	// Guardar en cache (no crítico si falla)
	if data, err := json.Marshal(snapshot); err == nil {
		if err := s.cache.Set(cacheKey, string(data), 24*time.Hour); err != nil {
			log.Printf("Warning: failed to cache snapshot for %s: %v", userID, err)
		}
	}

	return snapshot, nil
}
