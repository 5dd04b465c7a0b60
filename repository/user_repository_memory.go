package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"bnpl-agent/domain"
)

const dateLayout = "2006-01-02"

// UserRepositoryMemory is an in-memory implementation of UserRepository,
// pre-loaded from a JSON user database file.
type UserRepositoryMemory struct {
	byID  map[string]domain.UserProfile
	order []string
}

// NewUserRepositoryMemory creates a new empty in-memory user repository.
func NewUserRepositoryMemory() *UserRepositoryMemory {
	return &UserRepositoryMemory{
		byID: make(map[string]domain.UserProfile),
	}
}

// Add stores a user profile, replacing any previous profile with the same id.
func (r *UserRepositoryMemory) Add(profile domain.UserProfile) {
	if _, exists := r.byID[profile.ID]; !exists {
		r.order = append(r.order, profile.ID)
	}
	r.byID[profile.ID] = profile
}

func (r *UserRepositoryMemory) FindByID(id string) (domain.UserProfile, bool) {
	profile, ok := r.byID[id]
	return profile, ok
}

// List returns every profile in load order.
func (r *UserRepositoryMemory) List() []domain.UserProfile {
	profiles := make([]domain.UserProfile, 0, len(r.order))
	for _, id := range r.order {
		profiles = append(profiles, r.byID[id])
	}
	return profiles
}

type userFile struct {
	Users []userRecord `json:"users"`
}

type userRecord struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	BankBalance      decimal.Decimal `json:"bank_balance"`
	UpcomingBills    []billRecord    `json:"upcoming_bills"`
	NextPaycheck     *paycheckRecord `json:"next_paycheck"`
	DeferredEligible bool            `json:"deferred_eligible"`
	CreditTier       string          `json:"credit_tier"`
}

type billRecord struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"due_date"`
}

type paycheckRecord struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// LoadFromFile loads user profiles from a JSON user database file.
func (r *UserRepositoryMemory) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read user db: %w", err)
	}

	var file userFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse user db: %w", err)
	}

	for _, record := range file.Users {
		profile, err := record.profile()
		if err != nil {
			return fmt.Errorf("user %q: %w", record.ID, err)
		}
		r.Add(profile)
	}
	return nil
}

func (record userRecord) profile() (domain.UserProfile, error) {
	profile := domain.UserProfile{
		ID:               record.ID,
		Name:             record.Name,
		BankBalance:      record.BankBalance,
		DeferredEligible: record.DeferredEligible,
		CreditTier:       record.CreditTier,
	}

	for _, bill := range record.UpcomingBills {
		due, err := time.Parse(dateLayout, bill.DueDate)
		if err != nil {
			return domain.UserProfile{}, fmt.Errorf("bill %q: invalid due date %q", bill.Name, bill.DueDate)
		}
		profile.UpcomingBills = append(profile.UpcomingBills, domain.Bill{
			Name:    bill.Name,
			Amount:  bill.Amount,
			DueDate: due,
		})
	}

	if record.NextPaycheck != nil {
		date, err := time.Parse(dateLayout, record.NextPaycheck.Date)
		if err != nil {
			return domain.UserProfile{}, fmt.Errorf("invalid paycheck date %q", record.NextPaycheck.Date)
		}
		profile.NextPaycheck = &domain.Paycheck{
			Amount: record.NextPaycheck.Amount,
			Date:   date,
		}
	}

	return profile, nil
}
