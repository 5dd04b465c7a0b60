package service

import "github.com/shopspring/decimal"

// Policy holds every decision threshold used by the engine. It is built once
// and injected at service construction; services never mutate it, so tests
// can run alternate policy tables.
type Policy struct {
	EssentialCategories    []string
	MinDeferredAmount      decimal.Decimal
	MaxDeferredAmount      decimal.Decimal
	BufferPercent          decimal.Decimal
	SafeInstallmentPercent decimal.Decimal
	Installments           int
	IntervalWeeks          int
	FeePercent             decimal.Decimal
	LookAheadDays          int
	LowBalanceThreshold    decimal.Decimal
}

// DefaultPolicy returns the standard 4-pay, zero-fee policy.
func DefaultPolicy() Policy {
	return Policy{
		EssentialCategories:    defaultEssentialCategories,
		MinDeferredAmount:      decimal.RequireFromString(DefaultMinDeferredAmount),
		MaxDeferredAmount:      decimal.RequireFromString(DefaultMaxDeferredAmount),
		BufferPercent:          decimal.RequireFromString(DefaultBufferPercent),
		SafeInstallmentPercent: decimal.RequireFromString(DefaultSafeInstallmentPercent),
		Installments:           DefaultInstallments,
		IntervalWeeks:          DefaultIntervalWeeks,
		FeePercent:             decimal.Zero,
		LookAheadDays:          DefaultLookAheadDays,
		LowBalanceThreshold:    decimal.RequireFromString(DefaultLowBalanceThreshold),
	}
}

// IsEssentialCategory reports whether the category is in the essential set.
func (p Policy) IsEssentialCategory(category string) bool {
	for _, essential := range p.EssentialCategories {
		if category == essential {
			return true
		}
	}
	return false
}
