package service

import "bnpl-agent/domain"

// Classifier partitions cart items into essential (pay now) and deferred
// candidates using category and price rules only.
type Classifier struct {
	policy Policy
}

func NewClassifier(policy Policy) *Classifier {
	return &Classifier{policy: policy}
}

// Classify splits items into two disjoint, order-preserving partitions.
// The IsEssential flag is set on each input item as a side effect and
// reflects category membership only: a cheap non-essential item still lands
// in the pay-now partition, but keeps IsEssential false.
func (c *Classifier) Classify(
	items []domain.CartItem,
) (payNow, candidates []domain.CartItem) {

	for i := range items {
		item := &items[i]
		item.IsEssential = c.policy.IsEssentialCategory(item.Category)

		switch {
		case item.IsEssential:
			payNow = append(payNow, *item)
		case item.DeferredEligible && item.Price.GreaterThanOrEqual(c.policy.MinDeferredAmount):
			candidates = append(candidates, *item)
		default:
			// Compras pequeñas no esenciales no vale la pena financiarlas
			payNow = append(payNow, *item)
		}
	}

	return payNow, candidates
}
