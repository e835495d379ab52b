package pricing

import (
	"errors"
	"fmt"
	"sort"
)

// RuleContext selects which delivery rule set applies at checkout.
type RuleContext string

const (
	ContextItems RuleContext = "items"
	ContextXerox RuleContext = "xerox"
)

// DeliveryChargeRule maps a subtotal range to a flat delivery charge.
// To == nil means the range is unbounded above.
type DeliveryChargeRule struct {
	From   float64  `json:"from"`
	To     *float64 `json:"to"`
	Charge float64  `json:"charge"`
}

func (r DeliveryChargeRule) contains(subtotal float64) bool {
	if subtotal < r.From {
		return false
	}
	return r.To == nil || subtotal <= *r.To
}

// NextTier describes the nearest cheaper tier above the given subtotal.
type NextTier struct {
	AmountNeeded float64 `json:"amount_needed"`
	Charge       float64 `json:"charge"`
	Free         bool    `json:"free"`
	Message      string  `json:"message"`
}

// Quote is the outcome of evaluating a rule set against a subtotal.
type Quote struct {
	Charge   float64   `json:"charge"`
	NextTier *NextTier `json:"next_tier,omitempty"`
}

// Evaluate finds the rule covering subtotal and, when a cheaper tier
// exists at a higher subtotal, describes how far away it is. A subtotal
// no rule covers is a configuration gap: the charge defaults to zero
// and no tier info is reported. Evaluate never fails.
func Evaluate(rules []DeliveryChargeRule, subtotal float64) Quote {
	if len(rules) == 0 {
		return Quote{}
	}

	sorted := make([]DeliveryChargeRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	var matched *DeliveryChargeRule
	for i := range sorted {
		if sorted[i].contains(subtotal) {
			matched = &sorted[i]
			break
		}
	}
	if matched == nil {
		return Quote{}
	}

	quote := Quote{Charge: matched.Charge}

	// Nearest tier above the subtotal that is strictly cheaper.
	for i := range sorted {
		r := sorted[i]
		if r.From > subtotal && r.Charge < matched.Charge {
			needed := r.From - subtotal
			tier := &NextTier{
				AmountNeeded: needed,
				Charge:       r.Charge,
				Free:         r.Charge == 0,
			}
			if tier.Free {
				tier.Message = fmt.Sprintf("Add items worth Rs %.2f more for FREE delivery.", needed)
			} else {
				tier.Message = fmt.Sprintf("Add items worth Rs %.2f more to reduce delivery charge to Rs %.2f.", needed, r.Charge)
			}
			quote.NextTier = tier
			break
		}
	}

	return quote
}

// HasMatch reports whether any rule covers the subtotal. Callers use it
// to tell a genuine free tier apart from a configuration gap, which
// Evaluate deliberately papers over with a zero charge.
func HasMatch(rules []DeliveryChargeRule, subtotal float64) bool {
	for _, r := range rules {
		if r.contains(subtotal) {
			return true
		}
	}
	return false
}

// ValidateRules checks that a rule set is non-overlapping when sorted
// by From and that only the last rule may be unbounded. It belongs to
// the admin configuration surface; Evaluate assumes pre-validated
// rules and never re-checks.
func ValidateRules(rules []DeliveryChargeRule) error {
	sorted := make([]DeliveryChargeRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	for i, r := range sorted {
		if r.Charge < 0 {
			return errors.New("delivery charge must not be negative")
		}
		if r.To != nil && *r.To < r.From {
			return fmt.Errorf("rule starting at %.2f ends before it begins", r.From)
		}
		if i == len(sorted)-1 {
			continue
		}
		if r.To == nil {
			return fmt.Errorf("unbounded rule starting at %.2f must be the last rule", r.From)
		}
		if *r.To >= sorted[i+1].From {
			return fmt.Errorf("rule ending at %.2f overlaps rule starting at %.2f", *r.To, sorted[i+1].From)
		}
	}
	return nil
}
