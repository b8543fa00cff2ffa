package loyalty

// Tier represents a loyalty level reached by cumulative confirmed spend.
type Tier struct {
	Name            string
	MinSpent        int64
	CashbackPercent int64
}

// Engine answers tier and cashback questions over an immutable tier table.
// All methods are pure functions of their numeric inputs.
type Engine struct {
	// ordered highest threshold first
	tiers []Tier
}

// DefaultTiers returns the production tier table.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "gold", MinSpent: 150000, CashbackPercent: 10},
		{Name: "silver", MinSpent: 50000, CashbackPercent: 7},
		{Name: "bronze", MinSpent: 0, CashbackPercent: 5},
	}
}

// NewEngine builds an engine over the given tier table. The table must be
// ordered highest threshold first; the last entry is the fallback tier.
func NewEngine(tiers []Tier) *Engine {
	return &Engine{tiers: tiers}
}

// TierBySpent returns the first tier whose threshold is covered by totalSpent,
// falling back to the lowest tier.
func (e *Engine) TierBySpent(totalSpent int64) Tier {
	for _, t := range e.tiers {
		if totalSpent >= t.MinSpent {
			return t
		}
	}
	return e.tiers[len(e.tiers)-1]
}

// BonusEarned computes the cashback for a booking. The tier is derived from
// totalSpent, which must be the cumulative confirmed spend excluding the
// booking being credited.
func (e *Engine) BonusEarned(finalPrice, totalSpent int64) int64 {
	tier := e.TierBySpent(totalSpent)
	return (finalPrice*tier.CashbackPercent + 50) / 100
}

// BonusSpendCeiling returns the largest redemption allowed on one booking
// regardless of balance: half the subtotal, rounded down. The cap keeps the
// cash part of every payment strictly positive.
func (e *Engine) BonusSpendCeiling(subtotal int64) int64 {
	return subtotal / 2
}

// MaxBonusSpend returns the amount the user may actually redeem on one
// booking given their balance.
func (e *Engine) MaxBonusSpend(subtotal, balance int64) int64 {
	ceiling := e.BonusSpendCeiling(subtotal)
	if balance < ceiling {
		return balance
	}
	return ceiling
}

// NextTier returns the next-higher tier and the spend still needed to reach
// it. ok is false when the user is already at the top tier.
func (e *Engine) NextTier(totalSpent int64) (next Tier, remaining int64, ok bool) {
	current := e.TierBySpent(totalSpent)
	// walk from the bottom up to find the first tier above the current one
	for i := len(e.tiers) - 1; i >= 0; i-- {
		if e.tiers[i].MinSpent > current.MinSpent {
			return e.tiers[i], e.tiers[i].MinSpent - totalSpent, true
		}
	}
	return Tier{}, 0, false
}
