package loyalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *Engine {
	return NewEngine(DefaultTiers())
}

func TestTierBySpent(t *testing.T) {
	e := newEngine()

	tests := []struct {
		spent int64
		want  string
	}{
		{0, "bronze"},
		{49999, "bronze"},
		{50000, "silver"},
		{149999, "silver"},
		{150000, "gold"},
		{1000000, "gold"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, e.TierBySpent(tt.spent).Name, "spent=%d", tt.spent)
	}
}

func TestTierMonotonicity(t *testing.T) {
	e := newEngine()

	var prev int64 = -1
	for spent := int64(0); spent <= 200000; spent += 1000 {
		percent := e.TierBySpent(spent).CashbackPercent
		require.GreaterOrEqual(t, percent, prev, "cashback percent must not decrease at spent=%d", spent)
		prev = percent
	}
}

func TestBonusEarned(t *testing.T) {
	e := newEngine()

	// bronze at 5%
	assert.Equal(t, int64(500), e.BonusEarned(10000, 40000))
	// silver at 7%
	assert.Equal(t, int64(700), e.BonusEarned(10000, 60000))
	// gold at 10%
	assert.Equal(t, int64(1000), e.BonusEarned(10000, 150000))
	// rounding: 5% of 1010 = 50.5, rounds to 51
	assert.Equal(t, int64(51), e.BonusEarned(1010, 0))
	// 5% of 1009 = 50.45, rounds to 50
	assert.Equal(t, int64(50), e.BonusEarned(1009, 0))
}

func TestMaxBonusSpendCapInvariant(t *testing.T) {
	e := newEngine()

	subtotals := []int64{0, 1, 999, 10000, 10001, 250000}
	balances := []int64{0, 1, 100, 5000, 1 << 40}

	for _, subtotal := range subtotals {
		for _, balance := range balances {
			got := e.MaxBonusSpend(subtotal, balance)
			assert.LessOrEqual(t, got, subtotal/2, "subtotal=%d balance=%d", subtotal, balance)
			assert.LessOrEqual(t, got, balance, "subtotal=%d balance=%d", subtotal, balance)
		}
	}

	// cap binds before balance
	assert.Equal(t, int64(5000), e.MaxBonusSpend(10000, 8000))
	// balance binds before cap
	assert.Equal(t, int64(100), e.MaxBonusSpend(10000, 100))
}

func TestNextTier(t *testing.T) {
	e := newEngine()

	next, remaining, ok := e.NextTier(0)
	require.True(t, ok)
	assert.Equal(t, "silver", next.Name)
	assert.Equal(t, int64(50000), remaining)

	next, remaining, ok = e.NextTier(40000)
	require.True(t, ok)
	assert.Equal(t, "silver", next.Name)
	assert.Equal(t, int64(10000), remaining)

	next, remaining, ok = e.NextTier(50000)
	require.True(t, ok)
	assert.Equal(t, "gold", next.Name)
	assert.Equal(t, int64(100000), remaining)

	_, _, ok = e.NextTier(150000)
	assert.False(t, ok, "gold is the top tier")
}
