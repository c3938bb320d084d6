package tui

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	minCounterDuration = 2 * time.Second
	maxCounterDuration = 10 * time.Second
	counterPerUnit     = 40 * time.Millisecond
	bigWinLinger       = 1500 * time.Millisecond
)

var (
	fastTier    = decimal.NewFromInt(20)
	fastestTier = decimal.NewFromInt(50)
)

// bigWin counts a large payout up from zero. It only drives the overlay
// text; the balance is credited before it starts.
type bigWin struct {
	id       int
	amount   decimal.Decimal
	bet      decimal.Decimal
	duration time.Duration
	progress float64
	linger   time.Duration
}

func newBigWin(id int, amount, bet decimal.Decimal) *bigWin {
	return &bigWin{
		id:       id,
		amount:   amount,
		bet:      bet,
		duration: counterDuration(amount),
	}
}

// counterDuration scales with the amount, within [2s, 10s].
func counterDuration(amount decimal.Decimal) time.Duration {
	d := time.Duration(amount.Mul(decimal.NewFromInt(int64(counterPerUnit))).IntPart())
	if d < minCounterDuration {
		return minCounterDuration
	}
	if d > maxCounterDuration {
		return maxCounterDuration
	}
	return d
}

// speed picks the counting rate from how many bets are already shown.
func speed(shown, bet decimal.Decimal) float64 {
	if !bet.IsPositive() {
		return 1
	}
	ratio := shown.Div(bet)
	switch {
	case ratio.GreaterThanOrEqual(fastestTier):
		return 3.2
	case ratio.GreaterThanOrEqual(fastTier):
		return 1.8
	default:
		return 0.9
	}
}

// shown is the amount currently displayed, eased so the count starts slow.
func (b *bigWin) shown() decimal.Decimal {
	if b.progress >= 1 {
		return b.amount
	}
	eased := b.progress * (0.5 + b.progress/2)
	return b.amount.Mul(decimal.NewFromFloat(eased)).Round(2)
}

func (b *bigWin) counting() bool { return b.progress < 1 }

// step advances one frame and reports whether the overlay is finished.
func (b *bigWin) step(frame time.Duration) bool {
	if b.counting() {
		b.progress += float64(frame) / float64(b.duration) * speed(b.shown(), b.bet)
		if b.progress > 1 {
			b.progress = 1
		}
		return false
	}
	b.linger += frame
	return b.linger >= bigWinLinger
}
