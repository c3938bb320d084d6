package engine

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tatianab/slots/internal/models"
	"go.uber.org/zap"
)

// ReelSet owns the reel strips and their animation. StartSpin must call
// onAllStopped exactly once, after every reel has settled.
type ReelSet interface {
	VisibleGrid() models.Grid
	StartSpin(onAllStopped func())
	SwitchGraphics(variant models.StripVariant)
}

// Renderer presents game state. AnimateMegaWildMove must call onComplete
// exactly once when the move has finished.
type Renderer interface {
	RenderWinHighlights(results []models.WinResult)
	ClearWinHighlights()
	RenderStickyCoins(state models.HoldAndSpinState)
	ClearStickyCoins()
	ShowPayoutAmount(amount decimal.Decimal)
	UpdateBalanceDisplay(balance decimal.Decimal)
	UpdateBonusTotalDisplay(total decimal.Decimal)
	RemoveBonusTotalDisplay()
	ShowMegaWild(reel int)
	AnimateMegaWildMove(from, to int, onComplete func())
	RemoveMegaWild()
}

// Prompter asks the player for confirmations and shows blocking notices.
type Prompter interface {
	ConfirmBonusEntry(title, description string, onAccept func())
	Notify(message string)
}

// Scheduler runs fn once after d on the engine's goroutine.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Rand is the source for coin values.
type Rand interface {
	Float64() float64
}

// SpinReport describes one resolved spin.
type SpinReport struct {
	Round   string
	Session string
	Bonus   models.BonusKind // bonus the spin belonged to, BonusNone for base spins
	Stake   decimal.Decimal
	Grid    models.Grid
	Wins    []models.WinResult
	Win     decimal.Decimal
	Coins   int // coins locked by a Hold-and-Spin spin
	Trigger models.BonusKind
	Balance decimal.Decimal
}

// Observer receives round and bonus events, e.g. for statistics.
type Observer interface {
	SpinResolved(report SpinReport)
	BonusStarted(kind models.BonusKind, cost decimal.Decimal)
	BonusEnded(kind models.BonusKind, payout decimal.Decimal)
}

// NopRenderer draws nothing and completes moves immediately.
type NopRenderer struct{}

func (NopRenderer) RenderWinHighlights([]models.WinResult) {}
func (NopRenderer) ClearWinHighlights() {}
func (NopRenderer) RenderStickyCoins(models.HoldAndSpinState) {}
func (NopRenderer) ClearStickyCoins() {}
func (NopRenderer) ShowPayoutAmount(decimal.Decimal) {}
func (NopRenderer) UpdateBalanceDisplay(decimal.Decimal) {}
func (NopRenderer) UpdateBonusTotalDisplay(decimal.Decimal) {}
func (NopRenderer) RemoveBonusTotalDisplay() {}
func (NopRenderer) ShowMegaWild(int) {}
func (NopRenderer) AnimateMegaWildMove(_, _ int, done func()) { done() }
func (NopRenderer) RemoveMegaWild() {}

// AutoAcceptPrompter enters every offered bonus and discards notices.
type AutoAcceptPrompter struct{}

func (AutoAcceptPrompter) ConfirmBonusEntry(_, _ string, onAccept func()) { onAccept() }
func (AutoAcceptPrompter) Notify(string) {}

// ImmediateScheduler runs scheduled functions synchronously.
type ImmediateScheduler struct{}

func (ImmediateScheduler) After(_ time.Duration, fn func()) { fn() }

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) SpinResolved(SpinReport) {}
func (NopObserver) BonusStarted(models.BonusKind, decimal.Decimal) {}
func (NopObserver) BonusEnded(models.BonusKind, decimal.Decimal) {}

// Option configures an Engine.
type Option func(*Engine)

func WithRenderer(r Renderer) Option { return func(e *Engine) { e.renderer = r } }

func WithPrompter(p Prompter) Option { return func(e *Engine) { e.prompter = p } }

func WithScheduler(s Scheduler) Option { return func(e *Engine) { e.scheduler = s } }

func WithObserver(o Observer) Option { return func(e *Engine) { e.observer = o } }

func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.log = l } }

func WithEvaluator(ev Evaluator) Option { return func(e *Engine) { e.evaluator = ev } }

// WithBuyMultipliers sets the purchase price of each bonus in bets.
func WithBuyMultipliers(megaWild, holdAndSpin int64) Option {
	return func(e *Engine) {
		e.megaWildBuy = decimal.NewFromInt(megaWild)
		e.holdAndSpinBuy = decimal.NewFromInt(holdAndSpin)
	}
}

// WithHoldAndSpinDelays sets the pause before the first bonus spin and
// between bonus spins.
func WithHoldAndSpinDelays(start, next time.Duration) Option {
	return func(e *Engine) {
		e.holdStartDelay = start
		e.holdContinueDelay = next
	}
}

func newRand() Rand {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
}
