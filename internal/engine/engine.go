package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tatianab/slots/internal/models"
	"go.uber.org/zap"
)

// State is the orchestrator's spin state.
type State int

const (
	StateIdle State = iota
	StateSpinning
	StateAwaitingBonusMove
)

func (s State) String() string {
	switch s {
	case StateSpinning:
		return "spinning"
	case StateAwaitingBonusMove:
		return "awaiting_bonus_move"
	default:
		return "idle"
	}
}

// Engine runs spins for one session. It is driven from a single goroutine:
// entry points and collaborator callbacks must all arrive on the same loop.
type Engine struct {
	session   *models.Session
	reels     ReelSet
	renderer  Renderer
	prompter  Prompter
	scheduler Scheduler
	observer  Observer
	rng       Rand
	log       *zap.Logger
	evaluator Evaluator

	megaWildBuy       decimal.Decimal
	holdAndSpinBuy    decimal.Decimal
	holdStartDelay    time.Duration
	holdContinueDelay time.Duration

	state   State
	spinSeq int
	round   string
	stake   decimal.Decimal

	mega megaWild
	hold holdAndSpin
}

// New returns an idle engine for session. Collaborators not supplied through
// options fall back to no-op implementations.
func New(session *models.Session, reels ReelSet, opts ...Option) *Engine {
	e := &Engine{
		session:           session,
		reels:             reels,
		renderer:          NopRenderer{},
		prompter:          AutoAcceptPrompter{},
		scheduler:         ImmediateScheduler{},
		observer:          NopObserver{},
		log:               zap.NewNop(),
		evaluator:         DefaultEvaluator(),
		megaWildBuy:       decimal.NewFromInt(100),
		holdAndSpinBuy:    decimal.NewFromInt(70),
		holdStartDelay:    50 * time.Millisecond,
		holdContinueDelay: 600 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = newRand()
	}
	e.log = e.log.With(zap.String("session", session.ID))
	return e
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Balance() decimal.Decimal { return e.session.Balance }

func (e *Engine) Bet() decimal.Decimal { return e.session.Bet }

func (e *Engine) SessionID() string { return e.session.ID }

func (e *Engine) MegaWildActive() bool { return e.mega.st.Active }

func (e *Engine) HoldAndSpinActive() bool { return e.hold.st.Active }

// BonusActive reports whether either bonus is running.
func (e *Engine) BonusActive() bool { return e.mega.st.Active || e.hold.st.Active }

// MegaWild returns a copy of the Mega-Wild state.
func (e *Engine) MegaWild() models.MegaWildState {
	st := e.mega.st
	if st.PendingMove != nil {
		mv := *st.PendingMove
		st.PendingMove = &mv
	}
	return st
}

// HoldAndSpin returns a copy of the Hold-and-Spin state.
func (e *Engine) HoldAndSpin() models.HoldAndSpinState { return e.hold.st.Clone() }

// BuyCost is the current purchase price of kind.
func (e *Engine) BuyCost(kind models.BonusKind) decimal.Decimal {
	switch kind {
	case models.BonusMegaWild:
		return e.session.Bet.Mul(e.megaWildBuy).Round(2)
	case models.BonusHoldAndSpin:
		return e.session.Bet.Mul(e.holdAndSpinBuy).Round(2)
	}
	return decimal.Zero
}

// BetAdjustable reports whether the bet may change right now.
func (e *Engine) BetAdjustable() bool {
	return e.state == StateIdle && !e.BonusActive()
}

func (e *Engine) IncreaseBet() bool { return e.adjustBet(1) }

func (e *Engine) DecreaseBet() bool { return e.adjustBet(-1) }

func (e *Engine) adjustBet(steps int) bool {
	if !e.BetAdjustable() {
		e.log.Debug("bet locked", zap.Stringer("state", e.state), zap.Bool("bonus", e.BonusActive()))
		return false
	}
	if !e.session.AdjustBet(steps) {
		return false
	}
	e.log.Debug("bet changed", zap.Stringer("bet", e.session.Bet))
	return true
}

// RequestSpin starts a spin. Base spins debit the bet first; bonus spins are
// free. It returns ErrSpinInProgress when not idle and ErrInsufficientFunds
// after notifying the player.
func (e *Engine) RequestSpin() error {
	if e.state != StateIdle {
		e.log.Debug("spin rejected", zap.Stringer("state", e.state))
		return ErrSpinInProgress
	}

	e.stake = decimal.Zero
	if !e.BonusActive() {
		bet := e.session.Bet
		if !e.session.Debit(bet) {
			e.log.Info("insufficient funds", zap.Stringer("bet", bet), zap.Stringer("balance", e.session.Balance))
			e.prompter.Notify(fmt.Sprintf("Insufficient balance: a spin costs %s, you have %s.",
				bet.StringFixed(2), e.session.Balance.StringFixed(2)))
			return fmt.Errorf("spin of %s: %w", bet.StringFixed(2), ErrInsufficientFunds)
		}
		e.stake = bet
		e.renderer.UpdateBalanceDisplay(e.session.Balance)
	}

	e.round = uuid.NewString()
	e.renderer.ClearWinHighlights()
	e.renderer.ShowPayoutAmount(decimal.Zero)

	if e.mega.st.CleanupPending {
		e.mega.st.CleanupPending = false
		e.renderer.RemoveMegaWild()
	}

	if e.mega.st.Active && e.mega.st.PendingMove != nil {
		mv := *e.mega.st.PendingMove
		e.state = StateAwaitingBonusMove
		e.spinSeq++
		seq := e.spinSeq
		e.log.Debug("mega wild moving", zap.Int("from", mv.From), zap.Int("to", mv.To))
		e.renderer.AnimateMegaWildMove(mv.From, mv.To, func() { e.onMoveComplete(seq) })
		return nil
	}

	e.spinReels()
	return nil
}

func (e *Engine) onMoveComplete(seq int) {
	if e.state != StateAwaitingBonusMove || seq != e.spinSeq {
		e.log.Warn("stale move completion ignored", zap.Stringer("state", e.state))
		return
	}
	e.mega.st.PendingMove = nil
	e.spinReels()
}

func (e *Engine) spinReels() {
	e.state = StateSpinning
	e.spinSeq++
	seq := e.spinSeq
	e.reels.StartSpin(func() { e.onReelsStopped(seq) })
}

func (e *Engine) onReelsStopped(seq int) {
	if e.state != StateSpinning || seq != e.spinSeq {
		e.log.Warn("stale reel stop ignored", zap.Stringer("state", e.state))
		return
	}
	grid := e.reels.VisibleGrid()

	// Idle before dispatch so a consumer may schedule the next spin itself.
	e.state = StateIdle

	switch {
	case e.mega.st.Active:
		e.resolveMegaWildSpin(grid)
	case e.hold.st.Active:
		e.resolveHoldAndSpinSpin(grid)
	default:
		e.resolveBaseSpin(grid)
	}
}

func (e *Engine) resolveBaseSpin(grid models.Grid) {
	bet := e.session.Bet
	results := e.evaluator.Evaluate(grid)
	if len(results) > 0 {
		e.renderer.RenderWinHighlights(results)
	}
	credited := e.session.Credit(e.evaluator.CalculateTotalWin(results, bet))
	if credited.IsPositive() {
		e.renderer.ShowPayoutAmount(credited)
		e.renderer.UpdateBalanceDisplay(e.session.Balance)
	}

	trigger := DetectTrigger(grid)
	e.log.Debug("spin resolved",
		zap.String("round", e.round),
		zap.Stringer("bet", bet),
		zap.Int("lines", len(results)),
		zap.Stringer("win", credited),
		zap.Stringer("balance", e.session.Balance),
		zap.Stringer("trigger", trigger),
	)
	e.observer.SpinResolved(SpinReport{
		Round:   e.round,
		Session: e.session.ID,
		Stake:   e.stake,
		Grid:    grid,
		Wins:    results,
		Win:     credited,
		Trigger: trigger,
		Balance: e.session.Balance,
	})

	switch trigger {
	case models.BonusMegaWild:
		e.prompter.ConfirmBonusEntry("MEGA WILD BONUS",
			"3 or more B! landed. Play 10 free spins with a wolf covering a whole reel.",
			e.acceptBonus(models.BonusMegaWild, decimal.Zero, nil))
	case models.BonusHoldAndSpin:
		e.prompter.ConfirmBonusEntry("HOLD AND SPIN BONUS",
			"5 or more WILD landed. Every WILD locks as a coin and each new coin resets the spins to 3.",
			e.acceptBonus(models.BonusHoldAndSpin, decimal.Zero, grid))
	}
}

func (e *Engine) BuyMegaWild() error { return e.buy(models.BonusMegaWild) }

func (e *Engine) BuyHoldAndSpin() error { return e.buy(models.BonusHoldAndSpin) }

func (e *Engine) buy(kind models.BonusKind) error {
	if e.state != StateIdle {
		return ErrSpinInProgress
	}
	if e.BonusActive() {
		return ErrBonusActive
	}

	cost := e.BuyCost(kind)
	switch kind {
	case models.BonusMegaWild:
		e.prompter.ConfirmBonusEntry("BUY MEGA WILD",
			fmt.Sprintf("Cost: %s. Play 10 free spins with a wolf covering a whole reel.", cost.StringFixed(2)),
			e.acceptBonus(kind, cost, nil))
	case models.BonusHoldAndSpin:
		// Seeds from the reels as they stand when the purchase is requested.
		grid := e.reels.VisibleGrid()
		e.prompter.ConfirmBonusEntry("BUY HOLD AND SPIN",
			fmt.Sprintf("Cost: %s. WILDs on the reels lock as coins and you get 3 spins to land more.", cost.StringFixed(2)),
			e.acceptBonus(kind, cost, grid))
	}
	return nil
}

// acceptBonus returns the confirmation callback that enters kind. A purchase
// debits cost when accepted.
func (e *Engine) acceptBonus(kind models.BonusKind, cost decimal.Decimal, grid models.Grid) func() {
	return func() {
		if e.state != StateIdle || e.BonusActive() {
			e.log.Debug("bonus entry ignored", zap.Stringer("bonus", kind), zap.Stringer("state", e.state))
			return
		}
		if cost.IsPositive() {
			if !e.session.Debit(cost) {
				e.log.Info("insufficient funds for bonus buy", zap.Stringer("bonus", kind), zap.Stringer("cost", cost))
				e.prompter.Notify(fmt.Sprintf("Insufficient balance: the bonus costs %s, you have %s.",
					cost.StringFixed(2), e.session.Balance.StringFixed(2)))
				return
			}
			e.renderer.UpdateBalanceDisplay(e.session.Balance)
		}
		e.log.Info("bonus started", zap.Stringer("bonus", kind), zap.Stringer("cost", cost), zap.Stringer("bet", e.session.Bet))
		e.observer.BonusStarted(kind, cost)

		switch kind {
		case models.BonusMegaWild:
			e.startMegaWild()
		case models.BonusHoldAndSpin:
			e.startHoldAndSpin(grid)
		}
	}
}
