package engine

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tatianab/slots/internal/models"
	"go.uber.org/zap"
)

const holdAndSpinSpins = 3

var (
	coinMin  = decimal.NewFromFloat(1.5)
	coinSpan = decimal.NewFromFloat(2.5)
)

type holdAndSpin struct {
	st  models.HoldAndSpinState
	run int // bumped on every start so stale continue timers can tell
}

func (h *holdAndSpin) start(grid models.Grid, bet decimal.Decimal, rng Rand) {
	reels, rows := grid.Reels(), grid.Rows()
	if reels == 0 || rows == 0 {
		reels, rows = models.ReelCount, models.SymbolsPerReel
	}
	h.run++
	h.st = models.HoldAndSpinState{
		Active:    true,
		SpinsLeft: holdAndSpinSpins,
		Sticky:    make([][]bool, reels),
		Values:    make([][]decimal.Decimal, reels),
	}
	for r := range h.st.Sticky {
		h.st.Sticky[r] = make([]bool, rows)
		h.st.Values[r] = make([]decimal.Decimal, rows)
	}
	h.lock(grid, bet, rng)
}

// lock turns every free WILD cell into a coin and returns how many it added.
func (h *holdAndSpin) lock(grid models.Grid, bet decimal.Decimal, rng Rand) int {
	added := 0
	for r, col := range h.st.Sticky {
		for c, held := range col {
			if held {
				continue
			}
			if sym, ok := grid.At(models.Position{Reel: r, Row: c}); ok && sym == models.SymbolWild {
				h.st.Sticky[r][c] = true
				h.st.Values[r][c] = coinValue(bet, rng)
				added++
			}
		}
	}
	return added
}

// coinValue draws bet x U[1.5, 4.0), rounded to cents.
func coinValue(bet decimal.Decimal, rng Rand) decimal.Decimal {
	f := decimal.NewFromFloat(rng.Float64())
	return bet.Mul(coinMin.Add(coinSpan.Mul(f))).Round(2)
}

// advance books one resolved spin and reports whether the bonus is over.
func (h *holdAndSpin) advance(added int) bool {
	if added > 0 {
		h.st.SpinsLeft = holdAndSpinSpins
	} else {
		h.st.SpinsLeft--
	}
	return h.st.SpinsLeft <= 0 || h.st.Full()
}

func (h *holdAndSpin) finish() decimal.Decimal {
	total := h.st.Total()
	h.st = models.HoldAndSpinState{}
	return total
}

func (e *Engine) startHoldAndSpin(grid models.Grid) {
	e.hold.start(grid, e.session.Bet, e.rng)
	e.renderer.ClearStickyCoins()
	e.renderer.RenderStickyCoins(e.hold.st.Clone())
	e.reels.SwitchGraphics(models.StripHoldAndSpin)
	e.log.Debug("hold and spin seeded", zap.Int("coins", e.hold.st.StickyCount()))
	e.scheduleHoldAndSpin(e.holdStartDelay)
}

func (e *Engine) scheduleHoldAndSpin(d time.Duration) {
	run := e.hold.run
	e.scheduler.After(d, func() {
		if !e.hold.st.Active || e.hold.run != run {
			return
		}
		if err := e.RequestSpin(); err != nil {
			e.log.Debug("hold and spin continue skipped", zap.Error(err))
		}
	})
}

func (e *Engine) resolveHoldAndSpinSpin(grid models.Grid) {
	added := e.hold.lock(grid, e.session.Bet, e.rng)
	done := e.hold.advance(added)
	e.renderer.RenderStickyCoins(e.hold.st.Clone())

	e.log.Debug("hold and spin spin",
		zap.String("round", e.round),
		zap.Int("coins", added),
		zap.Int("spins_left", e.hold.st.SpinsLeft),
	)
	e.observer.SpinResolved(SpinReport{
		Round:   e.round,
		Session: e.session.ID,
		Bonus:   models.BonusHoldAndSpin,
		Stake:   e.stake,
		Grid:    grid,
		Win:     decimal.Zero,
		Coins:   added,
		Balance: e.session.Balance,
	})

	if done {
		e.endHoldAndSpin()
		return
	}
	e.scheduleHoldAndSpin(e.holdContinueDelay)
}

func (e *Engine) endHoldAndSpin() {
	credited := e.session.Credit(e.hold.finish())
	e.renderer.ClearStickyCoins()
	e.reels.SwitchGraphics(models.StripNormal)
	e.renderer.ClearWinHighlights()
	if credited.IsPositive() {
		e.renderer.ShowPayoutAmount(credited)
	}
	e.renderer.UpdateBalanceDisplay(e.session.Balance)
	e.log.Info("bonus ended", zap.Stringer("bonus", models.BonusHoldAndSpin), zap.Stringer("payout", credited), zap.Stringer("balance", e.session.Balance))
	e.observer.BonusEnded(models.BonusHoldAndSpin, credited)
}
