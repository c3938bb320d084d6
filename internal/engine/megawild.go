package engine

import (
	"github.com/shopspring/decimal"
	"github.com/tatianab/slots/internal/models"
	"go.uber.org/zap"
)

const (
	megaWildSpins     = 10
	megaWildStartReel = models.ReelCount - 1
	megaWildDwell     = 2 // spins on a reel before the wolf steps left
)

type megaWild struct {
	st models.MegaWildState
}

func (m *megaWild) start() {
	m.st = models.MegaWildState{
		Active:      true,
		SpinsLeft:   megaWildSpins,
		CurrentReel: megaWildStartReel,
		TotalWin:    decimal.Zero,
	}
}

// overlay returns grid with the current reel covered by the wolf.
func (m *megaWild) overlay(grid models.Grid) models.Grid {
	g := grid.Clone()
	if r := m.st.CurrentReel; r >= 0 && r < len(g) {
		for row := range g[r] {
			g[r][row] = models.SymbolMegaWild
		}
	}
	return g
}

// advance books one resolved spin and reports whether the bonus is over.
func (m *megaWild) advance(win decimal.Decimal) bool {
	m.st.TotalWin = m.st.TotalWin.Add(win)
	m.st.SpinsLeft--
	m.st.SpinsOnReel++
	if m.st.SpinsOnReel >= megaWildDwell && m.st.CurrentReel > 0 {
		m.st.PendingMove = &models.ReelMove{From: m.st.CurrentReel, To: m.st.CurrentReel - 1}
		m.st.CurrentReel--
		m.st.SpinsOnReel = 0
	}
	return m.st.SpinsLeft <= 0
}

func (m *megaWild) finish() decimal.Decimal {
	total := m.st.TotalWin
	m.st = models.MegaWildState{CleanupPending: true, TotalWin: decimal.Zero}
	return total
}

func (e *Engine) startMegaWild() {
	if e.mega.st.CleanupPending {
		e.renderer.RemoveMegaWild()
	}
	e.mega.start()
	e.renderer.ShowMegaWild(e.mega.st.CurrentReel)
	e.renderer.UpdateBonusTotalDisplay(decimal.Zero)
}

func (e *Engine) resolveMegaWildSpin(visible models.Grid) {
	bet := e.session.Bet
	grid := e.mega.overlay(visible)
	results := e.evaluator.EvaluateMegaWild(grid)
	win := e.evaluator.CalculateTotalWin(results, bet)
	e.renderer.ShowPayoutAmount(win.Round(2))
	if win.IsPositive() {
		e.renderer.RenderWinHighlights(results)
		e.renderer.UpdateBonusTotalDisplay(e.mega.st.TotalWin.Add(win))
	}

	reel := e.mega.st.CurrentReel
	done := e.mega.advance(win)
	e.log.Debug("mega wild spin",
		zap.String("round", e.round),
		zap.Int("reel", reel),
		zap.Stringer("win", win),
		zap.Stringer("total", e.mega.st.TotalWin),
		zap.Int("spins_left", e.mega.st.SpinsLeft),
	)
	e.observer.SpinResolved(SpinReport{
		Round:   e.round,
		Session: e.session.ID,
		Bonus:   models.BonusMegaWild,
		Stake:   e.stake,
		Grid:    grid,
		Wins:    results,
		Win:     win,
		Balance: e.session.Balance,
	})

	if done {
		e.endMegaWild()
	}
}

func (e *Engine) endMegaWild() {
	credited := e.session.Credit(e.mega.finish())
	e.renderer.RemoveBonusTotalDisplay()
	if credited.IsPositive() {
		e.renderer.ShowPayoutAmount(credited)
	}
	e.renderer.UpdateBalanceDisplay(e.session.Balance)
	e.log.Info("bonus ended", zap.Stringer("bonus", models.BonusMegaWild), zap.Stringer("payout", credited), zap.Stringer("balance", e.session.Balance))
	e.observer.BonusEnded(models.BonusMegaWild, credited)
}
