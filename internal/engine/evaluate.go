package engine

import (
	"github.com/shopspring/decimal"
	"github.com/tatianab/slots/internal/models"
)

const minMatch = 3

// Evaluator scores grids against a set of paylines.
type Evaluator struct {
	Paylines []models.Payline
	Paytable models.Paytable
}

// DefaultEvaluator uses the game's fixed paylines and paytable.
func DefaultEvaluator() Evaluator {
	return Evaluator{
		Paylines: models.Paylines,
		Paytable: models.DefaultPaytable(),
	}
}

// Evaluate returns one result per winning payline, in payline order.
//
// A line's base symbol is its first non-wild symbol (WILD if the line is all
// wilds). The line scores the run of base-or-wild cells starting at reel 0
// when that run is at least three long, whether or not the paytable pays it.
func (ev Evaluator) Evaluate(grid models.Grid) []models.WinResult {
	var results []models.WinResult
	for i, line := range ev.Paylines {
		if res, ok := ev.evaluateLine(grid, i, line); ok {
			results = append(results, res)
		}
	}
	return results
}

func (ev Evaluator) evaluateLine(grid models.Grid, idx int, line models.Payline) (models.WinResult, bool) {
	base := models.SymbolWild
	count := 0
	for _, p := range line {
		sym, ok := grid.At(p)
		if !ok {
			break
		}
		if sym == models.SymbolWild {
			count++
			continue
		}
		if base == models.SymbolWild {
			base = sym
			count++
			continue
		}
		if sym != base {
			break
		}
		count++
	}
	if count < minMatch {
		return models.WinResult{}, false
	}
	return models.WinResult{
		Line:   idx,
		Symbol: base,
		Count:  count,
		Cells:  append([]models.Position(nil), line[:count]...),
	}, true
}

// EvaluateMegaWild scores a bonus grid, counting Mega-Wild cells as WILD.
// The input grid is not modified.
func (ev Evaluator) EvaluateMegaWild(grid models.Grid) []models.WinResult {
	g := grid.Clone()
	for _, col := range g {
		for row, sym := range col {
			if sym == models.SymbolMegaWild {
				col[row] = models.SymbolWild
			}
		}
	}
	return ev.Evaluate(g)
}

// CalculateTotalWin is bet times the paytable multipliers of results summed.
// A symbol and count the paytable does not list adds nothing.
func (ev Evaluator) CalculateTotalWin(results []models.WinResult, bet decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range results {
		if m, ok := ev.Paytable.Multiplier(r.Symbol, r.Count); ok {
			sum = sum.Add(m)
		}
	}
	return sum.Mul(bet)
}
