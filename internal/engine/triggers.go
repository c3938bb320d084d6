package engine

import "github.com/tatianab/slots/internal/models"

const (
	megaWildScatters = 3
	holdAndSpinWilds = 5
)

// HasMegaWildTrigger reports three or more B! anywhere on the grid.
func HasMegaWildTrigger(grid models.Grid) bool {
	return grid.Count(models.SymbolBonus) >= megaWildScatters
}

// HasHoldAndSpinTrigger reports five or more WILD anywhere on the grid.
func HasHoldAndSpinTrigger(grid models.Grid) bool {
	return grid.Count(models.SymbolWild) >= holdAndSpinWilds
}

// DetectTrigger returns the bonus a base spin earns. Mega-Wild wins when both
// conditions hold.
func DetectTrigger(grid models.Grid) models.BonusKind {
	switch {
	case HasMegaWildTrigger(grid):
		return models.BonusMegaWild
	case HasHoldAndSpinTrigger(grid):
		return models.BonusHoldAndSpin
	default:
		return models.BonusNone
	}
}
