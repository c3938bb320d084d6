package models

import "github.com/shopspring/decimal"

// Strip is the symbol sequence shared by every reel.
var Strip = []Symbol{
	SymbolJ, Symbol10, SymbolK, SymbolA, SymbolWild, SymbolCiri, SymbolYen, SymbolGer, SymbolBonus,
	SymbolJ, SymbolJ, SymbolJ, Symbol10, Symbol10, Symbol10, SymbolK, SymbolK, SymbolK, SymbolA, SymbolA, SymbolA,
	SymbolWild, SymbolWild, SymbolWild, SymbolCiri, SymbolYen, SymbolGer,
	SymbolJ, SymbolJ, SymbolJ, Symbol10, Symbol10, SymbolK, SymbolK, SymbolA, SymbolA, SymbolYen, SymbolCiri,
	SymbolCiri, SymbolYen, SymbolGer, SymbolBonus,
}

// Paylines are the fixed lines evaluated on every base and Mega-Wild spin.
var Paylines = []Payline{
	{{0, 1}, {1, 1}, {2, 1}, {3, 1}, {4, 1}},
	{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}},
	{{0, 2}, {1, 2}, {2, 2}, {3, 2}, {4, 2}},
	{{0, 0}, {1, 1}, {2, 2}, {3, 1}, {4, 0}},
	{{0, 2}, {1, 1}, {2, 0}, {3, 1}, {4, 2}},
}

// DefaultPaytable returns the bet multipliers for 3, 4 and 5 of a kind.
func DefaultPaytable() Paytable {
	low := tier(0.1, 0.3, 1)
	mid := tier(0.5, 1.5, 3)
	high := tier(1, 2.5, 5)
	return Paytable{
		SymbolJ:     low,
		Symbol10:    low,
		SymbolK:     low,
		SymbolA:     low,
		SymbolYen:   mid,
		SymbolCiri:  mid,
		SymbolWild:  mid,
		SymbolGer:   high,
		SymbolBonus: high,
	}
}

func tier(three, four, five float64) map[int]decimal.Decimal {
	return map[int]decimal.Decimal{
		3: decimal.NewFromFloat(three),
		4: decimal.NewFromFloat(four),
		5: decimal.NewFromFloat(five),
	}
}
