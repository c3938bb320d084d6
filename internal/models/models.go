package models

import (
	"github.com/shopspring/decimal"
)

const (
	ReelCount      = 5
	SymbolsPerReel = 3
)

// Symbol is a reel symbol identifier.
type Symbol string

const (
	SymbolJ     Symbol = "J"
	Symbol10    Symbol = "10"
	SymbolK     Symbol = "K"
	SymbolA     Symbol = "A"
	SymbolWild  Symbol = "WILD"
	SymbolCiri  Symbol = "CIRI"
	SymbolYen   Symbol = "YEN"
	SymbolGer   Symbol = "GER"
	SymbolBonus Symbol = "B!"

	// SymbolMegaWild marks the cells covered by the Mega-Wild overlay. It only
	// exists on bonus grids and evaluates as SymbolWild.
	SymbolMegaWild Symbol = "MEGAWILD"
)

// Position is a (reel, row) coordinate on the grid.
type Position struct {
	Reel int `json:"reel" yaml:"reel"`
	Row  int `json:"row" yaml:"row"`
}

// Grid is the visible window, indexed Grid[reel][row].
type Grid [][]Symbol

// NewGrid returns an empty grid with the given dimensions.
func NewGrid(reels, rows int) Grid {
	g := make(Grid, reels)
	for r := range g {
		g[r] = make([]Symbol, rows)
	}
	return g
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r, col := range g {
		out[r] = append([]Symbol(nil), col...)
	}
	return out
}

func (g Grid) Reels() int { return len(g) }

func (g Grid) Rows() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At returns the symbol at p and whether p lies inside the grid.
func (g Grid) At(p Position) (Symbol, bool) {
	if p.Reel < 0 || p.Reel >= len(g) || p.Row < 0 || p.Row >= len(g[p.Reel]) {
		return "", false
	}
	return g[p.Reel][p.Row], true
}

// Count returns how many cells hold s.
func (g Grid) Count(s Symbol) int {
	n := 0
	for _, col := range g {
		for _, sym := range col {
			if sym == s {
				n++
			}
		}
	}
	return n
}

// Payline is an ordered path of cells, one per reel from left to right.
type Payline []Position

// Paytable maps a symbol to its bet multipliers keyed by match count.
type Paytable map[Symbol]map[int]decimal.Decimal

// Multiplier returns the multiplier for count matches of s, if any.
func (p Paytable) Multiplier(s Symbol, count int) (decimal.Decimal, bool) {
	byCount, ok := p[s]
	if !ok {
		return decimal.Zero, false
	}
	m, ok := byCount[count]
	return m, ok
}

// WinResult describes one winning payline.
type WinResult struct {
	Line   int        `json:"line"`
	Symbol Symbol     `json:"symbol"`
	Count  int        `json:"count"`
	Cells  []Position `json:"cells"`
}

// BonusKind names a bonus feature.
type BonusKind int

const (
	BonusNone BonusKind = iota
	BonusMegaWild
	BonusHoldAndSpin
)

func (k BonusKind) String() string {
	switch k {
	case BonusMegaWild:
		return "mega_wild"
	case BonusHoldAndSpin:
		return "hold_and_spin"
	default:
		return "none"
	}
}

// StripVariant selects the reel graphics set.
type StripVariant int

const (
	StripNormal StripVariant = iota
	StripHoldAndSpin
)

// MegaWildState is the running state of the Mega-Wild bonus.
type MegaWildState struct {
	Active         bool
	SpinsLeft      int
	CurrentReel    int
	SpinsOnReel    int
	TotalWin       decimal.Decimal
	PendingMove    *ReelMove
	CleanupPending bool
}

// ReelMove is a scheduled overlay move between reels.
type ReelMove struct {
	From int
	To   int
}

// HoldAndSpinState is the running state of the Hold-and-Spin bonus.
// Values[r][c] is meaningful only where Sticky[r][c] is set.
type HoldAndSpinState struct {
	Active    bool
	SpinsLeft int
	Sticky    [][]bool
	Values    [][]decimal.Decimal
}

// Clone returns a deep copy.
func (s HoldAndSpinState) Clone() HoldAndSpinState {
	out := s
	out.Sticky = make([][]bool, len(s.Sticky))
	for r := range s.Sticky {
		out.Sticky[r] = append([]bool(nil), s.Sticky[r]...)
	}
	out.Values = make([][]decimal.Decimal, len(s.Values))
	for r := range s.Values {
		out.Values[r] = append([]decimal.Decimal(nil), s.Values[r]...)
	}
	return out
}

// StickyCount returns the number of locked cells.
func (s HoldAndSpinState) StickyCount() int {
	n := 0
	for _, col := range s.Sticky {
		for _, v := range col {
			if v {
				n++
			}
		}
	}
	return n
}

// Full reports whether every cell is locked.
func (s HoldAndSpinState) Full() bool {
	for _, col := range s.Sticky {
		for _, v := range col {
			if !v {
				return false
			}
		}
	}
	return len(s.Sticky) > 0
}

// Total sums the values of locked cells.
func (s HoldAndSpinState) Total() decimal.Decimal {
	total := decimal.Zero
	for r, col := range s.Sticky {
		for c, v := range col {
			if v {
				total = total.Add(s.Values[r][c])
			}
		}
	}
	return total
}
