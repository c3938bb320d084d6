package reels

import (
	"github.com/tatianab/slots/internal/models"
)

// Rand supplies stop positions.
type Rand interface {
	IntN(n int) int
}

// Reels tracks the stop position of each reel over a shared strip. A reel at
// stop p shows strip[p], strip[p+1], ... top to bottom, wrapping around.
type Reels struct {
	strip []models.Symbol
	rows  int
	stops []int
}

// New returns count reels over strip, all stopped at index 0.
func New(strip []models.Symbol, count, rows int) *Reels {
	return &Reels{
		strip: strip,
		rows:  rows,
		stops: make([]int, count),
	}
}

// NewDefault returns the standard 5x3 reel set.
func NewDefault() *Reels {
	return New(models.Strip, models.ReelCount, models.SymbolsPerReel)
}

func (r *Reels) Count() int { return len(r.stops) }

func (r *Reels) Rows() int { return r.rows }

// Stop returns the stop index of reel.
func (r *Reels) Stop(reel int) int { return r.stops[reel] }

// SetStop parks reel at pos, normalised into the strip.
func (r *Reels) SetStop(reel, pos int) {
	n := len(r.strip)
	r.stops[reel] = ((pos % n) + n) % n
}

// SetStops parks every reel at once.
func (r *Reels) SetStops(stops []int) {
	for reel, pos := range stops {
		r.SetStop(reel, pos)
	}
}

// Advance scrolls reel down by one symbol.
func (r *Reels) Advance(reel int) {
	r.SetStop(reel, r.stops[reel]-1)
}

// RandomStops draws a stop for every reel without applying them.
func (r *Reels) RandomStops(rng Rand) []int {
	out := make([]int, len(r.stops))
	for i := range out {
		out[i] = rng.IntN(len(r.strip))
	}
	return out
}

// Visible returns the current window as a fresh grid.
func (r *Reels) Visible() models.Grid {
	g := models.NewGrid(len(r.stops), r.rows)
	for reel, stop := range r.stops {
		g[reel] = r.Window(stop)
	}
	return g
}

// Window returns the rows visible at stop.
func (r *Reels) Window(stop int) []models.Symbol {
	out := make([]models.Symbol, r.rows)
	for i := range out {
		out[i] = r.strip[(stop+i)%len(r.strip)]
	}
	return out
}
