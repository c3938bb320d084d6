package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tatianab/slots/internal/models"
)

func blankGrid() models.Grid {
	row := []models.Symbol{J, T10, K, A, YN}
	return rowsToGrid(row, row, row)
}

func megaTriggerGrid() models.Grid {
	return rowsToGrid(
		[]models.Symbol{BN, T10, K, A, YN},
		[]models.Symbol{J, T10, BN, A, YN},
		[]models.Symbol{J, T10, K, A, BN},
	)
}

func holdTriggerGrid() models.Grid {
	return rowsToGrid(
		[]models.Symbol{J, T10, K, W, W},
		[]models.Symbol{J, T10, K, A, W},
		[]models.Symbol{J, T10, K, W, W},
	)
}

func bothTriggerGrid() models.Grid {
	return rowsToGrid(
		[]models.Symbol{BN, T10, K, W, W},
		[]models.Symbol{J, T10, BN, W, W},
		[]models.Symbol{J, T10, K, BN, W},
	)
}

// lineWinGrid pays J x3 on the middle row only.
func lineWinGrid() models.Grid {
	return rowsToGrid(
		[]models.Symbol{T10, T10, CI, A, CI},
		[]models.Symbol{J, J, J, A, K},
		[]models.Symbol{K, A, J, T10, GR},
	)
}

// fakeReels parks each spin until the test stops it.
type fakeReels struct {
	current  models.Grid
	pending  []func()
	variants []models.StripVariant
}

func (f *fakeReels) VisibleGrid() models.Grid { return f.current.Clone() }

func (f *fakeReels) StartSpin(done func()) { f.pending = append(f.pending, done) }

func (f *fakeReels) SwitchGraphics(v models.StripVariant) { f.variants = append(f.variants, v) }

// stop lands the oldest in-flight spin on g.
func (f *fakeReels) stop(t *testing.T, g models.Grid) {
	t.Helper()
	if len(f.pending) == 0 {
		t.Fatalf("No spin in flight")
	}
	done := f.pending[0]
	f.pending = f.pending[1:]
	f.current = g
	done()
}

type fakeRenderer struct {
	calls []string
	moves []func()
}

func (f *fakeRenderer) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeRenderer) RenderWinHighlights(results []models.WinResult) {
	f.record("highlight:%d", len(results))
}
func (f *fakeRenderer) ClearWinHighlights() { f.record("clear_highlight") }
func (f *fakeRenderer) RenderStickyCoins(st models.HoldAndSpinState) {
	f.record("sticky:%d", st.StickyCount())
}
func (f *fakeRenderer) ClearStickyCoins() { f.record("clear_sticky") }
func (f *fakeRenderer) ShowPayoutAmount(amount decimal.Decimal) {
	f.record("payout:%s", amount.StringFixed(2))
}
func (f *fakeRenderer) UpdateBalanceDisplay(balance decimal.Decimal) {
	f.record("balance:%s", balance.StringFixed(2))
}
func (f *fakeRenderer) UpdateBonusTotalDisplay(total decimal.Decimal) {
	f.record("bonus_total:%s", total.StringFixed(2))
}
func (f *fakeRenderer) RemoveBonusTotalDisplay() { f.record("remove_bonus_total") }
func (f *fakeRenderer) ShowMegaWild(reel int) { f.record("show_mega:%d", reel) }
func (f *fakeRenderer) AnimateMegaWildMove(from, to int, done func()) {
	f.record("move:%d->%d", from, to)
	f.moves = append(f.moves, done)
}
func (f *fakeRenderer) RemoveMegaWild() { f.record("remove_mega") }

func (f *fakeRenderer) has(call string) bool {
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeRenderer) finishMove(t *testing.T) {
	t.Helper()
	if len(f.moves) == 0 {
		t.Fatalf("No move in flight")
	}
	done := f.moves[0]
	f.moves = f.moves[1:]
	done()
}

type confirmation struct {
	title    string
	desc     string
	onAccept func()
}

type fakePrompter struct {
	confirms []confirmation
	notices  []string
}

func (f *fakePrompter) ConfirmBonusEntry(title, desc string, onAccept func()) {
	f.confirms = append(f.confirms, confirmation{title, desc, onAccept})
}

func (f *fakePrompter) Notify(msg string) { f.notices = append(f.notices, msg) }

func (f *fakePrompter) accept(t *testing.T) {
	t.Helper()
	if len(f.confirms) == 0 {
		t.Fatalf("No confirmation pending")
	}
	c := f.confirms[0]
	f.confirms = f.confirms[1:]
	c.onAccept()
}

type timer struct {
	d  time.Duration
	fn func()
}

type fakeScheduler struct {
	timers []timer
}

func (f *fakeScheduler) After(d time.Duration, fn func()) {
	f.timers = append(f.timers, timer{d, fn})
}

func (f *fakeScheduler) fire(t *testing.T) time.Duration {
	t.Helper()
	if len(f.timers) == 0 {
		t.Fatalf("No timer pending")
	}
	tm := f.timers[0]
	f.timers = f.timers[1:]
	tm.fn()
	return tm.d
}

type fakeObserver struct {
	spins   []SpinReport
	started []models.BonusKind
	ended   map[models.BonusKind]decimal.Decimal
}

func (f *fakeObserver) SpinResolved(r SpinReport) { f.spins = append(f.spins, r) }
func (f *fakeObserver) BonusStarted(kind models.BonusKind, _ decimal.Decimal) {
	f.started = append(f.started, kind)
}
func (f *fakeObserver) BonusEnded(kind models.BonusKind, payout decimal.Decimal) {
	if f.ended == nil {
		f.ended = make(map[models.BonusKind]decimal.Decimal)
	}
	f.ended[kind] = payout
}

// fixedRand returns the same draw every time.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

// stepRand cycles through 0.3, 0.5, 0.7, 0.9, 0.1.
type stepRand struct{ n int }

func (r *stepRand) Float64() float64 {
	r.n++
	return float64(r.n%5)*0.2 + 0.1
}

type harness struct {
	eng       *Engine
	session   *models.Session
	reels     *fakeReels
	renderer  *fakeRenderer
	prompter  *fakePrompter
	scheduler *fakeScheduler
	observer  *fakeObserver
}

func newHarness(balance string) *harness {
	h := &harness{
		session: models.NewSession(decimal.RequireFromString(balance), decimal.RequireFromString("0.50"), models.BetLimits{
			Min:  decimal.RequireFromString("0.50"),
			Max:  decimal.RequireFromString("25.00"),
			Step: decimal.RequireFromString("0.50"),
		}),
		reels:     &fakeReels{current: blankGrid()},
		renderer:  &fakeRenderer{},
		prompter:  &fakePrompter{},
		scheduler: &fakeScheduler{},
		observer:  &fakeObserver{},
	}
	h.eng = New(h.session, h.reels,
		WithRenderer(h.renderer),
		WithPrompter(h.prompter),
		WithScheduler(h.scheduler),
		WithObserver(h.observer),
		WithRand(fixedRand(0.5)),
	)
	return h
}

func (h *harness) balanceIs(t *testing.T, want string) {
	t.Helper()
	if !h.eng.Balance().Equal(decimal.RequireFromString(want)) {
		t.Fatalf("Expected balance %s, got %s", want, h.eng.Balance())
	}
}

// spin requests a spin and lands it on g.
func (h *harness) spin(t *testing.T, g models.Grid) {
	t.Helper()
	if err := h.eng.RequestSpin(); err != nil {
		t.Fatalf("RequestSpin: %v", err)
	}
	h.reels.stop(t, g)
}
