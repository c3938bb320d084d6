package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tatianab/slots/internal/models"
)

func TestBaseSpinDebitsAndPays(t *testing.T) {
	h := newHarness("1000.00")

	if err := h.eng.RequestSpin(); err != nil {
		t.Fatalf("RequestSpin: %v", err)
	}
	if h.eng.State() != StateSpinning {
		t.Fatalf("Expected spinning, got %s", h.eng.State())
	}
	h.balanceIs(t, "999.50")

	if err := h.eng.RequestSpin(); !errors.Is(err, ErrSpinInProgress) {
		t.Errorf("Expected ErrSpinInProgress, got %v", err)
	}
	if h.eng.IncreaseBet() {
		t.Errorf("Expected bet to be locked while spinning")
	}
	if len(h.reels.pending) != 1 {
		t.Fatalf("Expected one spin in flight, got %d", len(h.reels.pending))
	}

	h.reels.stop(t, lineWinGrid())
	if h.eng.State() != StateIdle {
		t.Errorf("Expected idle after stop, got %s", h.eng.State())
	}
	h.balanceIs(t, "999.55")
	if !h.renderer.has("highlight:1") || !h.renderer.has("payout:0.05") {
		t.Errorf("Expected highlight and payout calls, got %v", h.renderer.calls)
	}
	if len(h.observer.spins) != 1 {
		t.Fatalf("Expected one spin report, got %d", len(h.observer.spins))
	}
	rep := h.observer.spins[0]
	if !rep.Stake.Equal(decimal.RequireFromString("0.50")) || !rep.Win.Equal(decimal.RequireFromString("0.05")) || rep.Round == "" {
		t.Errorf("Unexpected report %+v", rep)
	}
	if len(h.prompter.confirms) != 0 {
		t.Errorf("Expected no bonus offer")
	}
}

func TestSpinInsufficientFunds(t *testing.T) {
	h := newHarness("0.25")

	err := h.eng.RequestSpin()
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}
	if len(h.prompter.notices) != 1 {
		t.Errorf("Expected one notice, got %d", len(h.prompter.notices))
	}
	h.balanceIs(t, "0.25")
	if h.eng.State() != StateIdle || len(h.reels.pending) != 0 {
		t.Errorf("Expected no spin to start")
	}
	if len(h.renderer.calls) != 0 {
		t.Errorf("Expected no rendering, got %v", h.renderer.calls)
	}
}

func TestDuplicateReelStopIgnored(t *testing.T) {
	h := newHarness("1000.00")
	if err := h.eng.RequestSpin(); err != nil {
		t.Fatal(err)
	}
	done := h.reels.pending[0]
	h.reels.stop(t, lineWinGrid())
	done()
	h.balanceIs(t, "999.55")
	if len(h.observer.spins) != 1 {
		t.Errorf("Expected a single resolution, got %d", len(h.observer.spins))
	}
}

func TestBetAdjustment(t *testing.T) {
	h := newHarness("1000.00")
	if !h.eng.IncreaseBet() || !h.eng.Bet().Equal(decimal.NewFromInt(1)) {
		t.Fatalf("Expected bet 1.00, got %s", h.eng.Bet())
	}
	if !h.eng.DecreaseBet() || h.eng.DecreaseBet() {
		t.Errorf("Expected one decrease then a clamp at the minimum")
	}
	if got := h.eng.BuyCost(models.BonusMegaWild); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected mega wild cost 50.00, got %s", got)
	}
	if got := h.eng.BuyCost(models.BonusHoldAndSpin); !got.Equal(decimal.NewFromInt(35)) {
		t.Errorf("Expected hold and spin cost 35.00, got %s", got)
	}
}

func TestTriggerPrecedenceOffersMegaWild(t *testing.T) {
	h := newHarness("1000.00")
	h.spin(t, bothTriggerGrid())

	if len(h.prompter.confirms) != 1 {
		t.Fatalf("Expected exactly one offer, got %d", len(h.prompter.confirms))
	}
	if h.prompter.confirms[0].title != "MEGA WILD BONUS" {
		t.Errorf("Expected the mega wild offer, got %q", h.prompter.confirms[0].title)
	}
	if got := h.observer.spins[0].Trigger; got != models.BonusMegaWild {
		t.Errorf("Expected mega wild trigger in report, got %s", got)
	}
}

func TestOfferIgnoredOnceSpinning(t *testing.T) {
	h := newHarness("1000.00")
	h.spin(t, megaTriggerGrid())

	if err := h.eng.RequestSpin(); err != nil {
		t.Fatal(err)
	}
	h.prompter.accept(t)
	if h.eng.MegaWildActive() {
		t.Errorf("Expected the stale offer to be ignored")
	}
}

func TestMegaWildBonus(t *testing.T) {
	h := newHarness("1000.00")
	h.spin(t, megaTriggerGrid())
	h.prompter.accept(t)

	mw := h.eng.MegaWild()
	if !mw.Active || mw.SpinsLeft != 10 || mw.CurrentReel != 4 {
		t.Fatalf("Unexpected start state %+v", mw)
	}
	if !h.renderer.has("show_mega:4") || !h.renderer.has("bonus_total:0.00") {
		t.Errorf("Expected wolf and bonus total, got %v", h.renderer.calls)
	}
	if h.eng.IncreaseBet() {
		t.Errorf("Expected bet to be locked during the bonus")
	}
	if err := h.eng.BuyHoldAndSpin(); !errors.Is(err, ErrBonusActive) {
		t.Errorf("Expected ErrBonusActive, got %v", err)
	}

	// J on the first four reels plus the wolf pays J x5 on all five lines.
	fourJ := rowsToGrid(
		[]models.Symbol{J, J, J, J, YN},
		[]models.Symbol{J, J, J, J, YN},
		[]models.Symbol{J, J, J, J, YN},
	)
	h.spin(t, fourJ)
	h.balanceIs(t, "999.50")
	if !h.renderer.has("bonus_total:2.50") || !h.renderer.has("payout:2.50") {
		t.Errorf("Expected bonus total and spin win 2.50, got %v", h.renderer.calls)
	}
	if rep := h.observer.spins[len(h.observer.spins)-1]; rep.Grid[4][0] != MW || !rep.Stake.IsZero() {
		t.Errorf("Expected overlay grid and free spin, got %+v", rep)
	}

	h.spin(t, blankGrid())
	mw = h.eng.MegaWild()
	if mw.PendingMove == nil || *mw.PendingMove != (models.ReelMove{From: 4, To: 3}) || mw.CurrentReel != 3 {
		t.Fatalf("Expected a pending move 4->3, got %+v", mw)
	}

	// The next request animates the move before the reels start.
	if err := h.eng.RequestSpin(); err != nil {
		t.Fatal(err)
	}
	if h.eng.State() != StateAwaitingBonusMove || len(h.reels.pending) != 0 {
		t.Fatalf("Expected to wait for the move, state %s", h.eng.State())
	}
	if err := h.eng.RequestSpin(); !errors.Is(err, ErrSpinInProgress) {
		t.Errorf("Expected ErrSpinInProgress during the move, got %v", err)
	}
	h.renderer.finishMove(t)
	if h.eng.MegaWild().PendingMove != nil || h.eng.State() != StateSpinning {
		t.Fatalf("Expected the move to clear and the reels to spin")
	}
	h.reels.stop(t, blankGrid())

	for i := 0; i < 7; i++ {
		if err := h.eng.RequestSpin(); err != nil {
			t.Fatal(err)
		}
		if h.eng.State() == StateAwaitingBonusMove {
			h.renderer.finishMove(t)
		}
		h.reels.stop(t, blankGrid())
	}

	mw = h.eng.MegaWild()
	if mw.Active || !mw.CleanupPending || mw.PendingMove != nil {
		t.Fatalf("Expected the bonus to end with cleanup pending, got %+v", mw)
	}
	h.balanceIs(t, "1002.00")
	for _, call := range []string{"move:3->2", "move:2->1", "move:1->0", "remove_bonus_total", "payout:2.50"} {
		if !h.renderer.has(call) {
			t.Errorf("Missing %s in %v", call, h.renderer.calls)
		}
	}
	if h.renderer.has("move:0->-1") {
		t.Errorf("The wolf moved past the first reel")
	}
	if got := h.observer.ended[models.BonusMegaWild]; !got.Equal(decimal.RequireFromString("2.50")) {
		t.Errorf("Expected payout 2.50 reported, got %s", got)
	}

	// The next paid spin removes the wolf.
	h.spin(t, blankGrid())
	h.balanceIs(t, "1001.50")
	if !h.renderer.has("remove_mega") || h.eng.MegaWild().CleanupPending {
		t.Errorf("Expected wolf cleanup on the next spin")
	}
}

func TestHoldAndSpinBonus(t *testing.T) {
	h := newHarness("1000.00")
	h.spin(t, holdTriggerGrid())
	if len(h.prompter.confirms) != 1 || h.prompter.confirms[0].title != "HOLD AND SPIN BONUS" {
		t.Fatalf("Expected the hold and spin offer, got %+v", h.prompter.confirms)
	}
	h.prompter.accept(t)

	hs := h.eng.HoldAndSpin()
	if !hs.Active || hs.SpinsLeft != 3 || hs.StickyCount() != 5 {
		t.Fatalf("Unexpected start state: active %v spins %d coins %d", hs.Active, hs.SpinsLeft, hs.StickyCount())
	}
	// 0.50 x (1.5 + 2.5 x 0.5) = 1.375
	if !hs.Values[4][1].Equal(decimal.RequireFromString("1.38")) {
		t.Errorf("Expected coin value 1.38, got %s", hs.Values[4][1])
	}
	if len(h.reels.variants) != 1 || h.reels.variants[0] != models.StripHoldAndSpin {
		t.Errorf("Expected the hold and spin strip, got %v", h.reels.variants)
	}

	if d := h.scheduler.fire(t); d != h.eng.holdStartDelay {
		t.Errorf("Expected the start delay, got %v", d)
	}
	h.balanceIs(t, "999.50")
	h.reels.stop(t, blankGrid())
	if got := h.eng.HoldAndSpin().SpinsLeft; got != 2 {
		t.Fatalf("Expected 2 spins left, got %d", got)
	}

	if d := h.scheduler.fire(t); d != h.eng.holdContinueDelay {
		t.Errorf("Expected the continue delay, got %v", d)
	}
	newCoin := blankGrid()
	newCoin[0][0] = W
	h.reels.stop(t, newCoin)
	hs = h.eng.HoldAndSpin()
	if hs.SpinsLeft != 3 || hs.StickyCount() != 6 {
		t.Fatalf("Expected a reset to 3 with 6 coins, got %d / %d", hs.SpinsLeft, hs.StickyCount())
	}
	if !hs.Sticky[3][0] || !hs.Sticky[4][2] {
		t.Errorf("Expected the original coins to stay locked")
	}

	for i := 0; i < 3; i++ {
		h.scheduler.fire(t)
		h.reels.stop(t, blankGrid())
	}
	if h.eng.HoldAndSpinActive() {
		t.Fatalf("Expected the bonus to end after three empty spins")
	}
	h.balanceIs(t, "1007.78")
	if len(h.scheduler.timers) != 0 {
		t.Errorf("Expected no timers left, got %d", len(h.scheduler.timers))
	}
	if last := h.reels.variants[len(h.reels.variants)-1]; last != models.StripNormal {
		t.Errorf("Expected the normal strip restored")
	}
	if !h.renderer.has("clear_sticky") || !h.renderer.has("payout:8.28") {
		t.Errorf("Expected sticky cleanup and payout, got %v", h.renderer.calls)
	}
}

func TestHoldAndSpinCoinValuesStayFixed(t *testing.T) {
	h := newHarness("1000.00")
	h.eng.rng = &stepRand{}
	h.spin(t, holdTriggerGrid())
	h.prompter.accept(t)

	before := h.eng.HoldAndSpin()
	distinct := map[string]bool{}
	for r := range before.Sticky {
		for c, held := range before.Sticky[r] {
			if held {
				distinct[before.Values[r][c].String()] = true
			}
		}
	}
	if len(distinct) < 2 {
		t.Fatalf("Expected varied coin values, got %v", distinct)
	}

	check := func(after models.HoldAndSpinState) {
		t.Helper()
		for r := range before.Sticky {
			for c, held := range before.Sticky[r] {
				if !held {
					continue
				}
				if !after.Sticky[r][c] || !after.Values[r][c].Equal(before.Values[r][c]) {
					t.Errorf("Coin %d,%d changed from %s to %s", r, c, before.Values[r][c], after.Values[r][c])
				}
			}
		}
	}

	// A new coin resets the counter without touching the locked ones.
	h.scheduler.fire(t)
	newCoin := blankGrid()
	newCoin[0][0] = W
	h.reels.stop(t, newCoin)
	after := h.eng.HoldAndSpin()
	if after.SpinsLeft != 3 || after.StickyCount() != 6 {
		t.Fatalf("Expected a reset to 3 with 6 coins, got %d / %d", after.SpinsLeft, after.StickyCount())
	}
	check(after)

	// WILDs landing again on locked cells are not redrawn.
	h.scheduler.fire(t)
	h.reels.stop(t, holdTriggerGrid())
	after = h.eng.HoldAndSpin()
	if after.SpinsLeft != 2 || after.StickyCount() != 6 {
		t.Fatalf("Expected 2 spins left with 6 coins, got %d / %d", after.SpinsLeft, after.StickyCount())
	}
	check(after)
}

func TestBuyHoldAndSpinFullGrid(t *testing.T) {
	h := newHarness("1000.00")
	full := rowsToGrid(
		[]models.Symbol{W, W, W, W, W},
		[]models.Symbol{W, W, W, W, W},
		[]models.Symbol{W, W, W, W, W},
	)
	h.reels.current = full

	if err := h.eng.BuyHoldAndSpin(); err != nil {
		t.Fatalf("BuyHoldAndSpin: %v", err)
	}
	// The grid at purchase time seeds the bonus, not the grid at acceptance.
	h.reels.current = blankGrid()
	h.prompter.accept(t)
	h.balanceIs(t, "965.00")
	if got := h.eng.HoldAndSpin().StickyCount(); got != 15 {
		t.Fatalf("Expected 15 coins, got %d", got)
	}

	h.scheduler.fire(t)
	h.reels.stop(t, blankGrid())
	if h.eng.HoldAndSpinActive() {
		t.Fatalf("Expected a full grid to end the bonus")
	}
	h.balanceIs(t, "985.70")
}

func TestBuyGuards(t *testing.T) {
	h := newHarness("10.00")
	if err := h.eng.RequestSpin(); err != nil {
		t.Fatal(err)
	}
	if err := h.eng.BuyMegaWild(); !errors.Is(err, ErrSpinInProgress) {
		t.Errorf("Expected ErrSpinInProgress, got %v", err)
	}
	h.reels.stop(t, blankGrid())

	if err := h.eng.BuyMegaWild(); err != nil {
		t.Fatalf("BuyMegaWild: %v", err)
	}
	h.prompter.accept(t)
	if h.eng.MegaWildActive() {
		t.Errorf("Expected purchase to fail on a short balance")
	}
	if len(h.prompter.notices) != 1 {
		t.Errorf("Expected an insufficient funds notice")
	}
	h.balanceIs(t, "9.50")
}

func TestStaleHoldAndSpinTimerDoesNotSpin(t *testing.T) {
	h := newHarness("1000.00")
	h.spin(t, holdTriggerGrid())
	h.prompter.accept(t)

	// Drive the bonus by hand while the scheduled continues pile up.
	for i := 0; i < 3; i++ {
		h.spin(t, blankGrid())
	}
	if h.eng.HoldAndSpinActive() {
		t.Fatalf("Expected the bonus to end")
	}
	balance := h.eng.Balance()
	for len(h.scheduler.timers) > 0 {
		h.scheduler.fire(t)
	}
	if len(h.reels.pending) != 0 || !h.eng.Balance().Equal(balance) {
		t.Errorf("Expected stale continues to do nothing")
	}
}

func TestDefaultCollaboratorsRunBonusToCompletion(t *testing.T) {
	session := models.NewSession(decimal.NewFromInt(100), decimal.RequireFromString("0.50"), models.BetLimits{
		Min:  decimal.RequireFromString("0.50"),
		Max:  decimal.RequireFromString("25.00"),
		Step: decimal.RequireFromString("0.50"),
	})
	reels := &instantReels{grids: []models.Grid{holdTriggerGrid(), blankGrid(), blankGrid(), blankGrid()}}
	eng := New(session, reels, WithRand(fixedRand(0)))

	if err := eng.RequestSpin(); err != nil {
		t.Fatal(err)
	}
	if eng.HoldAndSpinActive() || eng.State() != StateIdle {
		t.Fatalf("Expected the bonus to run to completion")
	}
	// 100 - 0.50 + 5 coins x 0.75
	if !eng.Balance().Equal(decimal.RequireFromString("103.25")) {
		t.Errorf("Expected 103.25, got %s", eng.Balance())
	}
}

// instantReels stops synchronously on the next scripted grid.
type instantReels struct {
	grids   []models.Grid
	current models.Grid
}

func (r *instantReels) VisibleGrid() models.Grid { return r.current.Clone() }

func (r *instantReels) StartSpin(done func()) {
	r.current = r.grids[0]
	r.grids = r.grids[1:]
	done()
}

func (r *instantReels) SwitchGraphics(models.StripVariant) {}
