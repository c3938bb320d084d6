package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/tatianab/slots/internal/config"
	"github.com/tatianab/slots/internal/models"
	"github.com/tatianab/slots/internal/reels"
	"go.uber.org/zap"
)

// Rand drives reel stops, spin lengths and coin values.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type reelFrameMsg struct{ spin int }

type wolfFrameMsg struct{ move int }

type bigWinFrameMsg struct{ id int }

type timerMsg struct{ id int }

type modal struct {
	title    string
	desc     string
	onAccept func()
}

type wolfMove struct {
	id      int
	from    int
	to      int
	frames  int
	elapsed int
	done    func()
}

// board is what the engine sees of the terminal: it implements the reel set,
// renderer, prompter and scheduler. Every method runs inside Update and
// queues the commands it needs; the model drains them after each message.
type board struct {
	timing config.Timing
	reels  *reels.Reels
	rng    Rand
	log    *zap.Logger
	bet    func() decimal.Decimal

	bigWinMultiplier decimal.Decimal

	spinID    int
	frame     int
	spinning  []bool
	stopFrame []int
	targets   []int
	onStopped func()
	variant   models.StripVariant

	highlights map[models.Position]bool
	coins      *models.HoldAndSpinState
	wolfReel   int
	move       *wolfMove
	moveSeq    int

	payout     decimal.Decimal
	balance    decimal.Decimal
	bonusTotal *decimal.Decimal
	bigWin     *bigWin
	bigWinSeq  int

	modal  *modal
	notice string

	timers    map[int]func()
	nextTimer int

	cmds []tea.Cmd
}

func newBoard(cfg *config.Config, r *reels.Reels, rng Rand, log *zap.Logger) *board {
	return &board{
		timing:           cfg.Timing,
		bigWinMultiplier: decimal.NewFromInt(cfg.Bonus.BigWinMultiplier),
		reels:            r,
		rng:              rng,
		log:              log,
		bet:              func() decimal.Decimal { return decimal.Zero },
		spinning:         make([]bool, r.Count()),
		stopFrame:        make([]int, r.Count()),
		targets:          make([]int, r.Count()),
		highlights:       make(map[models.Position]bool),
		wolfReel:         -1,
		timers:           make(map[int]func()),
	}
}

func (b *board) queue(cmd tea.Cmd) { b.cmds = append(b.cmds, cmd) }

// flush hands the queued commands to the runtime.
func (b *board) flush() tea.Cmd {
	cmds := b.cmds
	b.cmds = nil
	return tea.Batch(cmds...)
}

func (b *board) frames(d time.Duration) int {
	n := int((d + b.timing.Frame - 1) / b.timing.Frame)
	if n < 1 {
		n = 1
	}
	return n
}

func (b *board) tick(msg tea.Msg) tea.Cmd {
	return tea.Tick(b.timing.Frame, func(time.Time) tea.Msg { return msg })
}

// ReelSet

func (b *board) VisibleGrid() models.Grid { return b.reels.Visible() }

func (b *board) StartSpin(onAllStopped func()) {
	b.spinID++
	b.frame = 0
	b.onStopped = onAllStopped
	b.targets = b.reels.RandomStops(b.rng)

	span := b.timing.MaxSpin - b.timing.MinSpin
	base := b.timing.MinSpin + time.Duration(b.rng.Float64()*float64(span))
	for r := range b.spinning {
		b.spinning[r] = true
		b.stopFrame[r] = b.frames(base + time.Duration(r)*b.timing.ReelDelay)
	}
	b.queue(b.tick(reelFrameMsg{spin: b.spinID}))
}

func (b *board) SwitchGraphics(v models.StripVariant) { b.variant = v }

func (b *board) reelFrame(msg reelFrameMsg) {
	if msg.spin != b.spinID || b.onStopped == nil {
		return
	}
	b.frame++
	running := false
	for r, spinning := range b.spinning {
		if !spinning {
			continue
		}
		if b.frame >= b.stopFrame[r] {
			b.spinning[r] = false
			b.reels.SetStop(r, b.targets[r])
			continue
		}
		b.reels.Advance(r)
		running = true
	}
	if running {
		b.queue(b.tick(reelFrameMsg{spin: b.spinID}))
		return
	}
	done := b.onStopped
	b.onStopped = nil
	done()
}

func (b *board) reelSpinning(r int) bool { return b.spinning[r] }

// Renderer

func (b *board) RenderWinHighlights(results []models.WinResult) {
	for _, res := range results {
		for _, p := range res.Cells {
			b.highlights[p] = true
		}
	}
}

func (b *board) ClearWinHighlights() { clear(b.highlights) }

func (b *board) RenderStickyCoins(st models.HoldAndSpinState) { b.coins = &st }

func (b *board) ClearStickyCoins() { b.coins = nil }

func (b *board) ShowPayoutAmount(amount decimal.Decimal) {
	b.payout = amount
	bet := b.bet()
	if !amount.IsPositive() || amount.LessThan(bet.Mul(b.bigWinMultiplier)) {
		return
	}
	b.bigWinSeq++
	b.bigWin = newBigWin(b.bigWinSeq, amount, bet)
	b.log.Info("big win", zap.Stringer("win", amount), zap.Stringer("bet", bet))
	b.queue(b.tick(bigWinFrameMsg{id: b.bigWinSeq}))
}

func (b *board) bigWinFrame(msg bigWinFrameMsg) {
	if b.bigWin == nil || msg.id != b.bigWin.id {
		return
	}
	if b.bigWin.step(b.timing.Frame) {
		b.bigWin = nil
		return
	}
	b.queue(b.tick(msg))
}

func (b *board) UpdateBalanceDisplay(balance decimal.Decimal) { b.balance = balance }

func (b *board) UpdateBonusTotalDisplay(total decimal.Decimal) { b.bonusTotal = &total }

func (b *board) RemoveBonusTotalDisplay() { b.bonusTotal = nil }

func (b *board) ShowMegaWild(reel int) { b.wolfReel = reel }

func (b *board) AnimateMegaWildMove(from, to int, onComplete func()) {
	b.moveSeq++
	b.wolfReel = from
	b.move = &wolfMove{
		id:     b.moveSeq,
		from:   from,
		to:     to,
		frames: b.frames(b.timing.MegaWildMove),
		done:   onComplete,
	}
	b.queue(b.tick(wolfFrameMsg{move: b.moveSeq}))
}

func (b *board) wolfFrame(msg wolfFrameMsg) {
	mv := b.move
	if mv == nil || msg.move != mv.id {
		return
	}
	mv.elapsed++
	if mv.elapsed < mv.frames {
		b.queue(b.tick(msg))
		return
	}
	b.move = nil
	b.wolfReel = mv.to
	mv.done()
}

// wolfAt reports whether the wolf covers reel in the current frame.
func (b *board) wolfAt(reel int) bool {
	if mv := b.move; mv != nil {
		if mv.elapsed*2 < mv.frames {
			return reel == mv.from
		}
		return reel == mv.to
	}
	return reel == b.wolfReel
}

func (b *board) RemoveMegaWild() {
	b.wolfReel = -1
	b.move = nil
}

// Prompter

func (b *board) ConfirmBonusEntry(title, description string, onAccept func()) {
	b.modal = &modal{title: title, desc: description, onAccept: onAccept}
}

func (b *board) Notify(message string) { b.notice = message }

func (b *board) accept() {
	m := b.modal
	b.modal = nil
	if m != nil {
		m.onAccept()
	}
}

func (b *board) decline() { b.modal = nil }

// Scheduler

func (b *board) After(d time.Duration, fn func()) {
	b.nextTimer++
	id := b.nextTimer
	b.timers[id] = fn
	b.queue(tea.Tick(d, func(time.Time) tea.Msg { return timerMsg{id: id} }))
}

func (b *board) fire(msg timerMsg) {
	fn, ok := b.timers[msg.id]
	if !ok {
		return
	}
	delete(b.timers, msg.id)
	fn()
}
