package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
	"github.com/tatianab/slots/internal/config"
	"github.com/tatianab/slots/internal/engine"
	"github.com/tatianab/slots/internal/logger"
	"github.com/tatianab/slots/internal/models"
	"github.com/tatianab/slots/internal/reels"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
)

type options struct {
	sessions int
	spins    int
	workers  int
	bet      float64
	balance  float64
	buy      string
	seed     uint64
}

// eventLoop stands in for the UI loop: reel stops, timers and accepted
// prompts are queued and run in order on the session's goroutine.
type eventLoop struct {
	queue []func()
}

func (l *eventLoop) post(fn func()) { l.queue = append(l.queue, fn) }

func (l *eventLoop) run() {
	for len(l.queue) > 0 {
		fn := l.queue[0]
		l.queue = l.queue[1:]
		fn()
	}
}

type instantReels struct {
	reels *reels.Reels
	rng   *rand.Rand
	loop  *eventLoop
}

func (r *instantReels) VisibleGrid() models.Grid { return r.reels.Visible() }

func (r *instantReels) StartSpin(done func()) {
	r.reels.SetStops(r.reels.RandomStops(r.rng))
	r.loop.post(done)
}

func (r *instantReels) SwitchGraphics(models.StripVariant) {}

type loopScheduler struct{ loop *eventLoop }

func (s loopScheduler) After(_ time.Duration, fn func()) { s.loop.post(fn) }

type autoPrompter struct {
	loop  *eventLoop
	broke bool
}

func (p *autoPrompter) ConfirmBonusEntry(_, _ string, onAccept func()) { p.loop.post(onAccept) }

func (p *autoPrompter) Notify(string) { p.broke = true }

// stats accumulates one session's results.
type stats struct {
	Spins       int                        `json:"spins"`
	BonusSpins  int                        `json:"bonus_spins"`
	Staked      decimal.Decimal            `json:"staked"`
	Returned    decimal.Decimal            `json:"returned"`
	BaseWin     decimal.Decimal            `json:"base_win"`
	Triggers    map[string]int             `json:"triggers"`
	Purchases   map[string]int             `json:"purchases"`
	Bonuses     map[string]int             `json:"bonuses"`
	BonusPayout map[string]decimal.Decimal `json:"bonus_payout"`
}

func newStats() *stats {
	return &stats{
		Triggers:    make(map[string]int),
		Purchases:   make(map[string]int),
		Bonuses:     make(map[string]int),
		BonusPayout: make(map[string]decimal.Decimal),
	}
}

func (s *stats) SpinResolved(r engine.SpinReport) {
	if r.Bonus != models.BonusNone {
		s.BonusSpins++
		return
	}
	s.Spins++
	s.Staked = s.Staked.Add(r.Stake)
	s.Returned = s.Returned.Add(r.Win)
	s.BaseWin = s.BaseWin.Add(r.Win)
	if r.Trigger != models.BonusNone {
		s.Triggers[r.Trigger.String()]++
	}
}

func (s *stats) BonusStarted(kind models.BonusKind, cost decimal.Decimal) {
	if cost.IsPositive() {
		s.Purchases[kind.String()]++
		s.Staked = s.Staked.Add(cost)
	}
}

func (s *stats) BonusEnded(kind models.BonusKind, payout decimal.Decimal) {
	s.Bonuses[kind.String()]++
	s.BonusPayout[kind.String()] = s.BonusPayout[kind.String()].Add(payout)
	s.Returned = s.Returned.Add(payout)
}

func (s *stats) merge(o *stats) {
	s.Spins += o.Spins
	s.BonusSpins += o.BonusSpins
	s.Staked = s.Staked.Add(o.Staked)
	s.Returned = s.Returned.Add(o.Returned)
	s.BaseWin = s.BaseWin.Add(o.BaseWin)
	for k, v := range o.Triggers {
		s.Triggers[k] += v
	}
	for k, v := range o.Purchases {
		s.Purchases[k] += v
	}
	for k, v := range o.Bonuses {
		s.Bonuses[k] += v
	}
	for k, v := range o.BonusPayout {
		s.BonusPayout[k] = s.BonusPayout[k].Add(v)
	}
}

func (s *stats) rtp() decimal.Decimal {
	if s.Staked.IsZero() {
		return decimal.Zero
	}
	return s.Returned.Div(s.Staked).Mul(decimal.NewFromInt(100)).Round(2)
}

type report struct {
	Run      string          `json:"run"`
	Sessions int             `json:"sessions"`
	Bet      decimal.Decimal `json:"bet"`
	Buy      string          `json:"buy"`
	RTP      decimal.Decimal `json:"rtp_percent"`
	Elapsed  string          `json:"elapsed"`
	*stats
}

func runSession(idx int, opts options, cfg *config.Config, lg *zap.Logger) *stats {
	loop := &eventLoop{}
	rng := rand.New(rand.NewPCG(opts.seed, uint64(idx)))
	prompter := &autoPrompter{loop: loop}
	st := newStats()

	session := models.NewSession(decimal.NewFromFloat(opts.balance), decimal.NewFromFloat(opts.bet), cfg.Limits())
	eng := engine.New(session, &instantReels{reels: reels.NewDefault(), rng: rng, loop: loop},
		engine.WithPrompter(prompter),
		engine.WithScheduler(loopScheduler{loop: loop}),
		engine.WithObserver(st),
		engine.WithRand(rng),
		engine.WithLogger(lg),
		engine.WithBuyMultipliers(cfg.Bonus.MegaWildBuyMultiplier, cfg.Bonus.HoldAndSpinBuyMultiplier),
	)

	for round := 0; round < opts.spins && !prompter.broke; round++ {
		var err error
		switch {
		case eng.BonusActive() || opts.buy == "none":
			err = eng.RequestSpin()
		case opts.buy == "mega":
			err = eng.BuyMegaWild()
		case opts.buy == "hold":
			err = eng.BuyHoldAndSpin()
		}
		if errors.Is(err, engine.ErrInsufficientFunds) {
			break
		}
		if err != nil {
			lg.Warn("round rejected", zap.Int("round", round), zap.Error(err))
		}
		loop.run()
	}
	if prompter.broke {
		lg.Info("session ran out of funds", zap.Int("session", idx), zap.Stringer("balance", eng.Balance()))
	}
	return st
}

func main() {
	var opts options
	var asJSON bool
	var level string
	flag.IntVar(&opts.sessions, "sessions", 100, "number of independent sessions")
	flag.IntVar(&opts.spins, "spins", 10000, "rounds per session")
	flag.IntVar(&opts.workers, "workers", 8, "concurrent sessions")
	flag.Float64Var(&opts.bet, "bet", 1, "bet per spin")
	flag.Float64Var(&opts.balance, "balance", 1e9, "opening balance per session")
	flag.StringVar(&opts.buy, "buy", "none", "bonus to buy every round: none, mega or hold")
	flag.Uint64Var(&opts.seed, "seed", 1, "base seed")
	flag.BoolVar(&asJSON, "json", false, "print the report as JSON")
	flag.StringVar(&level, "log-level", "warn", "log level")
	flag.Parse()

	switch opts.buy {
	case "none", "mega", "hold":
	default:
		log.Fatalf("Unknown -buy value %q", opts.buy)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	lg, err := logger.New(config.Log{Level: level}, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()

	pool, err := ants.NewPool(opts.workers)
	if err != nil {
		log.Fatalf("Failed to create worker pool: %v", err)
	}
	defer pool.Release()

	start := time.Now()
	total := newStats()
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < opts.sessions; i++ {
		idx := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			st := runSession(idx, opts, cfg, lg)
			mu.Lock()
			total.merge(st)
			mu.Unlock()
		}); err != nil {
			wg.Done()
			lg.Error("submit session", zap.Int("session", idx), zap.Error(err))
		}
	}
	wg.Wait()

	rep := report{
		Run:      uuid.NewString(),
		Sessions: opts.sessions,
		Bet:      decimal.NewFromFloat(opts.bet),
		Buy:      opts.buy,
		RTP:      total.rtp(),
		Elapsed:  time.Since(start).Round(time.Millisecond).String(),
		stats:    total,
	}

	if asJSON {
		out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(rep, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("--- Run %s ---\n", rep.Run)
	fmt.Printf("Sessions: %d, bet %s, buy %s, elapsed %s\n", rep.Sessions, rep.Bet.StringFixed(2), rep.Buy, rep.Elapsed)
	fmt.Printf("Base spins: %d, bonus spins: %d\n", total.Spins, total.BonusSpins)
	fmt.Printf("Staked: %s\n", total.Staked.StringFixed(2))
	fmt.Printf("Returned: %s (base %s)\n", total.Returned.StringFixed(2), total.BaseWin.StringFixed(2))
	fmt.Printf("RTP: %s%%\n", rep.RTP.StringFixed(2))
	for _, kind := range []models.BonusKind{models.BonusMegaWild, models.BonusHoldAndSpin} {
		name := kind.String()
		n := total.Bonuses[name]
		avg := decimal.Zero
		if n > 0 {
			avg = total.BonusPayout[name].Div(decimal.NewFromInt(int64(n)))
		}
		fmt.Printf("%s: triggered %d, bought %d, played %d, avg payout %s\n",
			name, total.Triggers[name], total.Purchases[name], n, avg.StringFixed(2))
	}
}
