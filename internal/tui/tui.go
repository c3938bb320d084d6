package tui

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/slots/internal/config"
	"github.com/tatianab/slots/internal/engine"
	"github.com/tatianab/slots/internal/logger"
	"github.com/tatianab/slots/internal/models"
	"github.com/tatianab/slots/internal/reels"
	"go.uber.org/zap"
)

type model struct {
	engine *engine.Engine
	board  *board
	keys   keyMap
	help   help.Model
	log    *zap.Logger
	width  int
	height int
}

// NewModel wires an engine for session to a fresh terminal board.
func NewModel(cfg *config.Config, session *models.Session, log *zap.Logger) model {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	b := newBoard(cfg, reels.NewDefault(), rng, log.Named("tui"))
	b.reels.SetStops(b.reels.RandomStops(rng))
	eng := engine.New(session, b,
		engine.WithRenderer(b),
		engine.WithPrompter(b),
		engine.WithScheduler(b),
		engine.WithRand(rng),
		engine.WithLogger(log.Named("engine")),
		engine.WithBuyMultipliers(cfg.Bonus.MegaWildBuyMultiplier, cfg.Bonus.HoldAndSpinBuyMultiplier),
		engine.WithHoldAndSpinDelays(cfg.Timing.HoldAndSpinStart, cfg.Timing.HoldAndSpinContinue),
	)
	b.bet = eng.Bet
	b.balance = eng.Balance()

	return model{
		engine: eng,
		board:  b,
		keys:   defaultKeys(),
		help:   help.New(),
		log:    log,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.board.notice != "":
			// Any key dismisses a notice.
			m.board.notice = ""
		case m.board.modal != nil:
			switch {
			case key.Matches(msg, m.keys.Accept):
				m.board.accept()
			case key.Matches(msg, m.keys.Decline):
				m.board.decline()
			}
		default:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			m.handleKey(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case reelFrameMsg:
		m.board.reelFrame(msg)

	case wolfFrameMsg:
		m.board.wolfFrame(msg)

	case bigWinFrameMsg:
		m.board.bigWinFrame(msg)

	case timerMsg:
		m.board.fire(msg)
	}

	return m, m.board.flush()
}

func (m *model) handleKey(msg tea.KeyMsg) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Spin):
		// Hold-and-Spin plays itself.
		if m.engine.HoldAndSpinActive() {
			return
		}
		err = m.engine.RequestSpin()
	case key.Matches(msg, m.keys.BetUp):
		m.engine.IncreaseBet()
	case key.Matches(msg, m.keys.BetDown):
		m.engine.DecreaseBet()
	case key.Matches(msg, m.keys.BuyMega):
		err = m.engine.BuyMegaWild()
	case key.Matches(msg, m.keys.BuyHold):
		err = m.engine.BuyHoldAndSpin()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	if err != nil && !errors.Is(err, engine.ErrInsufficientFunds) {
		m.log.Debug("request ignored", zap.String("key", msg.String()), zap.Error(err))
	}
}

// Run starts the terminal game.
func Run(cfg *config.Config, session *models.Session, log *zap.Logger) error {
	p := tea.NewProgram(NewModel(cfg, session, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Start loads the configuration from the environment and plays one session.
func Start() error {
	cfg, log, session, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("session started",
		zap.String("session", session.ID),
		zap.Stringer("balance", session.Balance),
		zap.Stringer("bet", session.Bet),
	)
	err = Run(cfg, session, log)
	log.Info("session ended", zap.String("session", session.ID), zap.Stringer("balance", session.Balance))
	return err
}

func setup() (*config.Config, *zap.Logger, *models.Session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.New(cfg.Log, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, log, cfg.NewSession(), nil
}
