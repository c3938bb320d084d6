package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/slots/internal/models"
)

const cellWidth = 8

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3C3C3C"))

	holdCellStyle = cellStyle.
			BorderForeground(lipgloss.Color("#D4AF37"))

	spinningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFD700")).
			Bold(true)

	wolfStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true)

	coinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4AF37")).
			Bold(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	bigWinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFA500"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFA500")).
			Padding(1, 2).
			Width(48)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
)

var symbolColors = map[models.Symbol]lipgloss.Color{
	models.SymbolWild:  lipgloss.Color("#00D7AF"),
	models.SymbolCiri:  lipgloss.Color("#AFAFFF"),
	models.SymbolYen:   lipgloss.Color("#D75FD7"),
	models.SymbolGer:   lipgloss.Color("#D7D7D7"),
	models.SymbolBonus: lipgloss.Color("#FF5F5F"),
}

func (m model) View() string {
	b := m.board

	reelsView := m.renderReels()
	stateView := m.renderState()
	content := lipgloss.JoinHorizontal(lipgloss.Top, reelsView, "  ", stateView)

	parts := []string{titleStyle.Render("WILD HUNT SLOTS"), "", content}
	if b.bigWin != nil {
		parts = append(parts, "", bigWinStyle.Render("BIG WIN  "+b.bigWin.shown().StringFixed(2)))
	}
	switch {
	case b.notice != "":
		parts = append(parts, "", modalStyle.Render(b.notice+"\n\n"+helpStyle.Render("press any key")))
	case b.modal != nil:
		body := titleStyle.Render(b.modal.title) + "\n\n" + b.modal.desc + "\n\n" +
			helpStyle.Render("[y] enter   [n] decline")
		parts = append(parts, "", modalStyle.Render(body))
	}
	parts = append(parts, "", m.help.View(m.keys))

	return "\n" + lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m model) renderReels() string {
	b := m.board
	grid := b.reels.Visible()
	style := cellStyle
	if b.variant == models.StripHoldAndSpin {
		style = holdCellStyle
	}

	rows := make([]string, 0, b.reels.Rows())
	for row := 0; row < b.reels.Rows(); row++ {
		cells := make([]string, 0, len(grid))
		for reel := range grid {
			cells = append(cells, style.Render(m.renderCell(grid, reel, row)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m model) renderCell(grid models.Grid, reel, row int) string {
	b := m.board
	pos := models.Position{Reel: reel, Row: row}
	sym := grid[reel][row]

	if c := b.coins; c != nil && reel < len(c.Sticky) && c.Sticky[reel][row] {
		return coinStyle.Render(c.Values[reel][row].StringFixed(2))
	}
	if b.wolfAt(reel) {
		label := "WOLF"
		if b.highlights[pos] {
			return winStyle.Render(label)
		}
		return wolfStyle.Render(label)
	}
	if b.reelSpinning(reel) {
		return spinningStyle.Render(string(sym))
	}
	if b.highlights[pos] {
		return winStyle.Render(string(sym))
	}
	if color, ok := symbolColors[sym]; ok {
		return lipgloss.NewStyle().Foreground(color).Render(string(sym))
	}
	return string(sym)
}

func (m model) renderState() string {
	b := m.board
	eng := m.engine

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("WALLET") + "\n")
	fmt.Fprintf(&sb, "Balance:  %s\n", b.balance.StringFixed(2))
	fmt.Fprintf(&sb, "Bet:      %s\n", eng.Bet().StringFixed(2))
	fmt.Fprintf(&sb, "Winnings: %s\n\n", b.payout.StringFixed(2))

	switch {
	case eng.MegaWildActive():
		mw := eng.MegaWild()
		sb.WriteString(titleStyle.Render("MEGA WILD") + "\n")
		fmt.Fprintf(&sb, "Spins left:  %d\n", mw.SpinsLeft)
		if b.bonusTotal != nil {
			fmt.Fprintf(&sb, "Bonus total: %s\n", b.bonusTotal.StringFixed(2))
		}
	case eng.HoldAndSpinActive():
		hs := eng.HoldAndSpin()
		sb.WriteString(titleStyle.Render("HOLD & SPIN") + "\n")
		fmt.Fprintf(&sb, "Spins left: %d\n", hs.SpinsLeft)
		fmt.Fprintf(&sb, "Coins:      %d\n", hs.StickyCount())
		fmt.Fprintf(&sb, "Value:      %s\n", hs.Total().StringFixed(2))
	default:
		sb.WriteString(titleStyle.Render("BONUS BUY") + "\n")
		fmt.Fprintf(&sb, "[m] Mega Wild    %s\n", eng.BuyCost(models.BonusMegaWild).StringFixed(2))
		fmt.Fprintf(&sb, "[h] Hold & Spin  %s\n", eng.BuyCost(models.BonusHoldAndSpin).StringFixed(2))
	}

	return stateStyle.Render(sb.String())
}
