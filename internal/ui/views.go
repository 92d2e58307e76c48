package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-eq/internal/cli"
)

const barHalfWidth = 12

const (
	curveWidth = 60
	// a band at MaxGainDB peaks at twice that
	curveTopDB  = 2 * MaxGainDB
	curveStepDB = 8.0
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1E90FF")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Done {
		return ""
	}

	var b strings.Builder

	b.WriteString(cli.TitleStyle.Render("peq - parametric equalizer"))
	b.WriteString("\n")

	status := fmt.Sprintf("preset: %s   bypass: %s", orDash(m.ctrl.CurrentPreset()), onOff(m.ctrl.Bypassed()))
	b.WriteString(cli.KeyStyle.Render(status))
	b.WriteString("\n\n")

	var rows strings.Builder

	for i, band := range m.ctrl.Bands() {
		label := fmt.Sprintf("%8.1f Hz", band.Frequency)
		if i == m.Selected {
			label = selectedStyle.Render(label)
		}

		desc := ""
		if i < len(m.descriptions) {
			desc = m.descriptions[i]
		}

		gain := cli.GainStyle(band.GainDB).Render(fmt.Sprintf("%+5.1f dB", band.GainDB))
		fmt.Fprintf(&rows, "%s %s %s  %s\n", label, gainBar(band.GainDB), gain, desc)
	}

	b.WriteString(panelStyle.Render(strings.TrimRight(rows.String(), "\n")))
	b.WriteString("\n")

	if len(m.curveDB) > 0 {
		b.WriteString(panelStyle.Render(renderCurve(m.curveFreqs, m.curveDB)))
		b.WriteString("\n")
	}

	b.WriteString(m.Status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select  +/- gain  0 zero  f flat  p preset  b bypass  r reset  q quit"))
	b.WriteString("\n")

	return b.String()
}

// gainBar draws a centered bar, one cell per dB up to MaxGainDB.
func gainBar(db float64) string {
	cells := int(min(max(db, -MaxGainDB), MaxGainDB) / MaxGainDB * barHalfWidth)

	left := strings.Repeat(" ", barHalfWidth)
	right := strings.Repeat(" ", barHalfWidth)

	switch {
	case cells > 0:
		right = strings.Repeat("█", cells) + strings.Repeat(" ", barHalfWidth-cells)
	case cells < 0:
		left = strings.Repeat(" ", barHalfWidth+cells) + strings.Repeat("█", -cells)
	}

	return left + "│" + right
}

// curveRow maps a magnitude to its plot row, 0 being the top (+curveTopDB).
func curveRow(db float64) int {
	db = min(max(db, -curveTopDB), curveTopDB)
	return int(math.Round((curveTopDB - db) / curveStepDB))
}

// renderCurve plots magnitudes over a log-frequency axis, one column per
// point, with a 0 dB reference line.
func renderCurve(freqs, mags []float64) string {
	rows := curveRow(-curveTopDB) + 1
	zero := curveRow(0)

	var b strings.Builder

	for r := range rows {
		level := curveTopDB - float64(r)*curveStepDB
		fmt.Fprintf(&b, "%+4.0f dB ", level)

		for _, db := range mags {
			switch {
			case curveRow(db) == r:
				b.WriteString("•")
			case r == zero:
				b.WriteString("─")
			default:
				b.WriteString(" ")
			}
		}

		b.WriteString("\n")
	}

	lo := fmt.Sprintf("%.0f Hz", freqs[0])
	hi := fmt.Sprintf("%.0f Hz", freqs[len(freqs)-1])
	gap := max(len(mags)-len(lo)-len(hi), 1)
	fmt.Fprintf(&b, "%8s%s%s%s", "", lo, strings.Repeat(" ", gap), hi)

	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
