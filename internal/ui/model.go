// Package ui provides the Bubbletea live control panel for a running
// equalizer.
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-eq/dsp/eq"
)

// GainStep is the gain change per key press in dB.
const GainStep = 1.0

// MaxGainDB bounds the gain the panel will set in either direction.
const MaxGainDB = 12.0

// Controller is the subset of the equalizer the panel drives.
type Controller interface {
	Bands() []eq.Band
	SetGain(i int, gainDB float64) error
	AdjustGain(i int, delta, limitDB float64) (float64, error)
	Response(freqs []float64) eq.Response
	ApplyPreset(name string) error
	CurrentPreset() string
	Flat()
	SetBypass(on bool)
	Bypassed() bool
	ResetStates()
}

// Model is the Bubbletea model for the control panel.
type Model struct {
	ctrl         Controller
	presets      []string
	descriptions []string

	Selected  int
	presetIdx int
	Status    string

	// response sampled at curveWidth points, refreshed after each change
	curveFreqs []float64
	curveDB    []float64
	Err       error
	Done      bool

	Width  int
	Height int
}

// NewModel returns a panel driving ctrl. presets is the cycle order for the
// preset key; descriptions are shown next to the bands and may be shorter.
func NewModel(ctrl Controller, presets, descriptions []string) Model {
	m := Model{
		ctrl:         ctrl,
		presets:      presets,
		descriptions: descriptions,
		presetIdx:    -1,
		Status:       "ready",
	}
	m.refreshCurve()

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case StatusMsg:
		m.Status = string(msg)

	case StreamErrMsg:
		m.Err = msg.Err
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	n := len(m.ctrl.Bands())

	switch key {
	case "q", "ctrl+c", "esc":
		m.Done = true
		return m, tea.Quit

	case "up", "k", "left", "h":
		if n > 0 {
			m.Selected = (m.Selected - 1 + n) % n
		}

	case "down", "j", "right", "l":
		if n > 0 {
			m.Selected = (m.Selected + 1) % n
		}

	case "+", "=":
		m.nudge(GainStep)
		m.refreshCurve()

	case "-", "_":
		m.nudge(-GainStep)
		m.refreshCurve()

	case "0":
		m.setGain(0)
		m.refreshCurve()

	case "f":
		m.ctrl.Flat()
		m.presetIdx = -1
		m.Status = "all bands at 0 dB"
		m.refreshCurve()

	case "p":
		m.nextPreset()
		m.refreshCurve()

	case "b":
		on := !m.ctrl.Bypassed()
		m.ctrl.SetBypass(on)
		m.Status = fmt.Sprintf("bypass %s", onOff(on))

	case "r":
		m.ctrl.ResetStates()
		m.Status = "filter states reset"
	}

	return m, nil
}

func (m *Model) nudge(delta float64) {
	g, err := m.ctrl.AdjustGain(m.Selected, delta, MaxGainDB)
	if err != nil {
		m.Status = err.Error()
		return
	}

	m.presetIdx = -1
	m.Status = fmt.Sprintf("band %d: %+.1f dB", m.Selected+1, g)
}

func (m *Model) setGain(g float64) {
	g = min(max(g, -MaxGainDB), MaxGainDB)

	if err := m.ctrl.SetGain(m.Selected, g); err != nil {
		m.Status = err.Error()
		return
	}

	m.presetIdx = -1
	m.Status = fmt.Sprintf("band %d: %+.1f dB", m.Selected+1, g)
}

func (m *Model) nextPreset() {
	if len(m.presets) == 0 {
		m.Status = "no presets"
		return
	}

	m.presetIdx = (m.presetIdx + 1) % len(m.presets)
	name := m.presets[m.presetIdx]

	if err := m.ctrl.ApplyPreset(name); err != nil {
		m.Status = err.Error()
		return
	}

	m.Status = "preset " + name
}

func (m *Model) refreshCurve() {
	m.curveFreqs, m.curveDB = sampleCurve(m.ctrl.Response(nil), curveWidth)
}

// sampleCurve picks width points spread evenly over the response grid.
func sampleCurve(r eq.Response, width int) (freqs, mags []float64) {
	n := r.Len()
	if n == 0 || width <= 0 {
		return nil, nil
	}

	width = min(width, n)
	freqs = make([]float64, width)
	mags = make([]float64, width)

	for c := range width {
		i := 0
		if width > 1 {
			i = c * (n - 1) / (width - 1)
		}

		freqs[c] = r.Frequencies[i]
		mags[c] = r.MagnitudeDB[i]
	}

	return freqs, mags
}

func onOff(on bool) string {
	if on {
		return "on"
	}

	return "off"
}
