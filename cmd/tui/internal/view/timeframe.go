package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Period is a predefined or custom issue-date range for narrowing
// document lists.
type Period int

const (
	PeriodThisMonth Period = 0
	PeriodLastMonth Period = 1
	PeriodThisYear  Period = 2
	PeriodAll       Period = 3
	PeriodCustom    Period = 4
)

func (p Period) String() string {
	switch p {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodThisYear:
		return "This Year"
	case PeriodAll:
		return "All Time"
	case PeriodCustom:
		return "Custom Range"
	}

	return "Unknown"
}

func periodToDateRange(p Period) (time.Time, time.Time) {
	now := time.Now()

	var start, end time.Time

	switch p {
	case PeriodThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case PeriodLastMonth:
		lastMonth := now.AddDate(0, -1, 0)
		start = time.Date(lastMonth.Year(), lastMonth.Month(), 1, 0, 0, 0, 0, lastMonth.Location())
		end = start.AddDate(0, 1, -1)
	case PeriodThisYear:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end = now
	}

	return start, end
}

// PeriodSelectedMsg is emitted when the user has picked a valid range.
// Start and End are zero values when All is true.
type PeriodSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

type periodState int

const (
	periodStateSelect periodState = iota
	periodStateCustom
)

// PeriodPicker is a reusable component for choosing an issue-date
// range.
type PeriodPicker struct {
	state    periodState
	selected Period

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewPeriodPicker() PeriodPicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Start Date: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "End Date:   "

	return PeriodPicker{
		state:      periodStateSelect,
		selected:   PeriodThisMonth,
		startInput: si,
		endInput:   ei,
	}
}

func (m PeriodPicker) Init() tea.Cmd {
	return nil
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case periodStateSelect:
			return m.updateSelect(keyMsg)
		case periodStateCustom:
			return m.updateCustom(keyMsg)
		}
	}

	if m.state == periodStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > PeriodThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == PeriodCustom {
			m.state = periodStateCustom
			m.startInput.Focus()
			m.focusIndex = 0

			return m, textinput.Blink
		}

		if m.selected == PeriodAll {
			return m, func() tea.Msg {
				return PeriodSelectedMsg{All: true}
			}
		}

		start, end := periodToDateRange(m.selected)

		return m, func() tea.Msg {
			return PeriodSelectedMsg{Start: start, End: end}
		}
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
			return m, textinput.Blink
		}

		m.endInput.Focus()

		return m, textinput.Blink

	case "enter":
		start, err := time.Parse(time.DateOnly, m.startInput.Value())
		if err != nil {
			m.err = fmt.Errorf("invalid start date (YYYY-MM-DD)")
			return m, nil
		}

		end, err := time.Parse(time.DateOnly, m.endInput.Value())
		if err != nil {
			m.err = fmt.Errorf("invalid end date (YYYY-MM-DD)")
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg {
			return PeriodSelectedMsg{Start: start, End: end}
		}

	case "esc":
		m.state = periodStateSelect
		m.err = nil

		return m, nil
	}

	return m, nil
}

func (m PeriodPicker) updateInputs(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	var cmds []tea.Cmd
	var c tea.Cmd

	m.startInput, c = m.startInput.Update(msg)
	cmds = append(cmds, c)
	m.endInput, c = m.endInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == periodStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	s := "Select Period:\n\n"

	for p := PeriodThisMonth; p <= PeriodCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, p.String())
	}

	s += "\n(Enter to select, Esc to back)"

	return s + errStr
}

// Reset returns the picker to its initial selection state.
func (m *PeriodPicker) Reset() {
	m.state = periodStateSelect
	m.selected = PeriodThisMonth
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}
