package view

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oscarfh/bizdesk/internal/analytics"
	"github.com/oscarfh/bizdesk/internal/apiclient"
)

// DashboardModel shows the live business summary. It opens the
// server's event stream once on entry: the first frame carries a full
// snapshot, every later frame is a bare signal to refetch. When the
// stream dies the view keeps its last numbers, flags live updates as
// off, and leaves reconnecting to the user.
type DashboardModel struct {
	CommonModel
	client *apiclient.Client

	summary *analytics.Summary
	sub     *apiclient.Subscription
	cancel  context.CancelFunc

	live    bool
	loading bool
	err     error
}

func NewDashboardModel(client *apiclient.Client) DashboardModel {
	return DashboardModel{
		client:  client,
		loading: true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.subscribeCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.teardown()
			return m, Back
		case "r":
			m.loading = true
			return m, m.fetchSummaryCmd()
		}

	case subscribedMsg:
		if msg.err != nil {
			m.loading = false
			m.live = false
			m.err = msg.err

			// The stream could not be opened; fall back to a one-shot
			// fetch so the view still shows something.
			return m, m.fetchSummaryCmd()
		}

		m.sub = msg.sub
		m.cancel = msg.cancel
		m.live = true

		return m, m.waitForEventCmd()

	case streamEventMsg:
		m.loading = false

		switch msg.event.Type {
		case analytics.EventSnapshot:
			if msg.event.Summary != nil {
				m.summary = msg.event.Summary
				m.err = nil
			}

			return m, m.waitForEventCmd()

		case analytics.EventUpdate:
			// Updates carry no payload: the summary endpoint stays
			// the single source of truth.
			return m, tea.Batch(m.fetchSummaryCmd(), m.waitForEventCmd())
		}

		return m, m.waitForEventCmd()

	case streamClosedMsg:
		m.live = false
		m.sub = nil

		return m, nil

	case summaryMsg:
		m.loading = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.summary = msg.summary
		m.err = nil

		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) teardown() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	m.sub = nil
	m.live = false
}

func (m DashboardModel) View() string {
	if m.loading && m.summary == nil {
		return lipgloss.NewStyle().Padding(2).Render("Loading summary...")
	}

	var b strings.Builder

	liveBadge := errStyle("live updates off")
	if m.live {
		liveBadge = okStyle("live")
	}

	b.WriteString("Business Summary  " + liveBadge + "\n\n")

	if m.err != nil {
		fmt.Fprintf(&b, "%s\n\n", errStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.summary != nil {
		fmt.Fprintf(&b, "Documents: %d\nTotal:     %s\nTax:       %s\n",
			m.summary.DocumentCount,
			FormatMoney(m.summary.TotalAmount),
			FormatMoney(m.summary.TotalTax),
		)

		if len(m.summary.ByKind) > 0 {
			b.WriteString("\nBy kind:\n")

			for _, ks := range m.summary.ByKind {
				fmt.Fprintf(&b, "  %-18s %4d  %12s\n",
					ks.Kind, ks.Count, FormatMoney(ks.TotalAmount))
			}
		}

		fmt.Fprintf(&b, "\nAs of %s\n", m.summary.GeneratedAt.Format("15:04:05"))
	}

	b.WriteString("\n" + m.ShortHelp())

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Messages

type subscribedMsg struct {
	sub    *apiclient.Subscription
	cancel context.CancelFunc
	err    error
}

func (m DashboardModel) subscribeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())

		sub, err := m.client.Subscribe(ctx)
		if err != nil {
			cancel()
			return subscribedMsg{err: err}
		}

		return subscribedMsg{sub: sub, cancel: cancel}
	}
}

type streamEventMsg struct {
	event analytics.Event
}

type streamClosedMsg struct{}

func (m DashboardModel) waitForEventCmd() tea.Cmd {
	sub := m.sub

	return func() tea.Msg {
		ev, open := <-sub.Events
		if !open {
			return streamClosedMsg{}
		}

		return streamEventMsg{event: ev}
	}
}

type summaryMsg struct {
	summary *analytics.Summary
	err     error
}

func (m DashboardModel) fetchSummaryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		summary, err := m.client.Summary(ctx)

		return summaryMsg{summary: summary, err: err}
	}
}
