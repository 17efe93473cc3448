package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oscarfh/bizdesk/internal/apiclient"
	"github.com/oscarfh/bizdesk/internal/document"
)

type documentsState int

const (
	documentsStateBrowse documentsState = iota
	documentsStatePeriod
)

var kindFilters = append([]document.Kind{""}, document.Kinds...)

var statusFilters = []document.Status{
	"", document.StatusIssued, document.StatusPaid, document.StatusVoid,
}

type DocumentsModel struct {
	CommonModel
	client *apiclient.Client

	state  documentsState
	table  table.Model
	docs   []document.Response
	period PeriodPicker

	kindFilterIdx   int
	statusFilterIdx int
	filter          apiclient.DocumentFilter

	loading bool
	err     error
	status  string
}

func NewDocumentsModel(client *apiclient.Client) DocumentsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Kind", Width: 16},
		{Title: "Number", Width: 14},
		{Title: "Party", Width: 24},
		{Title: "Status", Width: 10},
		{Title: "Total", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DocumentsModel{
		client: client,
		table:  t,
		period: NewPeriodPicker(),
	}
}

func (m DocumentsModel) Title() string { return "Documents" }

func (m DocumentsModel) ShortHelp() string {
	if m.state == documentsStatePeriod {
		return "Enter: select | Esc: cancel"
	}

	return "Esc: back | k: kind | s: status | d: period | p: mark paid | v: void | r: refresh"
}

func (m DocumentsModel) Init() tea.Cmd {
	return m.loadDocsCmd()
}

func (m DocumentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDocsMsg:
		m.loading = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.docs = msg.docs
		m.refreshTable()

		return m, nil

	case docStatusMsg:
		if msg.err != nil {
			m.status = errStyle(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = ""

		return m, m.loadDocsCmd()

	case PeriodSelectedMsg:
		if msg.All {
			m.filter.StartDate = nil
			m.filter.EndDate = nil
		} else {
			start, end := msg.Start, msg.End
			m.filter.StartDate = &start
			m.filter.EndDate = &end
		}

		m.state = documentsStateBrowse
		m.period.Reset()
		m.loading = true

		return m, m.loadDocsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == documentsStatePeriod {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = documentsStateBrowse
			m.period.Reset()

			return m, nil
		}

		var cmd tea.Cmd
		m.period, cmd = m.period.Update(msg)

		return m, cmd
	}

	return m.updateBrowse(msg)
}

func (m DocumentsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadDocsCmd()
		case "k":
			m.kindFilterIdx = (m.kindFilterIdx + 1) % len(kindFilters)
			m.filter.Kind = kindFilters[m.kindFilterIdx]
			m.loading = true

			return m, m.loadDocsCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.filter.Status = statusFilters[m.statusFilterIdx]
			m.loading = true

			return m, m.loadDocsCmd()
		case "d":
			m.state = documentsStatePeriod
			return m, m.period.Init()
		case "p":
			return m, m.updateStatusCmd(document.StatusPaid)
		case "v":
			return m, m.updateStatusCmd(document.StatusVoid)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DocumentsModel) View() string {
	if m.state == documentsStatePeriod {
		return lipgloss.NewStyle().Padding(2).Render(m.period.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading documents...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	kindLabel := "All"
	if k := kindFilters[m.kindFilterIdx]; k != "" {
		kindLabel = string(k)
	}

	statusLabel := "All"
	if s := statusFilters[m.statusFilterIdx]; s != "" {
		statusLabel = string(s)
	}

	header := fmt.Sprintf(
		"Filter: [k] Kind: %s | [s] Status: %s",
		activeStyle(kindLabel),
		activeStyle(statusLabel),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *DocumentsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.docs))

	for _, doc := range m.docs {
		rows = append(rows, table.Row{
			FormatDate(doc.IssueDate),
			string(doc.Kind),
			doc.Number,
			doc.Party.Name,
			string(doc.Status),
			FormatMoney(doc.TotalAmount),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadDocsMsg struct {
	docs []document.Response
	err  error
}

func (m DocumentsModel) loadDocsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		docs, err := m.client.ListDocuments(ctx, m.filter)

		return loadDocsMsg{docs: docs, err: err}
	}
}

type docStatusMsg struct {
	err error
}

func (m DocumentsModel) updateStatusCmd(status document.Status) tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.docs) {
		return nil
	}

	id := m.docs[idx].ID

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		return docStatusMsg{err: m.client.UpdateDocumentStatus(ctx, id, status)}
	}
}
