package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oscarfh/bizdesk/internal/apiclient"
	"github.com/oscarfh/bizdesk/internal/catalog"
	"github.com/oscarfh/bizdesk/internal/importer"
)

const importTimeout = 2 * time.Minute

type catalogImportState int

const (
	catalogImportStateFilePick catalogImportState = iota
	catalogImportStateParsing
	catalogImportStatePreview
	catalogImportStateResult
)

// CatalogImportModel loads a price-list CSV, previews the parsed
// articles, and pushes the confirmed batch to the backend.
type CatalogImportModel struct {
	CommonModel
	client    *apiclient.Client
	importSvc *importer.Service

	state      catalogImportState
	filePicker filepicker.Model

	parsed []catalog.CreateParams

	status string
	err    error
}

func NewCatalogImportModel(client *apiclient.Client, importSvc *importer.Service) CatalogImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return CatalogImportModel{
		client:     client,
		importSvc:  importSvc,
		filePicker: fp,
	}
}

func (m CatalogImportModel) Title() string { return "Import Price List" }

func (m CatalogImportModel) ShortHelp() string {
	if m.state == catalogImportStatePreview {
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m CatalogImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m CatalogImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == catalogImportStatePreview && msg.Type == tea.KeyEnter {
			m.state = catalogImportStateParsing
			m.status = fmt.Sprintf("Uploading %d articles...", len(m.parsed))

			return m, m.uploadCmd()
		}

	case parseResultMsg:
		if msg.err != nil {
			m.state = catalogImportStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.parsed = msg.params
		m.state = catalogImportStatePreview

		return m, nil

	case uploadResultMsg:
		m.state = catalogImportStateResult

		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.err = nil
		m.status = fmt.Sprintf("Imported %d catalog articles.", msg.count)

		return m, nil
	}

	if m.state != catalogImportStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = catalogImportStateParsing
		m.status = fmt.Sprintf("Parsing %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m CatalogImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case catalogImportStatePreview, catalogImportStateResult:
		m.state = catalogImportStateFilePick
		m.parsed = nil
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m CatalogImportModel) View() string {
	switch m.state {
	case catalogImportStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a price-list CSV:\n\n" + m.filePicker.View(),
		)

	case catalogImportStateParsing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)

	case catalogImportStatePreview:
		return m.viewPreview()

	case catalogImportStateResult:
		style := lipgloss.NewStyle().Padding(2)

		if m.err != nil {
			return style.Render(errStyle(m.status) + "\n\n(Esc to go back)")
		}

		return style.Render(okStyle(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

func (m CatalogImportModel) viewPreview() string {
	s := fmt.Sprintf("Parsed %d articles:\n\n", len(m.parsed))

	shown := m.parsed
	if len(shown) > 12 {
		shown = shown[:12]
	}

	for _, p := range shown {
		s += fmt.Sprintf("  %-36s %10s  %5s%%\n",
			truncate(p.Name, 36), FormatMoney(p.UnitPrice), p.TaxPercent.String())
	}

	if rest := len(m.parsed) - len(shown); rest > 0 {
		s += fmt.Sprintf("  ... and %d more\n", rest)
	}

	s += "\n(Enter to import, Esc to cancel)"

	return lipgloss.NewStyle().Padding(1).Render(s)
}

// Messages

type parseResultMsg struct {
	params []catalog.CreateParams
	err    error
}

func (m CatalogImportModel) parseCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parseResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importSvc.Import(f)

		return parseResultMsg{params: params, err: err}
	}
}

type uploadResultMsg struct {
	count int
	err   error
}

func (m CatalogImportModel) uploadCmd() tea.Cmd {
	parsed := m.parsed

	return func() tea.Msg {
		items := make([]apiclient.CatalogItemParams, len(parsed))
		for i, p := range parsed {
			items[i] = apiclient.CatalogItemParams{
				Name:       p.Name,
				UnitPrice:  p.UnitPrice,
				TaxPercent: p.TaxPercent,
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		saved, err := m.client.ImportCatalog(ctx, items)
		if err != nil {
			return uploadResultMsg{err: err}
		}

		return uploadResultMsg{count: len(saved)}
	}
}
