package main

import (
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/oscarfh/bizdesk/cmd/tui/internal/view"
	"github.com/oscarfh/bizdesk/internal/apiclient"
	"github.com/oscarfh/bizdesk/internal/auth"
	"github.com/oscarfh/bizdesk/internal/config"
	"github.com/oscarfh/bizdesk/internal/importer"
)

type model struct {
	client    *apiclient.Client
	importSvc *importer.Service

	currentView View

	dashboardView view.DashboardModel
	editorView    view.EditorModel
	documentsView view.DocumentsModel
	customersView view.CustomersModel
	importView    view.CatalogImportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewEditor    View = 2
	ViewDocuments View = 3
	ViewCustomers View = 4
	ViewImport    View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	token := cfg.API.Token
	if token == "" && cfg.Auth.Secret != "" {
		// Shared-secret setups can mint their own token instead of
		// pasting one into the environment.
		token, err = auth.NewToken(cfg.Auth.Secret, "tui", 12*time.Hour)
		if err != nil {
			slog.Error("failed to mint token", "error", err)
			os.Exit(1)
		}
	}

	client := apiclient.New(cfg.API.BaseURL, token)
	importSvc := importer.NewService()

	return model{
		client:        client,
		importSvc:     importSvc,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(client),
		editorView:    view.NewEditorModel(client),
		documentsView: view.NewDocumentsModel(client),
		customersView: view.NewCustomersModel(client),
		importView:    view.NewCatalogImportModel(client, importSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.client)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewEditor
				m.editorView = view.NewEditorModel(m.client)

				return m, m.editorView.Init()
			case "3":
				m.currentView = ViewDocuments
				m.documentsView = view.NewDocumentsModel(m.client)

				return m, m.documentsView.Init()
			case "4":
				m.currentView = ViewCustomers
				m.customersView = view.NewCustomersModel(m.client)

				return m, m.customersView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewCatalogImportModel(m.client, m.importSvc)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewEditor:
		var newModel tea.Model
		newModel, cmd = m.editorView.Update(msg)
		m.editorView = newModel.(view.EditorModel)
	case ViewDocuments:
		var newModel tea.Model
		newModel, cmd = m.documentsView.Update(msg)
		m.documentsView = newModel.(view.DocumentsModel)
	case ViewCustomers:
		var newModel tea.Model
		newModel, cmd = m.customersView.Update(msg)
		m.customersView = newModel.(view.CustomersModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.CatalogImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Bizdesk TUI\n\n" +
				"1. Dashboard\n" +
				"2. New Document\n" +
				"3. Documents\n" +
				"4. Customers & Vendors\n" +
				"5. Import Price List\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewEditor:
		return m.editorView.View()
	case ViewDocuments:
		return m.documentsView.View()
	case ViewCustomers:
		return m.customersView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
