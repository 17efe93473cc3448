package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oscarfh/bizdesk/internal/apiclient"
	"github.com/oscarfh/bizdesk/internal/document"
)

type customersState int

const (
	customersStateBrowse customersState = iota
	customersStateCreate
)

type CustomersModel struct {
	CommonModel
	client *apiclient.Client

	state   customersState
	table   table.Model
	parties []apiclient.Party
	form    *huh.Form

	roleFilterIdx int

	// Form bindings.
	formRole    string
	formName    string
	formEmail   string
	formPhone   string
	formAddrCkd string
	formFree    string
	formStreet  string
	formCity    string
	formState   string
	formPincode string
	formCountry string

	loading bool
	err     error
	status  string
}

var roleFilters = []string{"", "customer", "vendor"}

func NewCustomersModel(client *apiclient.Client) CustomersModel {
	columns := []table.Column{
		{Title: "Role", Width: 10},
		{Title: "Name", Width: 28},
		{Title: "Email", Width: 26},
		{Title: "Phone", Width: 16},
		{Title: "Address", Width: 40},
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

	return CustomersModel{
		client: client,
		table:  t,
	}
}

func (m CustomersModel) Title() string { return "Customers & Vendors" }

func (m CustomersModel) ShortHelp() string {
	if m.state == customersStateCreate {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | f: role filter | r: refresh"
}

func (m CustomersModel) Init() tea.Cmd {
	return m.loadPartiesCmd()
}

func (m CustomersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPartiesMsg:
		m.loading = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.parties = msg.parties
		m.refreshTable()

		return m, nil

	case partySavedMsg:
		if msg.err != nil {
			m.status = errStyle(fmt.Sprintf("Error saving: %v", msg.err))
		} else {
			m.status = okStyle(fmt.Sprintf("Saved %s", msg.name))
		}

		m.state = customersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadPartiesCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case customersStateBrowse:
		return m.updateBrowse(msg)
	case customersStateCreate:
		return m.updateCreate(msg)
	}

	return m, nil
}

func (m CustomersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadPartiesCmd()
		case "f":
			m.roleFilterIdx = (m.roleFilterIdx + 1) % len(roleFilters)
			m.loading = true

			return m, m.loadPartiesCmd()
		case "a":
			return m.enterCreateMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CustomersModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.formRole = "customer"
	m.formName = ""
	m.formEmail = ""
	m.formPhone = ""
	m.formAddrCkd = string(document.AddressFreeform)
	m.formFree = ""
	m.formStreet = ""
	m.formCity = ""
	m.formState = ""
	m.formPincode = ""
	m.formCountry = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("role").
				Title("Role").
				Options(
					huh.NewOption("Customer", "customer"),
					huh.NewOption("Vendor", "vendor"),
				).
				Value(&m.formRole),

			huh.NewInput().
				Key("name").
				Title("Name").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}).
				Value(&m.formName),

			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.formEmail),

			huh.NewInput().
				Key("phone").
				Title("Phone").
				Value(&m.formPhone),

			huh.NewSelect[string]().
				Key("address_kind").
				Title("Address Type").
				Options(
					huh.NewOption("Freeform", string(document.AddressFreeform)),
					huh.NewOption("Structured", string(document.AddressStructured)),
				).
				Value(&m.formAddrCkd),
		),

		huh.NewGroup(
			huh.NewText().
				Key("freeform").
				Title("Address").
				Value(&m.formFree),
		).WithHideFunc(func() bool {
			return m.formAddrCkd != string(document.AddressFreeform)
		}),

		huh.NewGroup(
			huh.NewInput().Key("street").Title("Street").Value(&m.formStreet),
			huh.NewInput().Key("city").Title("City").Value(&m.formCity),
			huh.NewInput().Key("state").Title("State").Value(&m.formState),
			huh.NewInput().Key("pincode").Title("Pincode").Value(&m.formPincode),
			huh.NewInput().Key("country").Title("Country").Value(&m.formCountry),
		).WithHideFunc(func() bool {
			return m.formAddrCkd != string(document.AddressStructured)
		}),
	).WithWidth(50).WithShowHelp(false)

	m.state = customersStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m CustomersModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = customersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// Harvest through the form's result map: the model is copied on
	// every update, so the bound pointers are not reliable here.
	m.formRole = m.form.GetString("role")
	m.formName = m.form.GetString("name")
	m.formEmail = m.form.GetString("email")
	m.formPhone = m.form.GetString("phone")
	m.formAddrCkd = m.form.GetString("address_kind")
	m.formFree = m.form.GetString("freeform")
	m.formStreet = m.form.GetString("street")
	m.formCity = m.form.GetString("city")
	m.formState = m.form.GetString("state")
	m.formPincode = m.form.GetString("pincode")
	m.formCountry = m.form.GetString("country")

	return m, m.saveCmd()
}

func (m CustomersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading parties...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.state == customersStateCreate && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render("New Party\n\n" + m.form.View())
	}

	roleLabel := "All"
	if r := roleFilters[m.roleFilterIdx]; r != "" {
		roleLabel = r
	}

	header := fmt.Sprintf("Filter: [f] Role: %s", activeStyle(roleLabel))

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

func (m *CustomersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.parties))

	for _, p := range m.parties {
		rows = append(rows, table.Row{
			p.Role,
			p.Name,
			p.Email,
			p.Phone,
			document.AddressFromPayload(p.Address).Display(),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadPartiesMsg struct {
	parties []apiclient.Party
	err     error
}

func (m CustomersModel) loadPartiesCmd() tea.Cmd {
	role := roleFilters[m.roleFilterIdx]

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		parties, err := m.client.ListParties(ctx, role)

		return loadPartiesMsg{parties: parties, err: err}
	}
}

type partySavedMsg struct {
	name string
	err  error
}

func (m CustomersModel) saveCmd() tea.Cmd {
	var address document.Address

	if m.formAddrCkd == string(document.AddressStructured) {
		address = document.NewStructuredAddress(
			m.formStreet, m.formCity, m.formState, m.formPincode, m.formCountry,
		)
	} else {
		address = document.NewFreeformAddress(m.formFree)
	}

	params := apiclient.PartyParams{
		Role:    m.formRole,
		Name:    m.formName,
		Email:   m.formEmail,
		Phone:   m.formPhone,
		Address: document.AddressToPayload(address),
	}

	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		saved, err := m.client.CreateParty(ctx, params)

		return partySavedMsg{name: saved.Name, err: err}
	}
}
