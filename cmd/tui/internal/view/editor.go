package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/oscarfh/bizdesk/internal/apiclient"
	"github.com/oscarfh/bizdesk/internal/document"
	"github.com/oscarfh/bizdesk/internal/draft"
	"github.com/oscarfh/bizdesk/internal/pricing"
)

type editorStage int

const (
	editorStageKind editorStage = iota
	editorStageItems
	editorStageItemForm
	editorStageDetails
)

// EditorModel authors one document draft and walks it through the
// submission cycle. The draft itself owns all state transitions; this
// model only translates keys and form completions into draft calls
// and renders what the draft reports back.
type EditorModel struct {
	CommonModel
	client *apiclient.Client

	stage      editorStage
	kindCursor int

	draft  *draft.Draft
	cursor int

	form *huh.Form

	// Item form bindings. Values travel as strings so the pricing
	// engine is the one interpreting them.
	formName     string
	formQty      string
	formPrice    string
	formDiscount string
	formTax      string
	editIndex    int

	// Details form bindings.
	formNumber  string
	formNotes   string
	formDueDate string
	partyIdx    int

	parties []apiclient.Party
	catalog []apiclient.CatalogItem

	status string
}

func NewEditorModel(client *apiclient.Client) EditorModel {
	return EditorModel{
		client:    client,
		stage:     editorStageKind,
		editIndex: -1,
	}
}

func (m EditorModel) Title() string { return "New Document" }

func (m EditorModel) ShortHelp() string {
	switch m.stage {
	case editorStageItems:
		return "a: add | Enter: edit | x: remove | n: details | s: submit | r: reopen | Esc: back"
	case editorStageItemForm, editorStageDetails:
		return "Navigate form | Esc: cancel"
	}

	return "Enter: select | Esc: back"
}

func (m EditorModel) Init() tea.Cmd {
	return tea.Batch(m.loadPartiesCmd(), m.loadCatalogCmd())
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorPartiesMsg:
		if msg.err == nil {
			m.parties = msg.parties
		}

		return m, nil

	case editorCatalogMsg:
		if msg.err == nil {
			m.catalog = msg.items
		}

		return m, nil

	case submitDoneMsg:
		m.draft.CompleteSubmit(msg.token, msg.resp, msg.err)

		switch m.draft.State() {
		case draft.StateSaved:
			ref := m.draft.SavedRef()
			m.status = okStyle(fmt.Sprintf("Saved %s (%s)", ref.Number, ref.ID))
		case draft.StateFailed:
			m.status = errStyle(m.draft.FailReason()) + "  (r to edit and retry)"
		}

		return m, nil
	}

	switch m.stage {
	case editorStageKind:
		return m.updateKindSelect(msg)
	case editorStageItems:
		return m.updateItems(msg)
	case editorStageItemForm, editorStageDetails:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m EditorModel) updateKindSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		return m, Back
	case tea.KeyUp:
		if m.kindCursor > 0 {
			m.kindCursor--
		}
	case tea.KeyDown:
		if m.kindCursor < len(document.Kinds)-1 {
			m.kindCursor++
		}
	case tea.KeyEnter:
		m.draft = draft.New(document.Kinds[m.kindCursor])
		m.stage = editorStageItems
		m.cursor = 0
		m.status = ""

		return m, nil
	}

	return m, nil
}

func (m EditorModel) updateItems(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back

	case "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down":
		if m.cursor < m.draft.ItemCount()-1 {
			m.cursor++
		}

	case "a":
		return m.openItemForm(-1)

	case "enter":
		if m.draft.ItemCount() > 0 {
			return m.openItemForm(m.cursor)
		}

	case "x":
		if err := m.draft.RemoveItem(m.cursor); err != nil {
			m.status = errStyle(err.Error())
			return m, nil
		}

		if m.cursor >= m.draft.ItemCount() && m.cursor > 0 {
			m.cursor--
		}

		m.status = ""

	case "n":
		return m.openDetailsForm()

	case "r":
		if m.draft.State() == draft.StateFailed {
			if err := m.draft.Reopen(); err == nil {
				m.status = ""
			}
		}

	case "s":
		token, err := m.draft.BeginSubmit()
		if err != nil {
			m.status = errStyle(err.Error())
			return m, nil
		}

		m.status = "Submitting..."

		return m, m.submitCmd(token, m.draft.Request())
	}

	return m, nil
}

func (m EditorModel) openItemForm(index int) (tea.Model, tea.Cmd) {
	if !canEdit(m.draft) {
		m.status = errStyle(fmt.Sprintf("draft is %s", m.draft.State()))
		return m, nil
	}

	m.editIndex = index

	if index >= 0 {
		li, err := m.draft.Item(index)
		if err != nil {
			m.status = errStyle(err.Error())
			return m, nil
		}

		m.formName = li.Name
		m.formQty = li.Quantity.String()
		m.formPrice = li.UnitPrice.String()
		m.formDiscount = li.DiscountPercent.String()
		m.formTax = li.TaxPercent.String()
	} else {
		fresh := pricing.NewLineItem()
		m.formName = ""
		m.formQty = fresh.Quantity.String()
		m.formPrice = ""
		m.formDiscount = ""
		m.formTax = ""
	}

	names := make([]string, len(m.catalog))
	for i, item := range m.catalog {
		names[i] = item.Name
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Suggestions(names).
				Value(&m.formName),

			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Value(&m.formQty),

			huh.NewInput().
				Key("unit_price").
				Title("Unit Price").
				Value(&m.formPrice),

			huh.NewInput().
				Key("discount_percent").
				Title("Discount %").
				Value(&m.formDiscount),

			huh.NewInput().
				Key("tax_percent").
				Title("Tax %").
				Value(&m.formTax),
		),
	).WithWidth(40).WithShowHelp(false)

	m.stage = editorStageItemForm

	return m, m.form.Init()
}

func (m EditorModel) openDetailsForm() (tea.Model, tea.Cmd) {
	m.formNumber = m.draft.Number()
	m.formNotes = m.draft.Notes()
	m.formDueDate = ""

	if due := m.draft.DueDate(); due != nil {
		m.formDueDate = FormatDate(*due)
	}

	options := make([]huh.Option[int], 0, len(m.parties)+1)
	options = append(options, huh.NewOption("(keep current)", -1))

	for i, p := range m.parties {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.Role), i))
	}

	m.partyIdx = -1

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("number").
				Title("Document Number").
				Value(&m.formNumber),

			huh.NewSelect[int]().
				Key("party").
				Title("Party").
				Options(options...).
				Value(&m.partyIdx),

			huh.NewInput().
				Key("due_date").
				Title("Due Date (YYYY-MM-DD, optional)").
				Value(&m.formDueDate),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(50).WithShowHelp(false)

	m.stage = editorStageDetails

	return m, m.form.Init()
}

func (m EditorModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.stage = editorStageItems
		m.form = nil

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
	stage := m.stage

	if stage == editorStageItemForm {
		m.formName = m.form.GetString("description")
		m.formQty = m.form.GetString("quantity")
		m.formPrice = m.form.GetString("unit_price")
		m.formDiscount = m.form.GetString("discount_percent")
		m.formTax = m.form.GetString("tax_percent")
	} else {
		m.formNumber = m.form.GetString("number")
		m.partyIdx = m.form.GetInt("party")
		m.formDueDate = m.form.GetString("due_date")
		m.formNotes = m.form.GetString("notes")
	}

	m.stage = editorStageItems
	m.form = nil

	if stage == editorStageItemForm {
		m.applyItemForm()
	} else {
		m.applyDetailsForm()
	}

	return m, nil
}

// applyItemForm pushes the captured strings through the draft one
// field at a time. A rejected field stops the edit and leaves the row
// at its last valid values.
func (m *EditorModel) applyItemForm() {
	idx := m.editIndex

	if idx < 0 {
		m.prefillFromCatalog()

		if err := m.draft.AddItem(pricing.NewLineItem()); err != nil {
			m.status = errStyle(err.Error())
			return
		}

		idx = m.draft.ItemCount() - 1
		m.cursor = idx
	}

	if err := m.draft.RenameItem(idx, m.formName); err != nil {
		m.status = errStyle(err.Error())
		return
	}

	edits := []struct {
		field pricing.Field
		raw   string
	}{
		{pricing.FieldQuantity, m.formQty},
		{pricing.FieldUnitPrice, m.formPrice},
		{pricing.FieldDiscountPercent, m.formDiscount},
		{pricing.FieldTaxPercent, m.formTax},
	}

	for _, edit := range edits {
		if strings.TrimSpace(edit.raw) == "" {
			continue
		}

		if err := m.draft.UpdateItem(idx, edit.field, edit.raw); err != nil {
			m.status = errStyle(fmt.Sprintf("%s: %v", edit.field, err))
			return
		}
	}

	m.status = ""
}

// prefillFromCatalog fills blank price and tax from the catalog entry
// matching the typed description, so picking a known article needs no
// retyping.
func (m *EditorModel) prefillFromCatalog() {
	name := strings.ToLower(strings.TrimSpace(m.formName))
	if name == "" {
		return
	}

	for _, item := range m.catalog {
		if strings.ToLower(item.Name) != name {
			continue
		}

		if strings.TrimSpace(m.formPrice) == "" {
			m.formPrice = item.UnitPrice.String()
		}

		if strings.TrimSpace(m.formTax) == "" {
			m.formTax = item.TaxPercent.String()
		}

		return
	}
}

func (m *EditorModel) applyDetailsForm() {
	m.draft.SetNumber(m.formNumber)
	m.draft.SetNotes(m.formNotes)

	if m.partyIdx >= 0 && m.partyIdx < len(m.parties) {
		m.draft.SetParty(m.parties[m.partyIdx].Snapshot())
	}

	var due *time.Time

	if raw := strings.TrimSpace(m.formDueDate); raw != "" {
		if t, err := time.Parse(time.DateOnly, raw); err == nil {
			due = &t
		} else {
			m.status = errStyle("invalid due date (YYYY-MM-DD)")
			return
		}
	}

	m.draft.SetDates(m.draft.IssueDate(), due)
	m.status = ""
}

func (m EditorModel) View() string {
	if m.stage == editorStageKind {
		return m.viewKindSelect()
	}

	if m.form != nil {
		title := "Line Item"
		if m.stage == editorStageDetails {
			title = "Document Details"
		}

		return lipgloss.NewStyle().Padding(1, 2).Render(title + "\n\n" + m.form.View())
	}

	return m.viewItems()
}

func (m EditorModel) viewKindSelect() string {
	s := "Document Type:\n\n"

	for i, kind := range document.Kinds {
		cursor := " "
		if i == m.kindCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, kind)
	}

	return lipgloss.NewStyle().Padding(2).Render(s + "\n(Enter to select, Esc to back)")
}

func (m EditorModel) viewItems() string {
	var b strings.Builder

	party := m.draft.Party().Name
	if party == "" {
		party = "(no party)"
	}

	number := m.draft.Number()
	if number == "" {
		number = "(no number)"
	}

	fmt.Fprintf(&b, "%s %s  %s  [%s]\n\n", m.draft.Kind(), number, party, m.draft.State())

	if m.draft.ItemCount() == 0 {
		b.WriteString("No items yet. Press 'a' to add the first line.\n")
	} else {
		fmt.Fprintf(&b, "    %-30s %8s %10s %7s %6s %12s\n",
			"Description", "Qty", "Price", "Disc%", "Tax%", "Net")

		for i, li := range m.draft.Items() {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}

			fmt.Fprintf(&b, "%s  %-30s %8s %10s %7s %6s %12s\n",
				cursor,
				truncate(li.Name, 30),
				li.Quantity.String(),
				FormatMoney(li.UnitPrice),
				li.DiscountPercent.String(),
				li.TaxPercent.String(),
				FormatMoney(li.NetAmount()),
			)
		}
	}

	totals := m.draft.Totals()

	fmt.Fprintf(&b, "\nSubtotal: %s   Discount: %s   Taxable: %s   Tax: %s   Total: %s\n",
		FormatMoney(totals.Subtotal),
		FormatMoney(totals.TotalDiscount),
		FormatMoney(totals.TaxableAmount),
		FormatMoney(totals.TotalTax),
		FormatMoney(totals.TotalAmount),
	)

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	b.WriteString("\n" + m.ShortHelp())

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func canEdit(d *draft.Draft) bool {
	return d.State() == draft.StateEmpty || d.State() == draft.StateEditing
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max-1] + "…"
}

func okStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(s)
}

func errStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

// Messages

type editorPartiesMsg struct {
	parties []apiclient.Party
	err     error
}

func (m EditorModel) loadPartiesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		parties, err := m.client.ListParties(ctx, "")

		return editorPartiesMsg{parties: parties, err: err}
	}
}

type editorCatalogMsg struct {
	items []apiclient.CatalogItem
	err   error
}

func (m EditorModel) loadCatalogCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		items, err := m.client.ListCatalog(ctx)

		return editorCatalogMsg{items: items, err: err}
	}
}

type submitDoneMsg struct {
	token int
	resp  document.Response
	err   error
}

func (m EditorModel) submitCmd(token int, req document.CreateRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx()
		defer cancel()

		resp, err := m.client.CreateDocument(ctx, req)

		return submitDoneMsg{token: token, resp: resp, err: err}
	}
}
