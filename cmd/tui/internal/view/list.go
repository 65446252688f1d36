package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/account"
	"github.com/MrJamesThe3rd/pocket/internal/category"
	"github.com/MrJamesThe3rd/pocket/internal/daterange"
	"github.com/MrJamesThe3rd/pocket/internal/filter"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	"github.com/MrJamesThe3rd/pocket/internal/stats"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateCategories
	listStateTimeframe
	listStateForm
	listStateDelete
)

var recordTypes = []record.Type{filter.TypeAll, record.TypeExpense, record.TypeIncome}

type RecordsModel struct {
	CommonModel
	records *record.Service
	stats   *stats.Service

	state    listState
	filter   filter.State
	table    table.Model
	rows     []record.Record
	summary  stats.Summary
	search   textinput.Model
	picker   TimeframePicker
	form     *huh.Form
	fields   *recordFields
	editing  *record.Record
	selected *[]string

	loading bool
	status  string
}

func NewRecordsModel(recordSvc *record.Service, statsSvc *stats.Service, st filter.State) RecordsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Title", Width: 28},
		{Title: "Category", Width: 22},
		{Title: "Account", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Labels", Width: 20},
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

	si := textinput.New()
	si.Placeholder = "payee, note, category or label"
	si.Prompt = "Search: "
	si.SetValue(st.SearchTerm)

	return RecordsModel{
		records: recordSvc,
		stats:   statsSvc,
		filter:  st,
		table:   t,
		search:  si,
		picker:  NewTimeframePicker(st.DatePreset),
		loading: true,
	}
}

func (m RecordsModel) Title() string { return "Records" }

func (m RecordsModel) ShortHelp() string {
	switch m.state {
	case listStateForm, listStateCategories:
		return "Navigate form | Esc: cancel"
	case listStateSearch:
		return "Enter: apply | Esc: cancel"
	case listStateDelete:
		return "y: delete | n: keep"
	}

	return "Esc: back | t: type | a: account | o: sort | /: search | c: categories | d: dates | x: reset | n: new | e: edit | D: delete | r: refresh"
}

func (m RecordsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRecordsMsg:
		m.loading = false
		m.rows = msg.records
		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case recordSavedMsg:
		m.state = listStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error saving: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render(msg.done)

		return m, m.loadCmd()

	case TimeframeSelectedMsg:
		m.filter = m.filter.WithDateRange(msg.Range, msg.Preset)
		m.state = listStateBrowse
		m.table.Focus()

		return m.refilter()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	switch m.state {
	case listStateSearch:
		return m.updateSearch(msg)
	case listStateCategories:
		return m.updateCategories(msg)
	case listStateTimeframe:
		return m.updateTimeframe(msg)
	case listStateForm:
		return m.updateForm(msg)
	case listStateDelete:
		return m.updateDelete(msg)
	}

	return m.updateBrowse(msg)
}

func (m RecordsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.filter = m.filter.WithRecordType(next(recordTypes, m.filter.RecordType))
			return m.refilter()
		case "a":
			m.filter = m.filter.WithAccount(next(accountIDs(), m.filter.SelectedAccount))
			return m.refilter()
		case "o":
			m.filter = m.filter.WithSort(next(filter.SortKeys, m.filter.Sort))
			return m.refilter()
		case "x":
			m.filter = m.filter.Reset()
			m.search.SetValue("")

			return m.refilter()
		case "/":
			m.state = listStateSearch
			m.table.Blur()

			return m, m.search.Focus()
		case "c":
			return m.openCategories()
		case "d":
			m.state = listStateTimeframe
			m.picker = NewTimeframePicker(m.filter.DatePreset)
			m.table.Blur()

			return m, nil
		case "n":
			return m.openForm(nil)
		case "e", "enter":
			if r := m.current(); r != nil {
				return m.openForm(r)
			}

			return m, nil
		case "D":
			if m.current() != nil {
				m.state = listStateDelete
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RecordsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.filter = m.filter.WithSearchTerm(m.search.Value())
			m.search.Blur()
			m.state = listStateBrowse
			m.table.Focus()

			return m.refilter()
		case tea.KeyEsc:
			m.search.SetValue(m.filter.SearchTerm)
			m.search.Blur()
			m.state = listStateBrowse
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m RecordsModel) openCategories() (tea.Model, tea.Cmd) {
	h := m.records.Categories()
	m.selected = new(slices.Clone(m.filter.SelectedCategories))
	m.filter = m.filter.StageCategories(*m.selected)

	var opts []huh.Option[string]

	for _, kind := range []category.Kind{category.KindExpense, category.KindIncome} {
		for _, c := range h.Categories(kind) {
			opts = append(opts, huh.NewOption(c.Name, c.ID))
			for _, s := range c.Subcategories {
				opts = append(opts, huh.NewOption("  "+s.Name, s.ID))
			}
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Categories").
				Description("A category includes all of its subcategories").
				Options(opts...).
				Height(15).
				Value(m.selected),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateCategories
	m.table.Blur()

	return m, m.form.Init()
}

func (m RecordsModel) updateCategories(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.filter = m.filter.DiscardStagedCategories()
		m.closeForm()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	h := m.records.Categories()
	m.filter = m.filter.StageCategories(h.Expand(*m.selected)).CommitCategories()
	m.closeForm()

	return m.refilter()
}

func (m RecordsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
		m.state = listStateBrowse
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m RecordsModel) openForm(r *record.Record) (tea.Model, tea.Cmd) {
	m.editing = r
	m.fields = fieldsFrom(r, time.Now())
	m.form = newRecordForm(m.records.Categories(), m.fields)
	m.state = listStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m RecordsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.editing = nil
		m.closeForm()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m RecordsModel) updateDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		r := m.current()
		m.state = listStateBrowse

		if r == nil {
			return m, nil
		}

		return m, m.deleteCmd(r.ID)
	case "n", "N", "esc":
		m.state = listStateBrowse
	}

	return m, nil
}

func (m *RecordsModel) closeForm() {
	m.form = nil
	m.state = listStateBrowse
	m.table.Focus()
}

func (m RecordsModel) refilter() (tea.Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.loadCmd(), emitState(m.filter))
}

func (m RecordsModel) current() *record.Record {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}

	r := m.rows[idx]

	return &r
}

func (m *RecordsModel) refreshTable() {
	engine := m.stats.Engine()

	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, table.Row{
			FormatDate(r.Date),
			engine.Title(r),
			engine.Subtitle(r),
			account.Name(r.AccountID),
			FormatAmount(r.Amount),
			strings.Join(r.Labels, ", "),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m RecordsModel) header() string {
	st := m.filter

	typ := "All"
	if st.RecordType != filter.TypeAll {
		typ = string(st.RecordType)
	}

	dates := st.DatePreset.String()
	if st.DateRange != nil && st.DatePreset == daterange.PresetCustom {
		dates = st.DateRange.String()
	}

	cats := "any"
	if len(st.SelectedCategories) > 0 {
		cats = fmt.Sprintf("%d selected", len(st.SelectedCategories))
	}

	search := "none"
	if st.SearchTerm != "" {
		search = fmt.Sprintf("%q", st.SearchTerm)
	}

	return fmt.Sprintf(
		"[t] Type: %s | [a] Account: %s | [o] Sort: %s\n[d] Dates: %s | [c] Categories: %s | [/] Search: %s",
		activeStyle(typ),
		activeStyle(account.Name(st.SelectedAccount)),
		activeStyle(st.Sort.String()),
		activeStyle(dates),
		activeStyle(cats),
		activeStyle(search),
	)
}

func (m RecordsModel) View() string {
	if m.state == listStateTimeframe {
		return lipgloss.NewStyle().Padding(2).Render(m.picker.View())
	}

	totals := faintStyle.Render(fmt.Sprintf(
		"%d records | income %s | expense %s | net %s",
		m.summary.Count,
		FormatAmount(m.summary.Income),
		FormatAmount(-m.summary.Expense),
		FormatAmount(m.summary.Net),
	))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	parts := []string{lipgloss.NewStyle().PaddingBottom(1).Render(m.header())}

	if m.state == listStateSearch {
		parts = append(parts, m.search.View())
	}

	parts = append(parts, tableView, totals)

	if m.loading {
		parts = append(parts, faintStyle.Render("Loading records..."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if (m.state == listStateForm || m.state == listStateCategories) && m.form != nil {
		title := "New Record"
		switch {
		case m.state == listStateCategories:
			title = "Filter Categories"
		case m.editing != nil:
			title = "Edit Record"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.state == listStateDelete {
		if r := m.current(); r != nil {
			content += "\n\n" + errorStyle.Render(fmt.Sprintf(
				"Delete %s %s on %s? (y/n)",
				m.stats.Engine().Title(*r), FormatAmount(r.Amount), FormatDate(r.Date),
			))
		}
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// next returns the value after cur in values, wrapping around.
func next[T comparable](values []T, cur T) T {
	i := slices.Index(values, cur)
	return values[(i+1)%len(values)]
}

func accountIDs() []string {
	ids := []string{account.All}
	for _, a := range account.List() {
		ids = append(ids, a.ID)
	}

	return ids
}

// Messages

type loadRecordsMsg struct {
	records []record.Record
	summary stats.Summary
}

func (m RecordsModel) loadCmd() tea.Cmd {
	st := m.filter.Clone()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return loadRecordsMsg{
			records: m.stats.Records(ctx, st),
			summary: m.stats.Summary(ctx, st),
		}
	}
}

type recordSavedMsg struct {
	done string
	err  error
}

func (m RecordsModel) saveCmd() tea.Cmd {
	fields := *m.fields
	editing := m.editing

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			r, err := fields.record(record.Record{}, time.Local)
			if err != nil {
				return recordSavedMsg{err: err}
			}

			if _, err := m.records.Append(ctx, r); err != nil {
				return recordSavedMsg{err: err}
			}

			return recordSavedMsg{done: "Record added."}
		}

		patch, err := fields.patch(editing.Date.Location())
		if err != nil {
			return recordSavedMsg{err: err}
		}

		if _, err := m.records.Update(ctx, editing.ID, patch); err != nil {
			return recordSavedMsg{err: err}
		}

		return recordSavedMsg{done: "Record updated."}
	}
}

func (m RecordsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.records.Remove(ctx, id); err != nil {
			return recordSavedMsg{err: err}
		}

		return recordSavedMsg{done: "Record deleted."}
	}
}
