package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/filter"
	"github.com/MrJamesThe3rd/pocket/internal/matching"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	"github.com/MrJamesThe3rd/pocket/internal/stats"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks through records that landed in a fallback category on
// import. Each answer updates the record and teaches the matcher the payee.
type ReviewModel struct {
	CommonModel
	records  *record.Service
	stats    *stats.Service
	matching *matching.Service

	state  reviewState
	filter filter.State
	picker TimeframePicker

	queue   []record.Record
	current *record.Record
	fields  *recordFields
	form    *huh.Form

	total   int
	loading bool
	status  string
}

func NewReviewModel(recordSvc *record.Service, statsSvc *stats.Service, matchSvc *matching.Service, st filter.State) ReviewModel {
	return ReviewModel{
		records:  recordSvc,
		stats:    statsSvc,
		matching: matchSvc,
		filter:   st.Reset(),
		picker:   NewTimeframePicker(st.DatePreset),
		status:   "Select timeframe to review",
	}
}

func (m ReviewModel) Title() string { return "Review Imports" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateTimeframe {
		return "Esc: back | Enter: select"
	}

	return "Enter: save & next | ctrl+n: skip | Esc: quit"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.filter = m.filter.WithDateRange(msg.Range, msg.Preset)
		m.state = reviewStateReviewing
		m.loading = true

		return m, m.loadCmd()

	case loadReviewMsg:
		m.loading = false
		m.queue = msg.records
		m.total = len(msg.records)

		if m.total == 0 {
			m.status = "No uncategorised records found."
			return m, nil
		}

		return m, m.nextRecord()

	case reviewSavedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error saving: %v", msg.err))
			return m, m.reopen()
		}

		return m, m.nextRecord()

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch m.state {
		case reviewStateTimeframe:
			if msg.Type == tea.KeyEsc && m.picker.IsSelecting() {
				return m, Back
			}

			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)

			return m, cmd

		case reviewStateReviewing:
			switch msg.String() {
			case "esc":
				return m, Back
			case "ctrl+n":
				return m, m.nextRecord()
			}
		}
	}

	if m.state == reviewStateTimeframe {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	if m.form == nil {
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

// nextRecord pops the queue and prefills the form with any learned mapping.
func (m *ReviewModel) nextRecord() tea.Cmd {
	if len(m.queue) == 0 {
		m.current = nil
		m.form = nil
		m.status = successStyle.Render("All done! Nothing left to review.")

		return nil
	}

	r := m.queue[0]
	m.queue = m.queue[1:]
	m.current = &r
	m.status = fmt.Sprintf("Reviewing %d/%d", m.total-len(m.queue), m.total)

	m.fields = fieldsFrom(&r, r.Date)
	m.fields.CategoryID = ""

	ctx, cancel := DbCtx()
	defer cancel()

	if s, err := m.matching.Suggest(ctx, r.Payee); err == nil && s != nil {
		m.fields.Payee = s.Payee
		m.fields.CategoryID = s.CategoryID
		m.fields.SubcategoryID = s.SubcategoryID
	}

	return m.reopen()
}

func (m *ReviewModel) reopen() tea.Cmd {
	if m.current == nil {
		return nil
	}

	h := m.records.Categories()
	f := m.fields

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Payee").
				Value(&f.Payee).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("payee cannot be empty")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions(h, m.current.Type)...).
				Value(&f.CategoryID),

			huh.NewSelect[string]().
				Title("Subcategory").
				OptionsFunc(func() []huh.Option[string] {
					return subcategoryOptions(h, f.CategoryID)
				}, &f.CategoryID).
				Value(&f.SubcategoryID),
		),
	).WithWidth(50).WithShowHelp(false)

	return m.form.Init()
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(2).Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading records...")
	}

	if m.current == nil || m.form == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	r := m.current
	info := fmt.Sprintf(
		"Date:   %s\nType:   %s\nAmount: %s\nRaw:    %s\n",
		FormatDate(r.Date),
		r.Type,
		FormatAmount(r.Amount),
		r.Payee,
	)

	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"%s\n\n%s\n%s\n\n%s",
		m.status, info, m.form.View(),
		faintStyle.Render("(Enter to save & next, ctrl+n to skip, Esc to quit)"),
	))
}

// needsReview reports whether r still sits in an import fallback category.
func needsReview(r record.Record) bool {
	switch r.CategoryID {
	case "other":
		return true
	case "income":
		return r.SubcategoryID == ""
	}

	return false
}

type loadReviewMsg struct {
	records []record.Record
}

func (m ReviewModel) loadCmd() tea.Cmd {
	st := m.filter.WithSort(filter.SortDateAsc)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var queue []record.Record

		for _, r := range m.stats.Records(ctx, st) {
			if needsReview(r) {
				queue = append(queue, r)
			}
		}

		return loadReviewMsg{records: queue}
	}
}

type reviewSavedMsg struct {
	err error
}

func (m ReviewModel) saveCmd() tea.Cmd {
	r := *m.current
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		payee := strings.TrimSpace(f.Payee)

		if _, err := m.records.Update(ctx, r.ID, record.Patch{
			Payee:         &payee,
			CategoryID:    &f.CategoryID,
			SubcategoryID: &f.SubcategoryID,
		}); err != nil {
			return reviewSavedMsg{err: err}
		}

		if err := m.matching.Learn(ctx, matching.Mapping{
			Pattern:       r.Payee,
			Payee:         payee,
			CategoryID:    f.CategoryID,
			SubcategoryID: f.SubcategoryID,
		}); err != nil {
			return reviewSavedMsg{err: err}
		}

		return reviewSavedMsg{}
	}
}
