package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pocket/internal/filter"
	"github.com/MrJamesThe3rd/pocket/internal/record"
	"github.com/MrJamesThe3rd/pocket/internal/stats"
)

const chartWidth = 40

var (
	barStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	peakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

type StatsModel struct {
	CommonModel
	stats *stats.Service

	filter    filter.State
	chartType record.Type
	picker    TimeframePicker
	picking   bool

	series   stats.Series
	segments []stats.Segment
	summary  stats.Summary
	loading  bool
}

func NewStatsModel(statsSvc *stats.Service, st filter.State) StatsModel {
	return StatsModel{
		stats:     statsSvc,
		filter:    st,
		chartType: record.TypeExpense,
		picker:    NewTimeframePicker(st.DatePreset),
		loading:   true,
	}
}

func (m StatsModel) Title() string { return "Statistics" }

func (m StatsModel) ShortHelp() string {
	return "Esc: back | t: expense/income | d: dates | r: refresh"
}

func (m StatsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadStatsMsg:
		m.loading = false
		m.series = msg.series
		m.segments = msg.segments
		m.summary = msg.summary

		return m, nil

	case TimeframeSelectedMsg:
		m.filter = m.filter.WithDateRange(msg.Range, msg.Preset)
		m.picking = false
		m.loading = true

		return m, tea.Batch(m.loadCmd(), emitState(m.filter))

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			if msg.Type == tea.KeyEsc && m.picker.IsSelecting() {
				m.picking = false
				return m, nil
			}

			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)

			return m, cmd
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "t":
			m.chartType = next([]record.Type{record.TypeExpense, record.TypeIncome}, m.chartType)
			m.loading = true

			return m, m.loadCmd()
		case "d":
			m.picker = NewTimeframePicker(m.filter.DatePreset)
			m.picking = true

			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m StatsModel) View() string {
	if m.picking {
		return lipgloss.NewStyle().Padding(2).Render(m.picker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading statistics...")
	}

	header := fmt.Sprintf(
		"[t] %s by %s | [d] %s",
		activeStyle(string(m.chartType)),
		activeStyle(string(m.series.Granularity)),
		activeStyle(m.filter.DatePreset.String()),
	)

	totals := faintStyle.Render(fmt.Sprintf(
		"income %s | expense %s | net %s | %d records",
		FormatAmount(m.summary.Income),
		FormatAmount(-m.summary.Expense),
		FormatAmount(m.summary.Net),
		m.summary.Count,
	))

	chart := lipgloss.JoinVertical(lipgloss.Left,
		renderSeries(m.series),
		"",
		fmt.Sprintf("total %.2f | average %.2f", m.series.Total, m.series.PeriodAverage),
	)

	legend := renderLegend(m.segments)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().PaddingRight(4).Render(chart),
		legend,
	)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			body,
			"",
			totals,
		),
	)
}

// renderSeries draws one horizontal bar per bucket, scaled to the peak bucket.
func renderSeries(s stats.Series) string {
	if len(s.Buckets) == 0 {
		return faintStyle.Render("No data.")
	}

	peak := 0.0
	if s.PeakIndex >= 0 {
		peak = s.Buckets[s.PeakIndex].Total
	}

	var sb strings.Builder

	for i, b := range s.Buckets {
		style := barStyle
		if i == s.PeakIndex {
			style = peakStyle
		}

		fmt.Fprintf(&sb, "%-16s %s %10.2f\n", b.Label, style.Render(bar(b.Total, peak, chartWidth)), b.Total)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderLegend(segments []stats.Segment) string {
	if len(segments) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("By category\n\n")

	for _, s := range segments {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("●")
		fmt.Fprintf(&sb, "%s %-18s %10.2f %5.1f%%\n", dot, s.Label, s.Value, s.Share*100)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// bar returns a bar of width cells filled in proportion to v/peak.
func bar(v, peak float64, width int) string {
	if peak <= 0 || v <= 0 {
		return strings.Repeat(" ", width)
	}

	n := min(int(v/peak*float64(width)+0.5), width)

	return strings.Repeat("█", n) + strings.Repeat(" ", width-n)
}

type loadStatsMsg struct {
	series   stats.Series
	segments []stats.Segment
	summary  stats.Summary
}

func (m StatsModel) loadCmd() tea.Cmd {
	st := m.filter.Clone()
	t := m.chartType

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return loadStatsMsg{
			series:   m.stats.Series(ctx, st, t),
			segments: m.stats.Categories(ctx, st, t),
			summary:  m.stats.Summary(ctx, st),
		}
	}
}
