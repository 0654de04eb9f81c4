package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmccarty/tradeops/internal/quote"
)

// QuotesModel is the quote pipeline browser. Status moves only go forward,
// so the action keys mirror the lifecycle: send, approve, decline.
type QuotesModel struct {
	CommonModel
	quoteService *quote.Service

	table  table.Model
	quotes []*quote.Quote

	statusFilterIdx int

	loading bool
	err     error
	status  string
}

func NewQuotesModel(quoteSvc *quote.Service) QuotesModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Total", Width: 10},
		{Title: "Margin %", Width: 9},
		{Title: "Follow-Up", Width: 14},
		{Title: "Notes", Width: 36},
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

	return QuotesModel{
		quoteService: quoteSvc,
		table:        t,
	}
}

func (m QuotesModel) Title() string { return "Quotes" }
func (m QuotesModel) ShortHelp() string {
	return "Esc: back | s: status filter | m: mark sent | a: approve | d: decline | r: refresh"
}

func (m QuotesModel) Init() tea.Cmd {
	return m.loadQuotesCmd()
}

func (m QuotesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadQuotesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.quotes = msg.quotes
		m.refreshTable()
		return m, nil

	case quoteActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.status = ""
		return m, m.loadQuotesCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadQuotesCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 5
			return m, m.loadQuotesCmd()
		case "m":
			return m, m.setStatusCmd(quote.StatusSent)
		case "a":
			return m, m.setStatusCmd(quote.StatusApproved)
		case "d":
			return m, m.setStatusCmd(quote.StatusDeclined)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m QuotesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading quotes...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabels := []string{"All", "Draft", "Sent", "Approved", "Declined"}

	header := fmt.Sprintf("Filter: [s] Status: %s", activeStyle(statusLabels[m.statusFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m QuotesModel) currentFilter() quote.ListFilter {
	filter := quote.ListFilter{}

	switch m.statusFilterIdx {
	case 1:
		filter.Status = ptr(quote.StatusDraft)
	case 2:
		filter.Status = ptr(quote.StatusSent)
	case 3:
		filter.Status = ptr(quote.StatusApproved)
	case 4:
		filter.Status = ptr(quote.StatusDeclined)
	}

	return filter
}

func (m *QuotesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.quotes))
	for _, q := range m.quotes {
		followUp := string(q.FollowUpStatus)
		if q.NextFollowUp != nil {
			followUp = FormatDate(*q.NextFollowUp)
		}

		rows = append(rows, table.Row{
			FormatDate(q.CreatedAt),
			string(q.Status),
			FormatMoney(q.Total),
			FormatMoney(q.MarginPercent),
			followUp,
			q.Notes,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadQuotesMsg struct {
	quotes []*quote.Quote
	err    error
}

func (m QuotesModel) loadQuotesCmd() tea.Cmd {
	filter := m.currentFilter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		quotes, err := m.quoteService.List(ctx, filter)
		return loadQuotesMsg{quotes: quotes, err: err}
	}
}

type quoteActionMsg struct {
	err error
}

func (m QuotesModel) setStatusCmd(status quote.Status) tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.quotes) {
		return nil
	}

	id := m.quotes[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.quoteService.SetStatus(ctx, id, status)
		return quoteActionMsg{err: err}
	}
}

func ptr[T any](v T) *T { return &v }
