package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmccarty/tradeops/internal/followup"
	"github.com/kmccarty/tradeops/internal/quote"
)

type followUpState int

const (
	followUpStateBrowse followUpState = iota
	followUpStateLog
)

// FollowUpModel is the call sheet: open quotes ordered by next contact
// date. Logging an outcome closes won/lost quotes through the quote
// lifecycle.
type FollowUpModel struct {
	CommonModel
	followUpService *followup.Service

	state   followUpState
	table   table.Model
	entries []followup.Entry
	form    *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formOutcome  string
	formNextDate string
}

func NewFollowUpModel(followUpSvc *followup.Service) FollowUpModel {
	columns := []table.Column{
		{Title: "Next Contact", Width: 13},
		{Title: "Customer", Width: 24},
		{Title: "Total", Width: 10},
		{Title: "Last Outcome", Width: 14},
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

	return FollowUpModel{
		followUpService: followUpSvc,
		table:           t,
	}
}

func (m FollowUpModel) Title() string { return "Follow-Ups" }
func (m FollowUpModel) ShortHelp() string {
	if m.state == followUpStateLog {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | l: log call | r: refresh"
}

func (m FollowUpModel) Init() tea.Cmd {
	return m.loadEntriesCmd()
}

func (m FollowUpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadFollowUpsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
		m.refreshTable()
		return m, nil

	case logInteractionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = "Interaction logged"
		}
		m.state = followUpStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadEntriesCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case followUpStateBrowse:
		return m.updateBrowse(msg)
	case followUpStateLog:
		return m.updateLog(msg)
	}

	return m, nil
}

func (m FollowUpModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadEntriesCmd()
		case "l":
			return m.enterLogMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m FollowUpModel) enterLogMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return m, nil
	}

	m.formOutcome = string(quote.FollowUpNeedsCall)
	m.formNextDate = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("outcome").
				Title("Outcome").
				Options(
					huh.NewOption("Needs Call", string(quote.FollowUpNeedsCall)),
					huh.NewOption("Left Voicemail", string(quote.FollowUpLeftVoicemail)),
					huh.NewOption("Won", string(quote.FollowUpWon)),
					huh.NewOption("Lost", string(quote.FollowUpLost)),
				).
				Value(&m.formOutcome),

			huh.NewInput().
				Key("next_date").
				Title("Next Contact (YYYY-MM-DD, blank for none)").
				Value(&m.formNextDate).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = followUpStateLog
	m.table.Blur()
	return m, m.form.Init()
}

func (m FollowUpModel) updateLog(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = followUpStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.logCmd()
}

func (m FollowUpModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading follow-ups...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Open Quotes"),
		tableView,
	)

	if m.state == followUpStateLog && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Log Call\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *FollowUpModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		next := "-"
		if e.NextFollowUp != nil {
			next = FormatDate(*e.NextFollowUp)
		}

		rows = append(rows, table.Row{
			next,
			e.CustomerName,
			FormatMoney(e.Total),
			string(e.FollowUpStatus),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadFollowUpsMsg struct {
	entries []followup.Entry
	err     error
}

func (m FollowUpModel) loadEntriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := m.followUpService.DueList(ctx, nil)
		return loadFollowUpsMsg{entries: entries, err: err}
	}
}

type logInteractionMsg struct {
	err error
}

func (m FollowUpModel) logCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return nil
	}

	params := followup.InteractionParams{
		QuoteID: m.entries[idx].QuoteID,
		Outcome: quote.FollowUpStatus(m.formOutcome),
	}
	if s := strings.TrimSpace(m.formNextDate); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			params.NextFollowUp = &t
		}
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.followUpService.LogInteraction(ctx, params)
		return logInteractionMsg{err: err}
	}
}
