package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmccarty/tradeops/internal/dispatch"
	"github.com/kmccarty/tradeops/internal/job"
	"github.com/kmccarty/tradeops/internal/user"
)

type dispatchState int

const (
	dispatchStateBrowse dispatchState = iota
	dispatchStateAssign
)

// DispatchModel is the dispatch board: unscheduled work on top, and an
// assign form that puts a tech and time window on the selected job.
type DispatchModel struct {
	CommonModel
	dispatchService *dispatch.Service
	userService     *user.Service

	state dispatchState
	table table.Model
	jobs  []*job.Job
	form  *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formTech     string
	formDate     string
	formTime     string
	formDuration string
}

func NewDispatchModel(dispatchSvc *dispatch.Service, userSvc *user.Service) DispatchModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Title", Width: 28},
		{Title: "Address", Width: 28},
		{Title: "Total", Width: 10},
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

	return DispatchModel{
		dispatchService: dispatchSvc,
		userService:     userSvc,
		table:           t,
	}
}

func (m DispatchModel) Title() string { return "Dispatch Board" }
func (m DispatchModel) ShortHelp() string {
	if m.state == dispatchStateAssign {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | a: assign | r: refresh"
}

func (m DispatchModel) Init() tea.Cmd {
	return m.loadJobsCmd()
}

func (m DispatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDispatchMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.jobs = msg.jobs
		m.refreshTable()
		return m, nil

	case assignDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error assigning: %v", msg.err)
		} else {
			m.status = "Job scheduled"
		}
		m.state = dispatchStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadJobsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case dispatchStateBrowse:
		return m.updateBrowse(msg)
	case dispatchStateAssign:
		return m.updateAssign(msg)
	}

	return m, nil
}

func (m DispatchModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadJobsCmd()
		case "a":
			return m.enterAssignMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DispatchModel) enterAssignMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.jobs) {
		return m, nil
	}

	ctx, cancel := DbCtx()
	defer cancel()

	techs, err := m.userService.ListTechs(ctx)
	if err != nil {
		m.status = fmt.Sprintf("Error loading techs: %v", err)
		return m, nil
	}

	options := make([]huh.Option[string], 0, len(techs))
	for _, tech := range techs {
		options = append(options, huh.NewOption(tech.FullName, tech.Username))
	}

	m.formTech = ""
	m.formDate = FormatDate(time.Now())
	m.formTime = "09:00"
	m.formDuration = "120"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("tech").
				Title("Technician").
				Options(options...).
				Value(&m.formTech),

			huh.NewInput().
				Key("date").
				Title("Date (YYYY-MM-DD)").
				Value(&m.formDate).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("time").
				Title("Start Time (HH:MM)").
				Value(&m.formTime),

			huh.NewInput().
				Key("duration").
				Title("Duration (minutes)").
				Value(&m.formDuration).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 0 {
						return fmt.Errorf("enter a non-negative number")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = dispatchStateAssign
	m.table.Blur()
	return m, m.form.Init()
}

func (m DispatchModel) updateAssign(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = dispatchStateBrowse
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

	return m, m.assignCmd()
}

func (m DispatchModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dispatch board...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Unscheduled Jobs"),
		tableView,
	)

	if m.state == dispatchStateAssign && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Assign Job\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *DispatchModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.jobs))
	for _, j := range m.jobs {
		rows = append(rows, table.Row{
			FormatDate(j.CreatedAt),
			string(j.Status),
			j.Title,
			j.Address,
			FormatMoney(j.Total),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadDispatchMsg struct {
	jobs []*job.Job
	err  error
}

func (m DispatchModel) loadJobsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		jobs, err := m.dispatchService.ListUnscheduled(ctx)
		return loadDispatchMsg{jobs: jobs, err: err}
	}
}

type assignDoneMsg struct {
	err error
}

func (m DispatchModel) assignCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.jobs) {
		return nil
	}

	params := dispatch.AssignParams{
		JobID:        m.jobs[idx].ID,
		TechUsername: m.formTech,
		Date:         strings.TrimSpace(m.formDate),
		StartTime:    strings.TrimSpace(m.formTime),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(m.formDuration)); err == nil {
		params.DurationMinutes = n
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.dispatchService.Assign(ctx, params)
		return assignDoneMsg{err: err}
	}
}
