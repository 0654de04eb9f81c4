package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/kmccarty/tradeops/cmd/tui/internal/view"
	"github.com/kmccarty/tradeops/internal/config"
	customerStore "github.com/kmccarty/tradeops/internal/customer/store"
	"github.com/kmccarty/tradeops/internal/database"
	"github.com/kmccarty/tradeops/internal/dispatch"
	"github.com/kmccarty/tradeops/internal/followup"
	"github.com/kmccarty/tradeops/internal/job"
	jobStore "github.com/kmccarty/tradeops/internal/job/store"
	"github.com/kmccarty/tradeops/internal/quote"
	quoteStore "github.com/kmccarty/tradeops/internal/quote/store"
	"github.com/kmccarty/tradeops/internal/user"
	userStore "github.com/kmccarty/tradeops/internal/user/store"
)

type model struct {
	quoteService    *quote.Service
	dispatchService *dispatch.Service
	followUpService *followup.Service
	userService     *user.Service

	currentView View

	quotesView   view.QuotesModel
	dispatchView view.DispatchModel
	followUpView view.FollowUpModel
}

type View int

const (
	ViewMenu     View = 0
	ViewQuotes   View = 1
	ViewDispatch View = 2
	ViewFollowUp View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	customers := customerStore.New(db)
	jobs := jobStore.New(db)
	users := userStore.New(db)

	userSvc := user.NewService(users)
	jobSvc := job.NewService(jobs, customers)
	quoteSvc := quote.NewService(quoteStore.New(db), customers, jobSvc)
	dispatchSvc := dispatch.NewService(jobs, users)
	followUpSvc := followup.NewService(quoteSvc, customers)

	return model{
		quoteService:    quoteSvc,
		dispatchService: dispatchSvc,
		followUpService: followUpSvc,
		userService:     userSvc,
		currentView:     ViewMenu,
		quotesView:      view.NewQuotesModel(quoteSvc),
		dispatchView:    view.NewDispatchModel(dispatchSvc, userSvc),
		followUpView:    view.NewFollowUpModel(followUpSvc),
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
				m.currentView = ViewQuotes
				m.quotesView = view.NewQuotesModel(m.quoteService)

				return m, m.quotesView.Init()
			case "2":
				m.currentView = ViewDispatch
				m.dispatchView = view.NewDispatchModel(m.dispatchService, m.userService)

				return m, m.dispatchView.Init()
			case "3":
				m.currentView = ViewFollowUp
				m.followUpView = view.NewFollowUpModel(m.followUpService)

				return m, m.followUpView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewQuotes:
		var newModel tea.Model
		newModel, cmd = m.quotesView.Update(msg)
		m.quotesView = newModel.(view.QuotesModel)
	case ViewDispatch:
		var newModel tea.Model
		newModel, cmd = m.dispatchView.Update(msg)
		m.dispatchView = newModel.(view.DispatchModel)
	case ViewFollowUp:
		var newModel tea.Model
		newModel, cmd = m.followUpView.Update(msg)
		m.followUpView = newModel.(view.FollowUpModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"TradeOps TUI\n\n" +
				"1. Quotes\n" +
				"2. Dispatch Board\n" +
				"3. Follow-Ups\n\n" +
				"q. Quit",
		)
	case ViewQuotes:
		return m.quotesView.View()
	case ViewDispatch:
		return m.dispatchView.View()
	case ViewFollowUp:
		return m.followUpView.View()
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
