package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/kmccarty/tradeops/internal/auth"
	"github.com/kmccarty/tradeops/internal/catalog"
	catalogStore "github.com/kmccarty/tradeops/internal/catalog/store"
	"github.com/kmccarty/tradeops/internal/config"
	"github.com/kmccarty/tradeops/internal/customer"
	customerStore "github.com/kmccarty/tradeops/internal/customer/store"
	"github.com/kmccarty/tradeops/internal/database"
	"github.com/kmccarty/tradeops/internal/dispatch"
	"github.com/kmccarty/tradeops/internal/followup"
	tradeopsHttp "github.com/kmccarty/tradeops/internal/http"
	authHandler "github.com/kmccarty/tradeops/internal/http/auth"
	catalogHandler "github.com/kmccarty/tradeops/internal/http/catalog"
	customerHandler "github.com/kmccarty/tradeops/internal/http/customer"
	dashboardHandler "github.com/kmccarty/tradeops/internal/http/dashboard"
	followupHandler "github.com/kmccarty/tradeops/internal/http/followup"
	jobHandler "github.com/kmccarty/tradeops/internal/http/job"
	quoteHandler "github.com/kmccarty/tradeops/internal/http/quote"
	"github.com/kmccarty/tradeops/internal/importer"
	"github.com/kmccarty/tradeops/internal/job"
	jobStore "github.com/kmccarty/tradeops/internal/job/store"
	"github.com/kmccarty/tradeops/internal/quote"
	quoteStore "github.com/kmccarty/tradeops/internal/quote/store"
	"github.com/kmccarty/tradeops/internal/seed"
	"github.com/kmccarty/tradeops/internal/user"
	userStore "github.com/kmccarty/tradeops/internal/user/store"
)

func main() {
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
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		customers = customerStore.New(db)
		jobs      = jobStore.New(db)
		users     = userStore.New(db)
	)

	var (
		customerService = customer.NewService(customers)
		catalogService  = catalog.NewService(catalogStore.New(db))
		userService     = user.NewService(users)
		jobService      = job.NewService(jobs, customers)
		quoteService    = quote.NewService(quoteStore.New(db), customers, jobService)
		dispatchService = dispatch.NewService(jobs, users)
		followupService = followup.NewService(quoteService, customers)
		importService   = importer.NewService()
		authService     = auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	)

	if err := seed.Run(context.Background(), userService, customerService, catalogService); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	var (
		authH      = authHandler.NewHandler(userService, authService)
		customerH  = customerHandler.NewHandler(customerService, quoteService, jobService)
		catalogH   = catalogHandler.NewHandler(catalogService, importService)
		quoteH     = quoteHandler.NewHandler(quoteService)
		jobH       = jobHandler.NewHandler(jobService, dispatchService)
		followupH  = followupHandler.NewHandler(followupService)
		dashboardH = dashboardHandler.NewHandler(quoteService, jobService, dispatchService)
	)

	router := tradeopsHttp.New(authService, authH, customerH, catalogH, quoteH, jobH, followupH, dashboardH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
