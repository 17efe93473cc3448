package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/oscarfh/bizdesk/internal/analytics"
	analyticsStore "github.com/oscarfh/bizdesk/internal/analytics/store"
	"github.com/oscarfh/bizdesk/internal/catalog"
	catalogStore "github.com/oscarfh/bizdesk/internal/catalog/store"
	"github.com/oscarfh/bizdesk/internal/config"
	"github.com/oscarfh/bizdesk/internal/database"
	"github.com/oscarfh/bizdesk/internal/document"
	documentStore "github.com/oscarfh/bizdesk/internal/document/store"
	bizdeskHttp "github.com/oscarfh/bizdesk/internal/http"
	analyticsHandler "github.com/oscarfh/bizdesk/internal/http/analytics"
	catalogHandler "github.com/oscarfh/bizdesk/internal/http/catalog"
	documentHandler "github.com/oscarfh/bizdesk/internal/http/document"
	partyHandler "github.com/oscarfh/bizdesk/internal/http/party"
	"github.com/oscarfh/bizdesk/internal/party"
	partyStore "github.com/oscarfh/bizdesk/internal/party/store"
)

func main() {
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
	defer db.Close()

	broker := analytics.NewBroker()

	var (
		documentService  = document.NewService(documentStore.New(db), broker)
		partyService     = party.NewService(partyStore.New(db))
		catalogService   = catalog.NewService(catalogStore.New(db))
		analyticsService = analytics.NewService(analyticsStore.New(db))
	)

	var (
		documentH  = documentHandler.NewHandler(documentService)
		partyH     = partyHandler.NewHandler(partyService)
		catalogH   = catalogHandler.NewHandler(catalogService)
		analyticsH = analyticsHandler.NewHandler(analyticsService, broker)
	)

	router := bizdeskHttp.New(cfg.Auth.Secret, documentH, partyH, catalogH, analyticsH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
