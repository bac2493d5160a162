package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sahay-helpdesk/helpdesk-service/internal/config"
	"github.com/sahay-helpdesk/helpdesk-service/internal/database"
	"github.com/sahay-helpdesk/helpdesk-service/internal/handler"
	"github.com/sahay-helpdesk/helpdesk-service/internal/identity"
	"github.com/sahay-helpdesk/helpdesk-service/internal/llm"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
	"github.com/sahay-helpdesk/helpdesk-service/internal/middleware"
	"github.com/sahay-helpdesk/helpdesk-service/internal/router"
	"github.com/sahay-helpdesk/helpdesk-service/internal/service"
)

// API wires the helpdesk HTTP server: store gateway, identity and LLM
// clients, handlers, router.
type API struct {
	cfg     *config.Config
	log     *logger.Logger
	httpSrv *http.Server
}

// NewAPI builds the application for the api run mode. The gorm handle opened
// here is the single long-lived store client; it is passed down explicitly
// and shared read-only.
func NewAPI(cfg *config.Config, log *logger.Logger) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.EnsureDatabase(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("ensure database: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	ticketSvc := service.NewTicketService(db, log)
	profileSvc := service.NewProfileService(db, log)
	llmClient := llm.New(cfg.LLM.APIKey, llm.WithBaseURL(cfg.LLM.BaseURL), llm.WithModel(cfg.LLM.Model))
	idpClient := identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.AnonKey)

	h := router.New(router.Deps{
		Ticket:      handler.NewTicketHandler(ticketSvc, log),
		Chat:        handler.NewChatHandler(llmClient, log),
		Auth:        handler.NewAuthHandler(idpClient, profileSvc, log),
		AuthMW:      middleware.NewAuthMiddleware(log, cfg.Identity.JWTSecret),
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, log: log, httpSrv: httpSrv}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	a.log.Info("HTTP server listening", "addr", a.httpSrv.Addr)
	a.log.Info("endpoints",
		"swagger", base+"/swagger",
		"health", base+"/health",
		"api", base+"/api/v1/",
	)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("http server", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
