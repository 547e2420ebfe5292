// Event registration server: attendance confirmation with PIX payment codes
// and, when enabled, visitor registration for facility access.
//
// @title        Event Registration API
// @version      1.0
// @description  Attendance confirmation with PIX payment codes, visitor registration and admin exports.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	_ "github.com/AlexZinkM/event-registration/docs"
	"github.com/AlexZinkM/event-registration/internal/api"
	"github.com/AlexZinkM/event-registration/internal/config"
	"github.com/AlexZinkM/event-registration/internal/crypto"
	"github.com/AlexZinkM/event-registration/internal/flow"
	"github.com/AlexZinkM/event-registration/internal/handler"
	"github.com/AlexZinkM/event-registration/internal/logger"
	"github.com/AlexZinkM/event-registration/internal/metrics"
	"github.com/AlexZinkM/event-registration/internal/registration"
	"github.com/AlexZinkM/event-registration/internal/roster"
	"github.com/AlexZinkM/event-registration/internal/store"
	"github.com/AlexZinkM/event-registration/internal/visit"
	"github.com/AlexZinkM/event-registration/pix"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Get()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	guests, err := roster.Load(cfg.RosterFilePath, cfg.RosterEncoding)
	if err != nil {
		return err
	}
	log.Info("guest list loaded",
		zap.String("path", cfg.RosterFilePath),
		zap.String("encoding", cfg.RosterEncoding),
		zap.Int("participants", guests.Len()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	pricing := flow.Pricing{
		Under5:         cfg.PriceUnder5,
		From5To12:      cfg.Price5To12,
		Above12:        cfg.PriceAbove12,
		MaxPerCategory: cfg.MaxGuestsPerCategory,
	}
	merchant := registration.Merchant{Key: cfg.PIXKey, Name: cfg.PIXMerchantName, City: cfg.PIXCity}
	encoder := pix.NewEncoder(pix.WithRenderer(pix.QRRenderer{ModulePixels: cfg.QRModulePixels}))

	// fail at startup, not on the first guest, when the merchant cannot be encoded
	if _, err := encoder.Payload(pix.PaymentRequest{
		RecipientKey: merchant.Key,
		MerchantName: merchant.Name,
		MerchantCity: merchant.City,
	}); err != nil {
		return fmt.Errorf("invalid PIX merchant config: %w", err)
	}

	confirmations := store.NewConfirmationStore(cfg.ConfirmationsPath())
	regService := registration.NewService(flow.NewWizard(guests, pricing), confirmations, encoder, merchant, m, log)

	handlers := api.Handlers{
		Registration: handler.NewRegistrationHandler(regService, handler.Event{
			Name:          cfg.EventName,
			Date:          cfg.EventDate,
			Location:      cfg.EventLocation,
			VisitsEnabled: cfg.VisitsEnabled,
		}, log),
	}
	adminCfg := handler.AdminConfig{Password: cfg.AdminPassword, ExportEnabled: cfg.ExportEnabled}
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set, admin endpoints are disabled")
	}

	if cfg.VisitsEnabled {
		sealer, err := openSealer(cfg)
		if err != nil {
			return err
		}
		visits := store.NewVisitStore(cfg.VisitsPath())
		visitService := visit.NewService(guests, visits, sealer, cfg.MaxCompanions, m, log)
		handlers.Visits = handler.NewVisitHandler(visitService, log)
		handlers.Admin = handler.NewAdminHandler(adminCfg, confirmations, visits, sealer, log)
	} else {
		handlers.Admin = handler.NewAdminHandler(adminCfg, confirmations, nil, nil, log)
	}

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           api.SetupRouter(handlers, reg, m, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("event", cfg.EventName))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// openSealer derives the document key once. The passphrase only lives in
// memory for the derivation.
func openSealer(cfg *config.Config) (*crypto.Sealer, error) {
	if err := config.PromptForPassphrase(); err != nil {
		return nil, err
	}
	passphrase, err := config.GetDocumentPassphraseBytes()
	if err != nil {
		return nil, err
	}
	defer clear(passphrase)

	sealer, err := crypto.OpenKeyFile(cfg.VisitsKeyPath(), passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to open document key: %w", err)
	}
	return sealer, nil
}
