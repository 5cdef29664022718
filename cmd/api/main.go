package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/northledger/advisor-agent/internal/api/router"
	"github.com/northledger/advisor-agent/internal/booking"
	gcalendar "github.com/northledger/advisor-agent/internal/calendar"
	"github.com/northledger/advisor-agent/internal/compliance"
	appconfig "github.com/northledger/advisor-agent/internal/config"
	"github.com/northledger/advisor-agent/internal/conversation"
	"github.com/northledger/advisor-agent/internal/http/handlers"
	"github.com/northledger/advisor-agent/internal/ledger"
	"github.com/northledger/advisor-agent/internal/notify"
	"github.com/northledger/advisor-agent/internal/observability/metrics"
	"github.com/northledger/advisor-agent/internal/slots"
	"github.com/northledger/advisor-agent/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting advisor-agent API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	convMetrics := metrics.NewConversationMetrics(registry)

	// Slot source: live calendar when credentials exist, layered over the
	// static fallback list either way.
	var primary slots.Source
	var calendarAdapter *gcalendar.Service
	if cfg.GoogleConfigured() {
		weekdays := make([]time.Weekday, 0, 5)
		for _, d := range cfg.AllowedWeekdays() {
			weekdays = append(weekdays, time.Weekday(d))
		}
		svc, err := gcalendar.New(ctx, cfg.GoogleCredentialsPath, gcalendar.Options{
			CalendarID:       cfg.GoogleCalendarID,
			TimezoneID:       cfg.TimezoneID,
			TimezoneLabel:    cfg.TimezoneLabel,
			LookaheadDays:    cfg.LookaheadDays,
			BusinessStart:    cfg.BusinessStartHour,
			BusinessEnd:      cfg.BusinessEndHour,
			SlotDurationMins: cfg.SlotDurationMins,
			AllowedWeekdays:  weekdays,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize calendar, continuing with fallback slots", "error", err)
		} else {
			primary = svc
			calendarAdapter = svc
		}
	}

	fallback, err := slots.NewStaticSourceFromFile(cfg.FallbackSlotsPath, cfg.TimezoneLabel)
	if err != nil {
		logger.Error("failed to load fallback slots", "path", cfg.FallbackSlotsPath, "error", err)
		os.Exit(1)
	}
	source := &slots.FallbackSource{Primary: primary, Secondary: fallback}

	var ledgerAdapter *ledger.Service
	if cfg.GoogleConfigured() && cfg.GoogleSheetID != "" {
		ledgerAdapter, err = ledger.New(ctx, cfg.GoogleCredentialsPath, cfg.GoogleSheetID, logger)
		if err != nil {
			logger.Error("failed to initialize ledger, bookings will not be recorded", "error", err)
		}
	}

	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
	}, logger)
	notifier := notify.NewAdvisorNotifier(senderOrNil(sender), cfg.AdvisorEmail, logger)

	disclaimer := compliance.NewDisclaimerService(compliance.DisclaimerConfig{Level: compliance.DisclaimerFull}, logger)

	parser := slots.PreferenceParser{ReferenceYear: cfg.ReferenceYear}
	offerer := slots.NewOfferer(source, parser, logger)
	codes := booking.NewCodeGenerator(cfg.BookingCodePrefix)

	sessionFactory := func() *conversation.Session {
		return conversation.NewSession(conversation.SessionConfig{
			Offerer:        offerer,
			Parser:         parser,
			GenerateCode:   codes.Generate,
			Disclaimer:     disclaimer.Text(),
			TimezoneLabel:  cfg.TimezoneLabel,
			SecureLinkBase: cfg.PublicBaseURL,
			Logger:         logger,
		})
	}

	sink := booking.NewSink(calendarOrNil(calendarAdapter), ledgerOrNil(ledgerAdapter), notifier, logger)

	sessions := handlers.NewSessionManager(sessionFactory, time.Duration(cfg.SessionIdleMinutes)*time.Minute)
	sessions.StartEvictionLoop(ctx, time.Minute)

	chatHandler := handlers.NewChatHandler(sessions, sink, disclaimer, convMetrics, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		ChatHandler:    chatHandler,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ChatRateLimit:  2,
		ChatRateBurst:  10,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// A typed nil wrapped in an interface would defeat the sink's nil checks, so
// the conversions happen explicitly.

func calendarOrNil(svc *gcalendar.Service) booking.Calendar {
	if svc == nil {
		return nil
	}
	return svc
}

func ledgerOrNil(svc *ledger.Service) booking.Ledger {
	if svc == nil {
		return nil
	}
	return svc
}

func senderOrNil(s *notify.SendGridSender) notify.EmailSender {
	if s == nil {
		return nil
	}
	return s
}
