package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/mailsmith/mailsmith/config"
	apihttp "github.com/mailsmith/mailsmith/internal/http"
	"github.com/mailsmith/mailsmith/internal/repository"
	"github.com/mailsmith/mailsmith/internal/service"
	"github.com/mailsmith/mailsmith/pkg/logger"
	"github.com/mailsmith/mailsmith/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLoggerWithLevel(cfg.LogLevel)
	log.WithField("version", cfg.Version).Info("starting mailsmith")

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal(fmt.Sprintf("failed to open database: %v", err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(fmt.Sprintf("failed to connect to database: %v", err))
	}

	projectRepo := repository.NewProjectRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	contactRepo := repository.NewContactRepository(db)

	var sender mailer.Mailer
	if cfg.IsDevelopment() {
		sender = mailer.NewConsoleMailer()
	} else {
		sender = mailer.NewSMTPMailer(&mailer.Config{
			SMTPHost:     cfg.SMTP.Host,
			SMTPPort:     cfg.SMTP.Port,
			SMTPUsername: cfg.SMTP.Username,
			SMTPPassword: cfg.SMTP.Password,
		})
	}

	composeService := service.NewComposeService(log)
	templateService := service.NewTemplateService(templateRepo, log)
	sendService := service.NewSendService(
		projectRepo, campaignRepo, templateRepo, contactRepo,
		composeService, sender, log, cfg.APIEndpoint,
	)

	mux := http.NewServeMux()
	apihttp.NewTemplateHandler(templateService, log).RegisterRoutes(mux)
	apihttp.NewCampaignHandler(campaignRepo, sendService, log).RegisterRoutes(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(fmt.Sprintf("http server error: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error(fmt.Sprintf("graceful shutdown failed: %v", err))
	}
}
