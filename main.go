package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"gala-forms/admin"
	"gala-forms/donations"
	"gala-forms/forms"
	"gala-forms/letters"
	"gala-forms/logger"
	"gala-forms/mailer"
	"gala-forms/pdfrender"
	"gala-forms/sheets"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.Env)

	audit, err := logger.NewFileLogger(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to initialize audit logger: %v", err)
	}
	defer audit.Close()

	ctx := context.Background()
	store, err := sheets.NewClient(ctx, cfg.CredentialsPath, cfg.SpreadsheetID)
	if err != nil {
		log.Fatalf("Failed to initialize sheets client: %v", err)
	}

	renderer, err := letters.NewRenderer(cfg.EventName)
	if err != nil {
		log.Fatalf("Failed to initialize letter renderer: %v", err)
	}

	outbox := NewOutbox(cfg.RedisAddr, appLog)
	sender := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.MailTo)

	tables := forms.Tables{
		AuctionDonations:  cfg.AuctionSheet,
		TableSponsorships: cfg.SponsorSheet,
	}

	srv := &server{
		cfg:      cfg,
		store:    store,
		pipeline: forms.NewPipeline(store, outbox, audit, tables, appLog),
		engine:   donations.NewEngine(store),
		gate:     admin.NewGate(cfg.AdminPassword, cfg.JWTSecret),
		outbox:   outbox,
		letters:  renderer,
		pdf:      pdfrender.New(cfg.PDFRendererURL),
		log:      appLog,
	}

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go outbox.RunWorker(workerCtx, sender, cfg.MailRatePerMin)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	srv.routes(r)

	appLog.Info().Str("addr", cfg.Addr).Str("env", cfg.Env).Msg("gala-forms listening")
	log.Fatal(r.Run(cfg.Addr))
}
