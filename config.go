package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr string
	Env  string

	CredentialsPath string
	SpreadsheetID   string
	AuctionSheet    string
	SponsorSheet    string

	RedisAddr string

	AdminPassword string
	JWTSecret     string

	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
	MailFrom       string
	MailTo         string
	MailRatePerMin int

	PDFRendererURL string
	PublicBaseURL  string
	AuditLogPath   string
	EventName      string
}

// LoadConfig reads configuration from the environment, loading .env first if
// present. Missing required values are reported together.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:            getenv("APP_ADDR", ":8081"),
		Env:             getenv("APP_ENV", "development"),
		CredentialsPath: getenv("SHEETS_CREDENTIALS", "./credentials/credentials.json"),
		SpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
		AuctionSheet:    getenv("SHEETS_AUCTION_SHEET", "Auction Donations"),
		SponsorSheet:    getenv("SHEETS_SPONSOR_SHEET", "Table Sponsorships"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SMTPHost:        getenv("SMTP_HOST", "localhost"),
		SMTPPort:        getenvInt("SMTP_PORT", 587),
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
		MailFrom:        getenv("MAIL_FROM", "noreply@example.org"),
		MailTo:          getenv("MAIL_TO", "events@example.org"),
		MailRatePerMin:  getenvInt("MAIL_RATE_PER_MIN", 30),
		PDFRendererURL:  getenv("PDF_RENDERER_URL", "http://localhost:3000"),
		PublicBaseURL:   getenv("PUBLIC_BASE_URL", "http://localhost:8081"),
		AuditLogPath:    getenv("AUDIT_LOG_PATH", "logs/form_submissions.log"),
		EventName:       getenv("EVENT_NAME", "Annual Benefit Gala"),
	}

	var missing []string
	if cfg.SpreadsheetID == "" {
		missing = append(missing, "SHEETS_SPREADSHEET_ID")
	}
	if cfg.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
