package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"gala-forms/admin"
	"gala-forms/common"
	"gala-forms/donations"
	"gala-forms/forms"
	"gala-forms/letters"
	"gala-forms/pdfrender"
	"gala-forms/qrgen"
	"gala-forms/sheets"
)

type server struct {
	cfg      *Config
	store    *sheets.Client
	pipeline *forms.Pipeline
	engine   *donations.Engine
	gate     *admin.Gate
	outbox   *Outbox
	letters  *letters.Renderer
	pdf      *pdfrender.Client
	log      zerolog.Logger
}

func (s *server) routes(r *gin.Engine) {
	r.GET("/health", s.handleHealth)

	r.GET("/letters/donation-receipt", s.handleLetter(common.FormAuctionDonation))
	r.GET("/letters/sponsor-confirmation", s.handleLetter(common.FormTableSponsorship))

	api := r.Group("/api")
	api.POST("/submit/auction-donation", s.handleSubmit(common.FormAuctionDonation))
	api.POST("/submit/table-sponsors", s.handleSubmit(common.FormTableSponsorship))
	api.GET("/qr", s.handleQR)
	api.POST("/admin/login", s.handleLogin)

	guarded := api.Group("/admin", s.gate.Middleware())
	guarded.GET("/donations", s.handleListDonations)
	guarded.POST("/delete", s.handleDelete)
	guarded.POST("/resend", s.handleResend)
	guarded.GET("/letters/pdf", s.handleLetterPDF)
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "name": "gala-forms"})
}

func (s *server) handleSubmit(formType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data map[string]interface{}
		if err := c.ShouldBindJSON(&data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"status":  "validation-failed",
				"message": "Invalid JSON format",
			})
			return
		}

		meta := common.ClientMeta{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
		result, err := s.pipeline.Submit(c.Request.Context(), formType, data, meta)
		if err != nil {
			s.writeError(c, err)
			return
		}

		resp := gin.H{
			"success":      true,
			"status":       "accepted",
			"submissionId": result.SubmissionID,
			"timestamp":    result.Timestamp,
			"message":      "Thank you! Your submission has been received.",
		}
		if result.HasTotal {
			resp["totalAmount"] = result.TotalAmount
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (s *server) handleLogin(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"status":  "validation-failed",
			"message": "Invalid JSON format",
		})
		return
	}

	token, expires, err := s.gate.Authenticate(req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     token,
		"expiresAt": expires,
	})
}

// handleListDonations returns the full materialized dataset. Filter, search,
// and sort parameters shape the records list; the summary is always computed
// over the unfiltered dataset.
func (s *server) handleListDonations(c *gin.Context) {
	table, ok := s.tableName(c.DefaultQuery("table", "auction"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"status":  "validation-failed",
			"message": "unknown table",
		})
		return
	}

	dataset, err := s.engine.List(c.Request.Context(), table)
	if err != nil {
		s.writeError(c, err)
		return
	}

	summary := donations.Summarize(dataset.Records)
	records := donations.FilterByAuction(dataset.Records, c.Query("auctionFilter"))
	records = donations.Search(records, c.Query("q"))
	if field := c.Query("sort"); field != "" {
		ascending := c.DefaultQuery("dir", "asc") != "desc"
		records = donations.SortRecords(records, field, ascending)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"headers": dataset.Headers,
		"records": records,
		"summary": summary,
	})
}

func (s *server) handleDelete(c *gin.Context) {
	var req struct {
		Table         string   `json:"table"`
		SubmissionIDs []string `json:"submissionIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.SubmissionIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"status":  "validation-failed",
			"message": "submissionIds required",
		})
		return
	}
	table, ok := s.tableName(req.Table)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"status":  "validation-failed",
			"message": "unknown table",
		})
		return
	}

	deleted, err := s.store.DeleteRows(c.Request.Context(), table, "Submission ID", req.SubmissionIDs)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deletedCount": deleted})
}

// handleResend re-enqueues notification emails for existing rows. The outbox
// worker's rate limiter paces the actual sends.
func (s *server) handleResend(c *gin.Context) {
	var req struct {
		Table         string   `json:"table"`
		SubmissionIDs []string `json:"submissionIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.SubmissionIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"status":  "validation-failed",
			"message": "submissionIds required",
		})
		return
	}
	table, ok := s.tableName(req.Table)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"status":  "validation-failed",
			"message": "unknown table",
		})
		return
	}
	formType := common.FormAuctionDonation
	if table == s.cfg.SponsorSheet {
		formType = common.FormTableSponsorship
	}

	dataset, err := s.engine.List(c.Request.Context(), table)
	if err != nil {
		s.writeError(c, err)
		return
	}

	wanted := make(map[string]bool, len(req.SubmissionIDs))
	for _, id := range req.SubmissionIDs {
		wanted[id] = true
	}

	enqueued := 0
	for _, rec := range dataset.Records {
		if !wanted[rec["Submission ID"]] {
			continue
		}
		n := forms.NotificationForRecord(formType, rec, time.Now())
		if err := s.outbox.Enqueue(c.Request.Context(), n); err != nil {
			s.log.Error().Err(err).Str("submission_id", rec["Submission ID"]).
				Msg("failed to enqueue resend")
			continue
		}
		enqueued++
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "enqueuedCount": enqueued})
}

func (s *server) handleQR(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"status":  "validation-failed",
			"message": "url required",
		})
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	png, err := qrgen.Encode(url, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"status":  "internal-error",
			"message": "failed to encode QR code",
		})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// handleLetter renders a printable page for one submission, looked up by its
// opaque submission ID.
func (s *server) handleLetter(formType string) gin.HandlerFunc {
	table := "auction"
	if formType == common.FormTableSponsorship {
		table = "sponsors"
	}
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			c.String(http.StatusBadRequest, "id required")
			return
		}
		sheetName, _ := s.tableName(table)
		dataset, err := s.engine.List(c.Request.Context(), sheetName)
		if err != nil {
			c.String(http.StatusInternalServerError, "could not load submission")
			return
		}

		for _, rec := range dataset.Records {
			if rec["Submission ID"] != id {
				continue
			}
			c.Header("Content-Type", "text/html; charset=utf-8")
			if formType == common.FormTableSponsorship {
				err = s.letters.SponsorConfirmation(c.Writer, rec)
			} else {
				err = s.letters.DonationReceipt(c.Writer, rec)
			}
			if err != nil {
				s.log.Error().Err(err).Str("submission_id", id).Msg("letter render failed")
			}
			return
		}
		c.String(http.StatusNotFound, "submission not found")
	}
}

// handleLetterPDF proxies a letters page through the PDF rendering service.
func (s *server) handleLetterPDF(c *gin.Context) {
	path := c.Query("path")
	if !strings.HasPrefix(path, "/letters/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"status":  "validation-failed",
			"message": "path must point at a letters page",
		})
		return
	}

	pdf, err := s.pdf.Render(c.Request.Context(), s.cfg.PublicBaseURL+path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("pdf render failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"status":  "internal-error",
			"message": "PDF rendering failed",
		})
		return
	}
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *server) tableName(key string) (string, bool) {
	switch key {
	case "auction", "auction-donations":
		return s.cfg.AuctionSheet, true
	case "sponsors", "table-sponsorships":
		return s.cfg.SponsorSheet, true
	default:
		return "", false
	}
}

// writeError maps the error taxonomy onto HTTP status classifications.
// Storage details leak operator configuration, so production gets a generic
// message.
func (s *server) writeError(c *gin.Context, err error) {
	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"status":  "validation-failed",
			"message": validationErr.Error(),
		})
		return
	}

	var unauthorizedErr *common.UnauthorizedError
	if errors.As(err, &unauthorizedErr) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"status":  "unauthorized",
			"message": unauthorizedErr.Error(),
		})
		return
	}

	var storageErr *common.StorageError
	if errors.As(err, &storageErr) {
		s.log.Error().Err(err).Msg("storage failure")
		message := "Something went wrong saving your data. Please try again."
		if s.cfg.Env != "production" {
			message = storageErr.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"status":  "internal-error",
			"message": message,
		})
		return
	}

	s.log.Error().Err(err).Msg("unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"status":  "internal-error",
		"message": "Internal error",
	})
}
