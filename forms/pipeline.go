package forms

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"gala-forms/common"
)

// Store is the slice of the tabular store the pipeline needs.
type Store interface {
	Append(ctx context.Context, table string, row []interface{}) error
}

// Outbox accepts notifications for asynchronous delivery.
type Outbox interface {
	Enqueue(ctx context.Context, n common.Notification) error
}

// AuditLog records every accepted submission.
type AuditLog interface {
	Log(data interface{}) error
}

// Tables maps form types to their sheet names.
type Tables struct {
	AuctionDonations  string
	TableSponsorships string
}

// Pipeline runs one submission end to end: normalize, generate an ID, append
// the row, audit-log it, enqueue the notification email. The durable write is
// the sole success criterion; everything after it is best-effort.
type Pipeline struct {
	store  Store
	outbox Outbox
	audit  AuditLog
	tables Tables
	log    zerolog.Logger

	now    func() time.Time
	randID func(n int) string
}

func NewPipeline(store Store, outbox Outbox, audit AuditLog, tables Tables, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:  store,
		outbox: outbox,
		audit:  audit,
		tables: tables,
		log:    log,
		now:    time.Now,
		randID: randomID,
	}
}

func (p *Pipeline) Submit(ctx context.Context, formType string, data map[string]interface{}, meta common.ClientMeta) (*common.SubmissionResult, error) {
	normalized, err := Normalize(formType, data)
	if err != nil {
		return nil, err
	}

	now := p.now()
	id := fmt.Sprintf("%s-%d-%s", idPrefix(formType), now.UnixMilli(), p.randID(6))

	normalized.Fields["Submission ID"] = id
	normalized.Fields["Timestamp"] = now.UTC().Format(time.RFC3339)
	normalized.Fields["Client IP"] = meta.IP
	normalized.Fields["User Agent"] = meta.UserAgent

	table := p.tableFor(formType)
	row, err := normalized.Schema.Row(normalized.Fields)
	if err != nil {
		return nil, common.NewStorageError("schema", table, err)
	}

	if err := p.store.Append(ctx, table, row); err != nil {
		return nil, err
	}

	if p.audit != nil {
		if err := p.audit.Log(normalized.Fields); err != nil {
			p.log.Warn().Err(err).Str("submission_id", id).Msg("audit log write failed")
		}
	}

	// The submission already succeeded; a dead outbox only costs the email.
	notification := buildNotification(formType, id, normalized, now)
	if err := p.outbox.Enqueue(ctx, notification); err != nil {
		p.log.Error().Err(err).Str("submission_id", id).Msg("failed to enqueue notification")
	}

	return &common.SubmissionResult{
		SubmissionID: id,
		Timestamp:    now,
		FormType:     formType,
		TotalAmount:  normalized.TotalAmount,
		HasTotal:     normalized.HasTotal,
	}, nil
}

func (p *Pipeline) tableFor(formType string) string {
	if formType == common.FormTableSponsorship {
		return p.tables.TableSponsorships
	}
	return p.tables.AuctionDonations
}

func idPrefix(formType string) string {
	if formType == common.FormTableSponsorship {
		return "sponsor"
	}
	return "auction"
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomID(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(b)
}
