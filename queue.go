package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"gala-forms/common"
	"gala-forms/mailer"
)

const outboxKey = "notification_outbox"

// Outbox decouples email delivery from the submission path: the pipeline
// pushes notifications onto a redis list after the durable write commits, and
// the worker drains it at a bounded rate. A dead outbox or mailer never fails
// a submission.
type Outbox struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewOutbox(addr string, log zerolog.Logger) *Outbox {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Outbox{client: rdb, log: log}
}

func (o *Outbox) Enqueue(ctx context.Context, n common.Notification) error {
	jsonData, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %v", err)
	}

	if err := o.client.RPush(ctx, outboxKey, jsonData).Err(); err != nil {
		return fmt.Errorf("failed to enqueue notification: %v", err)
	}
	return nil
}

// RunWorker drains the outbox until ctx is cancelled. Sends are paced by a
// rate limiter so bulk resends cannot trip the mail provider's limits. Each
// outcome is recorded under a status key with a 24h TTL.
func (o *Outbox) RunWorker(ctx context.Context, sender mailer.Sender, perMinute int) {
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute))/60.0, 1)

	for {
		result, err := o.client.BLPop(ctx, 5*time.Second, outboxKey).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if err != redis.Nil {
				o.log.Error().Err(err).Msg("error polling outbox")
				time.Sleep(time.Second)
			}
			continue
		}

		var n common.Notification
		if err := json.Unmarshal([]byte(result[1]), &n); err != nil {
			o.log.Error().Err(err).Msg("error unmarshaling notification")
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		status := "sent"
		res := sender.Send(n.Subject, n.HTMLBody)
		if !res.Success {
			status = "failed"
			o.log.Error().
				Str("submission_id", n.SubmissionID).
				Str("error", res.Err).
				Msg("notification send failed")
		} else {
			o.log.Info().
				Str("submission_id", n.SubmissionID).
				Str("message_id", res.MessageID).
				Msg("notification sent")
		}

		statusKey := fmt.Sprintf("notification_status:%s", n.SubmissionID)
		o.client.Set(ctx, statusKey, status, 24*time.Hour)
	}
}
