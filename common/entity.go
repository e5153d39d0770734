package common

import "time"

// Form type tags. Each public intake endpoint accepts exactly one tag and
// rejects payloads carrying any other.
const (
	FormAuctionDonation  = "auction-donation"
	FormTableSponsorship = "table-sponsors"
)

// ClientMeta carries per-request metadata recorded alongside a submission.
type ClientMeta struct {
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
}

// SubmissionResult is returned to the caller after a successful submission.
// TotalAmount is only meaningful for table sponsorships (HasTotal true).
type SubmissionResult struct {
	SubmissionID string    `json:"submission_id"`
	Timestamp    time.Time `json:"timestamp"`
	FormType     string    `json:"form_type"`
	TotalAmount  float64   `json:"total_amount"`
	HasTotal     bool      `json:"-"`
}

// Notification is one queued email, enqueued after a durable write commits
// and drained by the outbox worker.
type Notification struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	FormType     string    `json:"form_type"`
	Subject      string    `json:"subject"`
	HTMLBody     string    `json:"html_body"`
	CreatedAt    time.Time `json:"created_at"`
}
