package forms

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gala-forms/common"
)

// Columns that carry request plumbing, not donor-entered content. They stay
// out of the notification email body.
var notificationSkip = map[string]bool{
	"Client IP":  true,
	"User Agent": true,
}

// NotificationForRecord rebuilds the notification email from a stored
// record, for the admin resend operation. The record is header-keyed, so the
// schema order of its table drives the body layout.
func NotificationForRecord(formType string, rec map[string]string, at time.Time) common.Notification {
	schema := AuctionSchema
	total := 0.0
	if formType == common.FormTableSponsorship {
		schema = SponsorSchema
		total = parseAmount(rec["Total Amount"])
	}
	n := &Normalized{Schema: schema, Fields: rec, TotalAmount: total}
	return buildNotification(formType, rec["Submission ID"], n, at)
}

func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func buildNotification(formType, submissionID string, n *Normalized, at time.Time) common.Notification {
	name := n.Fields["Name"]
	var subject string
	if formType == common.FormTableSponsorship {
		subject = fmt.Sprintf("New table sponsorship from %s ($%s)", name, formatAmount(n.TotalAmount))
	} else {
		subject = fmt.Sprintf("New auction donation from %s", name)
	}

	var b strings.Builder
	b.WriteString("<h2>" + html.EscapeString(subject) + "</h2>\n<table>\n")
	for _, header := range n.Schema.Headers() {
		if notificationSkip[header] {
			continue
		}
		value := n.Fields[header]
		if value == "" {
			continue
		}
		fmt.Fprintf(&b, "<tr><td><b>%s</b></td><td>%s</td></tr>\n",
			html.EscapeString(header), html.EscapeString(value))
	}
	b.WriteString("</table>\n")

	return common.Notification{
		ID:           uuid.NewString(),
		SubmissionID: submissionID,
		FormType:     formType,
		Subject:      subject,
		HTMLBody:     b.String(),
		CreatedAt:    at,
	}
}
