// Package letters renders the printable pages: donation receipt letters and
// sponsor confirmation forms. Pages are plain server-rendered HTML sized for
// print; the PDF renderer points at these same URLs.
package letters

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"gala-forms/donations"
)

//go:embed templates/*.html
var templateFS embed.FS

type Renderer struct {
	tmpl  *template.Template
	event string
	now   func() time.Time
}

type letterData struct {
	Event     string
	Record    donations.Record
	Generated string
}

func NewRenderer(eventName string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse letter templates: %v", err)
	}
	return &Renderer{tmpl: tmpl, event: eventName, now: time.Now}, nil
}

// DonationReceipt renders the thank-you/receipt letter for one auction
// donation record.
func (r *Renderer) DonationReceipt(w io.Writer, rec donations.Record) error {
	return r.render(w, "donation_receipt.html", rec)
}

// SponsorConfirmation renders the confirmation form for one table
// sponsorship record.
func (r *Renderer) SponsorConfirmation(w io.Writer, rec donations.Record) error {
	return r.render(w, "sponsor_confirmation.html", rec)
}

func (r *Renderer) render(w io.Writer, name string, rec donations.Record) error {
	return r.tmpl.ExecuteTemplate(w, name, letterData{
		Event:     r.event,
		Record:    rec,
		Generated: r.now().Format("January 2, 2006"),
	})
}
