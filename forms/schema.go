package forms

import "fmt"

// RowSchema owns the ordered header list of one sheet. Writers never build
// positional rows by hand: they set named fields and Row lays them out in
// declared order, so column drift cannot happen silently on the write path.
type RowSchema struct {
	headers []string
	index   map[string]int
}

func NewRowSchema(headers []string) *RowSchema {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	return &RowSchema{headers: headers, index: index}
}

func (s *RowSchema) Headers() []string {
	out := make([]string, len(s.headers))
	copy(out, s.headers)
	return out
}

func (s *RowSchema) Width() int { return len(s.headers) }

// Row builds the fixed-order column tuple from named fields. Unknown field
// names are rejected; columns without a value become empty strings.
func (s *RowSchema) Row(fields map[string]string) ([]interface{}, error) {
	row := make([]interface{}, len(s.headers))
	for i := range row {
		row[i] = ""
	}
	for name, value := range fields {
		i, ok := s.index[name]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		row[i] = value
	}
	return row, nil
}

// AuctionSchema covers the "Auction Donations" sheet, columns A-N.
var AuctionSchema = NewRowSchema([]string{
	"Submission ID",
	"Timestamp",
	"Name",
	"Email",
	"Phone",
	"Address",
	"Item Description",
	"Estimated Value",
	"Pickup Required",
	"Special Instructions",
	"Contact Preference",
	"Auction Type",
	"Client IP",
	"User Agent",
})

// SponsorSchema covers the "Table Sponsorships" sheet, columns A-Y.
var SponsorSchema = NewRowSchema([]string{
	"Submission ID",
	"Timestamp",
	"Name",
	"Organization",
	"Email",
	"Phone",
	"Address",
	"Sponsorship Level",
	"Sponsorship Amount",
	"Ticket Quantity",
	"Ticket Price",
	"Ticket Total",
	"Monetary Donation",
	"Silent Auction Donation",
	"Total Amount",
	"Payment Method",
	"Card Reference",
	"Ticket Delivery",
	"Guest Names",
	"Special Requests",
	"Status",
	"Confirmation Sent",
	"Notes",
	"Client IP",
	"User Agent",
})
