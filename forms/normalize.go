package forms

import (
	"fmt"
	"strconv"
	"strings"

	"gala-forms/common"
)

// Sponsorship tiers and their fixed amounts. Unknown or empty levels
// contribute nothing.
var tierAmounts = map[string]float64{
	"diamond":  2500,
	"platinum": 1500,
	"gold":     750,
	"ruby":     400,
}

func TierAmount(level string) float64 {
	return tierAmounts[strings.ToLower(strings.TrimSpace(level))]
}

// Normalized is a validated submission ready to be laid out as a row.
// Fields is keyed by header name; the pipeline fills in the bookkeeping
// columns (Submission ID, Timestamp, Client IP, User Agent) before the write.
type Normalized struct {
	Schema      *RowSchema
	Fields      map[string]string
	TotalAmount float64
	HasTotal    bool
}

// Normalize validates a raw payload against the expected form type and maps
// it to named columns with all derived amounts computed. Raw card data is
// stripped from the payload before anything else happens; at most a masked
// last-4 reference survives into the output.
func Normalize(formType string, data map[string]interface{}) (*Normalized, error) {
	cardRef := stripCardFields(data)

	if tag := stringField(data, "formType"); tag != formType {
		return nil, common.NewValidationError("wrong form type")
	}

	switch formType {
	case common.FormAuctionDonation:
		return normalizeAuction(data)
	case common.FormTableSponsorship:
		return normalizeSponsorship(data, cardRef)
	default:
		return nil, common.NewValidationError(fmt.Sprintf("unknown form type %q", formType))
	}
}

func normalizeAuction(data map[string]interface{}) (*Normalized, error) {
	if missing := missingFields(data, "name", "email", "itemDescription"); len(missing) > 0 {
		return nil, common.NewValidationError("missing required fields", missing...)
	}

	fields := map[string]string{
		"Name":                 stringField(data, "name"),
		"Email":                stringField(data, "email"),
		"Phone":                stringField(data, "phone"),
		"Address":              stringField(data, "address"),
		"Item Description":     stringField(data, "itemDescription"),
		"Estimated Value":      stringField(data, "estimatedValue"),
		"Pickup Required":      enumField(data, "pickupRequired", "no"),
		"Special Instructions": stringField(data, "specialInstructions"),
		"Contact Preference":   enumField(data, "contactPreference", "email"),
		"Auction Type":         stringField(data, "auctionType"),
	}

	return &Normalized{Schema: AuctionSchema, Fields: fields}, nil
}

func normalizeSponsorship(data map[string]interface{}, cardRef string) (*Normalized, error) {
	if missing := missingFields(data, "name", "email", "phone"); len(missing) > 0 {
		return nil, common.NewValidationError("missing required fields", missing...)
	}

	quantity := intField(data, "ticketQuantity")
	if quantity < 0 {
		return nil, common.NewValidationError("ticketQuantity must be non-negative")
	}

	level := strings.ToLower(stringField(data, "sponsorshipLevel"))
	price := floatField(data, "ticketPrice")
	monetary := floatField(data, "monetaryDonation")

	sponsorshipAmount := TierAmount(level)
	ticketTotal := float64(quantity) * price
	total := sponsorshipAmount + ticketTotal + monetary

	payment := enumField(data, "paymentMethod", "check")
	status := "received"
	if payment == "credit" {
		status = "pending"
	}

	fields := map[string]string{
		"Name":                    stringField(data, "name"),
		"Organization":            stringField(data, "organization"),
		"Email":                   stringField(data, "email"),
		"Phone":                   stringField(data, "phone"),
		"Address":                 stringField(data, "address"),
		"Sponsorship Level":       level,
		"Sponsorship Amount":      formatAmount(sponsorshipAmount),
		"Ticket Quantity":         strconv.Itoa(quantity),
		"Ticket Price":            formatAmount(price),
		"Ticket Total":            formatAmount(ticketTotal),
		"Monetary Donation":       formatAmount(monetary),
		"Silent Auction Donation": stringField(data, "silentAuctionDonation"),
		"Total Amount":            formatAmount(total),
		"Payment Method":          payment,
		"Card Reference":          cardRef,
		"Ticket Delivery":         enumField(data, "ticketDelivery", "pickup"),
		"Guest Names":             stringField(data, "guestNames"),
		"Special Requests":        stringField(data, "specialRequests"),
		"Status":                  status,
		"Confirmation Sent":       "no",
		"Notes":                   stringField(data, "notes"),
	}

	return &Normalized{
		Schema:      SponsorSchema,
		Fields:      fields,
		TotalAmount: total,
		HasTotal:    true,
	}, nil
}

// stripCardFields removes raw payment-card data from the payload and returns
// a masked reference ("****" + last 4 digits) or "". This runs before
// validation so card data never survives in any code path, including
// failures.
func stripCardFields(data map[string]interface{}) string {
	var number string

	if cc, ok := data["creditCard"].(map[string]interface{}); ok {
		number = stringField(cc, "number")
		delete(data, "creditCard")
	}
	for _, key := range []string{"cardNumber", "ccNumber", "creditCardNumber"} {
		if number == "" {
			number = stringField(data, key)
		}
		delete(data, key)
	}
	for _, key := range []string{"cvc", "cvv", "cardCvc", "cardExpiry", "expiry", "cardExp"} {
		delete(data, key)
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) < 4 {
		return ""
	}
	return "****" + digits[len(digits)-4:]
}

func missingFields(data map[string]interface{}, required ...string) []string {
	var missing []string
	for _, key := range required {
		if stringField(data, key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// stringField reads a loosely-typed value as a trimmed string. Numbers and
// booleans are rendered; nil and absent keys become "".
func stringField(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func enumField(data map[string]interface{}, key, fallback string) string {
	if v := strings.ToLower(stringField(data, key)); v != "" {
		return v
	}
	return fallback
}

// floatField parses a number or numeric string; anything else is 0, never an
// error.
func floatField(data map[string]interface{}, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func intField(data map[string]interface{}, key string) int {
	return int(floatField(data, key))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
