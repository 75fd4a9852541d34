package prescreen

import (
	"strings"
	"time"
)

// BookingStatus is the binary booking state of a pre-screened client.
type BookingStatus string

const (
	BookingPending BookingStatus = "Pending"
	BookingBooked  BookingStatus = "Booked"
)

// Record is the UI-ready projection of one raw record. It is derived on
// demand whenever a raw record is rendered and never persisted; Raw
// keeps the original so drill-down views can reach fields the
// projection does not carry.
type Record struct {
	ID             string        `json:"id"`
	DisplayName    string        `json:"displayName"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Treatment      string        `json:"treatment"`
	Eligibility    Eligibility   `json:"eligibility"`
	EligibilityTag string        `json:"eligibilityLabel"`
	BookingStatus  BookingStatus `json:"bookingStatus"`
	Timestamp      time.Time     `json:"timestamp,omitzero"`
	Raw            RawRecord     `json:"-"`
}

var (
	idFields        = []string{"id", "record_id", "Record ID"}
	nameFields      = []string{"name", "Name", "full_name", "Full Name", "client_name", "Client Name"}
	emailFields     = []string{"email", "Email", "email_address", "Email Address"}
	phoneFields     = []string{"phone", "Phone", "phone_number", "Phone Number"}
	treatmentFields = []string{"treatment", "Treatment", "treatment_interest", "Treatment Interest", "service", "Service"}
	bookingFields   = []string{"booking_status", "Booking Status", "booked", "Booked"}
	timestampFields = []string{"created_at", "Created At", "createdTime", "submitted_at", "Submitted At", "timestamp", "Date"}
)

// Timestamp layouts seen across record-store exports, most specific
// first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// Normalize projects a raw record into its display form. It is a pure
// function of one record: the list views and the drill-down panel both
// call it and must see identical output for identical input.
func Normalize(record RawRecord) Record {
	return Record{
		ID:             Text(FirstNonEmpty(record, idFields...)),
		DisplayName:    Text(FirstNonEmpty(record, nameFields...)),
		Email:          Text(FirstNonEmpty(record, emailFields...)),
		Phone:          Text(FirstNonEmpty(record, phoneFields...)),
		Treatment:      Text(FirstNonEmpty(record, treatmentFields...)),
		Eligibility:    NormalizeEligibility(record),
		EligibilityTag: EligibilityLabel(record),
		BookingStatus:  normalizeBooking(FirstNonEmpty(record, bookingFields...)),
		Timestamp:      parseTimestamp(Text(FirstNonEmpty(record, timestampFields...))),
		Raw:            record,
	}
}

// NormalizeAll projects a slice of raw records, preserving input order.
func NormalizeAll(records []RawRecord) []Record {
	normalized := make([]Record, 0, len(records))
	for _, record := range records {
		normalized = append(normalized, Normalize(record))
	}
	return normalized
}

// normalizeBooking collapses booking variants to the binary state:
// boolean true or "booked" in any casing is Booked, everything else is
// Pending.
func normalizeBooking(value interface{}) BookingStatus {
	switch v := value.(type) {
	case bool:
		if v {
			return BookingBooked
		}
	case string:
		if strings.EqualFold(strings.TrimSpace(v), "booked") {
			return BookingBooked
		}
	}
	return BookingPending
}

// parseTimestamp tries the known layouts in order and returns the zero
// time when nothing parses. Unparseable timestamps are not an error;
// they just sort last.
func parseTimestamp(text string) time.Time {
	if text == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return ts
		}
	}
	return time.Time{}
}
