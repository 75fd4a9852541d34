package entities

// RecordUpdate is the partial field set a dashboard may write back to
// the record store. Nil pointers mean "leave unchanged". The field
// names used on the wire match the store's API-style column names.
type RecordUpdate struct {
	BookingStatus  *string `json:"bookingStatus,omitempty"`
	ReviewComplete *bool   `json:"reviewComplete,omitempty"`
	Eligibility    *string `json:"eligibility,omitempty"`
}

// IsEmpty reports whether the update carries no changes at all.
func (u RecordUpdate) IsEmpty() bool {
	return u.BookingStatus == nil && u.ReviewComplete == nil && u.Eligibility == nil
}

// Fields renders the update as the store's field map, holding only the
// fields that are actually set.
func (u RecordUpdate) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if u.BookingStatus != nil {
		fields["booking_status"] = *u.BookingStatus
	}
	if u.ReviewComplete != nil {
		fields["review_complete"] = *u.ReviewComplete
	}
	if u.Eligibility != nil {
		fields["eligibility"] = *u.Eligibility
	}
	return fields
}
