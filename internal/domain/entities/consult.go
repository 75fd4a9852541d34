package entities

import "time"

// ConsultRequest is a consultation enquiry submitted through the
// dashboard's form proxy and forwarded to the forms backend.
type ConsultRequest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Treatment string    `json:"treatment"`
	Message   string    `json:"message"`
	ClinicID  string    `json:"clinic_id"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
