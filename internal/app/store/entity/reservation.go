package entity

import "time"

// Reservation booking types. Field names match the storefront wire
// format, which the booking widget and the downstream n8n workflow both
// already speak (hence the French client fields).

// ReservationClientInfo identifies the person booking the detailing slot.
type ReservationClientInfo struct {
	Prenom    string `json:"prenom"`
	Nom       string `json:"nom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

// CreateReservationRequest is the raw booking submission. Required
// groups are validated in the service so one aggregate message can name
// the missing class of field.
type CreateReservationRequest struct {
	Vehicle      string                `json:"vehicle"`
	SelectedPlan string                `json:"selectedPlan"`
	ClientInfo   ReservationClientInfo `json:"clientInfo"`
	SelectedDate string                `json:"selectedDate"`
	SelectedTime string                `json:"selectedTime"`
	Price        float64               `json:"price"`
	Comments     string                `json:"comments"`
	Reminder     *bool                 `json:"reminder"`
	SubmittedAt  string                `json:"submittedAt"`
}

// ReservationPayload is the normalized schema delivered to the workflow
// webhook: client fields flattened, defaults applied.
type ReservationPayload struct {
	Vehicle     string  `json:"vehicle"`
	Plan        string  `json:"plan"`
	Prenom      string  `json:"prenom"`
	Nom         string  `json:"nom"`
	Email       string  `json:"email"`
	Telephone   string  `json:"telephone"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Price       float64 `json:"price"`
	Comments    string  `json:"comments"`
	Reminder    bool    `json:"reminder"`
	SubmittedAt string  `json:"submittedAt"`
}

// Relay delivery statuses reported back to the booking widget.
const (
	RelayStatusSent    = "sent"
	RelayStatusPending = "pending"
)

// ReservationResponse confirms the booking. ReservationID is the
// downstream system's id when the relay succeeded, or a locally
// generated timestamp id when delivery is still pending.
type ReservationResponse struct {
	ReservationID string `json:"reservationId"`
	N8nStatus     string `json:"n8nStatus"`
}

// ReservationRecord is one accepted booking as the admin listing shows
// it. Bookings are not stored durably; the service keeps a bounded
// in-memory window of the most recent submissions per process.
type ReservationRecord struct {
	ReservationID string             `json:"reservationId"`
	N8nStatus     string             `json:"n8nStatus"`
	Payload       ReservationPayload `json:"payload"`
	ReceivedAt    time.Time          `json:"receivedAt"`
}
