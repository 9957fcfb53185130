package models

// FormType distinguishes the outbound request forms.
type FormType string

const (
	FormBooking       FormType = "booking"
	FormContact       FormType = "contact"
	FormAccommodation FormType = "accommodation"
)

// Title is the human label sent along with the request.
func (f FormType) Title() string {
	switch f {
	case FormBooking:
		return "Booking Request"
	case FormContact:
		return "Contact Request"
	case FormAccommodation:
		return "Accommodation Request"
	default:
		return string(f)
	}
}

// AccommodationTypes lists accepted values for Submission.AccommodationType.
var AccommodationTypes = []string{"hotel", "guestHouse", "apartment"}

// Submission is the flat field set collected by the booking, contact and
// accommodation forms.
type Submission struct {
	FormType     FormType `json:"form_type"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone,omitempty"`
	Date         string   `json:"date,omitempty"`
	Time         string   `json:"time,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	ServiceTitle string   `json:"service_title,omitempty"`
	SendCopy     bool     `json:"send_copy,omitempty"`

	AccommodationType string `json:"accommodation_type,omitempty"`
	Duration          string `json:"duration,omitempty"`
	Guests            string `json:"guests,omitempty"`
	Area              string `json:"area,omitempty"`
	Budget            string `json:"budget,omitempty"`
}
