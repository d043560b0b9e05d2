package models

// SalonService is a catalog entry the booking flow needs for durations.
// The full service catalog is owned by an external store.
type SalonService struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	DurationMin int     `bson:"durationMin" json:"durationMin"`
	Price       float64 `bson:"price,omitempty" json:"price,omitempty"`
}

// Stylist is the subset of a team member record the scheduler consumes.
type Stylist struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	FCMToken string `bson:"fcmToken,omitempty" json:"-"`
	Active   bool   `bson:"active" json:"active"`
}

// ReminderPayload is the asynq task body for an appointment reminder push.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	StylistID     string `json:"stylistId"`
	ClientID      string `json:"clientId"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	FireDate      string `json:"fireDate"`
}
