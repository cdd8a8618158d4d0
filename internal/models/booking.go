package models

import "time"

// Booking is a persisted booking record created when the user confirms a
// selected flight and is handed off to payment.
type Booking struct {
	ID               uint   `json:"-" gorm:"primaryKey"`
	BookingReference string `json:"booking_reference" gorm:"uniqueIndex"`
	FlightID         string `json:"flight_id"`

	// Customer identity
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`

	// Itinerary snapshot
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Airline       string `json:"airline"`
	CabinClass    string `json:"cabin_class"`
	Duration      string `json:"duration"`
	Stops         int    `json:"stops"`

	// Passengers
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`

	// Pricing. TotalPrice = BasePrice + ServiceFee (5% of base), computed
	// client-side for the record; the payment provider is the source of
	// truth for the actual charge.
	BasePrice  float64 `json:"base_price"`
	ServiceFee float64 `json:"service_fee"`
	TotalPrice float64 `json:"total_price"`
	Currency   string  `json:"currency"`

	// Payment tracking
	PaymentStatus  string `json:"payment_status"`
	PaymentOrderID string `json:"payment_order_id"`

	// FlightData carries the provider's raw offer JSON for ticketing.
	FlightData string `json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

// Payment status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusApproved  = "approved"
	PaymentStatusCaptured  = "captured"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// BookingForm is the customer detail form submitted with a booking. Email
// and name are required; they are validated locally before any network
// request is dispatched.
type BookingForm struct {
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// BookingResult is the orchestrator's answer to a successful booking
// creation: the reference for later lookup and the payment redirect target.
type BookingResult struct {
	BookingReference string `json:"booking_reference"`
	ApprovalURL      string `json:"approval_url"`
}

// UserProfile is the persisted traveler identity, keyed by session. Written
// only once all four identity fields are non-empty; read back at session
// activation so a returning user skips straight to trip selection.
type UserProfile struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	SessionID string `json:"session_id" gorm:"uniqueIndex"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Info converts the stored profile back to the in-session identity record.
func (p *UserProfile) Info() UserInfo {
	return UserInfo{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
	}
}
