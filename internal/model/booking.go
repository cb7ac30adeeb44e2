package model

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusBooked, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// CanTransitionTo reports whether a booking in state s may move to next.
// Re-applying the current status is allowed and changes nothing.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	return s == BookingStatusBooked && next.Terminal()
}

// Booking represents a car rental booking owned by a user.
type Booking struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	UserID     uint          `json:"user_id" gorm:"not null;index"`
	CarName    string        `json:"car_name" gorm:"size:255;not null"`
	Days       int           `json:"days" gorm:"not null"`
	RentPerDay int           `json:"rent_per_day" gorm:"not null"`
	Status     BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'booked';index"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// TotalCost is days times the daily rent. It is never stored.
func (b *Booking) TotalCost() int {
	return CalculateBookingCost(b.Days, b.RentPerDay)
}

// CalculateBookingCost returns the cost of renting for days at rentPerDay.
func CalculateBookingCost(days, rentPerDay int) int {
	return days * rentPerDay
}

// BookingSummary aggregates the bookings owned by one user.
// Owned counts every booking; TotalBookings and TotalAmountSpent skip cancelled ones.
type BookingSummary struct {
	UserID           uint   `json:"userId"`
	Username         string `json:"username"`
	Owned            int64  `json:"-"`
	TotalBookings    int64  `json:"totalBookings"`
	TotalAmountSpent int64  `json:"totalAmountSpent"`
}
