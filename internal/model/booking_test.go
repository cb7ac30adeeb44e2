package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     BookingStatus
		to       BookingStatus
		expected bool
	}{
		{BookingStatusBooked, BookingStatusCompleted, true},
		{BookingStatusBooked, BookingStatusCancelled, true},
		{BookingStatusBooked, BookingStatusBooked, true},
		{BookingStatusCompleted, BookingStatusCompleted, true},
		{BookingStatusCompleted, BookingStatusBooked, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusBooked, false},
		{BookingStatusCancelled, BookingStatusCompleted, false},
		{BookingStatusBooked, BookingStatus("returned"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBooking_TotalCost(t *testing.T) {
	b := &Booking{Days: 3, RentPerDay: 1500}
	assert.Equal(t, 4500, b.TotalCost())

	b.Days = 365
	b.RentPerDay = 2000
	assert.Equal(t, 730000, b.TotalCost())
}
