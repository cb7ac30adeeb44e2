package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"carrental/internal/model"
)

// ErrStatusChanged is returned by UpdateStatus when the stored status no longer matches the expected one.
var ErrStatusChanged = errors.New("booking status changed concurrently")

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uint) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id uint, from, to model.BookingStatus) error
	UpdateDetails(ctx context.Context, id uint, carName string, days, rentPerDay int) error
	Delete(ctx context.Context, id uint) error
	SummarizeByUser(ctx context.Context, userID uint) (*model.BookingSummary, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking record.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// FindByID finds a booking by ID regardless of owner.
func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateStatus moves a booking from status from to status to. The write only applies while the
// row still holds from, so two racing transitions cannot both succeed.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uint, from, to model.BookingStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != from {
		return ErrStatusChanged
	}
	// from == to: MySQL reports no affected rows for an unchanged value.
	return nil
}

// UpdateDetails replaces the car name, days and daily rent. user_id is never touched.
func (r *bookingRepository) UpdateDetails(ctx context.Context, id uint, carName string, days, rentPerDay int) error {
	res := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"car_name":     carName,
			"days":         days,
			"rent_per_day": rentPerDay,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.ensureExists(ctx, id)
	}
	return nil
}

// Delete removes a booking.
func (r *bookingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SummarizeByUser counts and totals the user's bookings in a single query.
// Cancelled bookings count towards Owned only.
func (r *bookingRepository) SummarizeByUser(ctx context.Context, userID uint) (*model.BookingSummary, error) {
	var row struct {
		Owned            int64
		TotalBookings    int64
		TotalAmountSpent int64
	}
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Select(
			"COUNT(*) AS owned, "+
				"COALESCE(SUM(CASE WHEN status <> ? THEN 1 ELSE 0 END), 0) AS total_bookings, "+
				"COALESCE(SUM(CASE WHEN status <> ? THEN days * rent_per_day ELSE 0 END), 0) AS total_amount_spent",
			model.BookingStatusCancelled, model.BookingStatusCancelled,
		).
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &model.BookingSummary{
		UserID:           userID,
		Owned:            row.Owned,
		TotalBookings:    row.TotalBookings,
		TotalAmountSpent: row.TotalAmountSpent,
	}, nil
}

// ensureExists distinguishes "no such row" from "row already held these values",
// since MySQL reports zero affected rows for no-op updates.
func (r *bookingRepository) ensureExists(ctx context.Context, id uint) error {
	_, err := r.FindByID(ctx, id)
	return err
}
