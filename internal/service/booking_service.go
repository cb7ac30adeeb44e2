package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"carrental/internal/cache"
	apperrors "carrental/internal/errors"
	"carrental/internal/model"
	"carrental/internal/repository"
	"carrental/internal/validator"
)

// BookingInput carries the editable fields of a booking.
type BookingInput struct {
	CarName    string `validate:"required,max=255"`
	Days       int    `validate:"required,min=1,max=365"`
	RentPerDay int    `validate:"required,min=1,max=2000"`
}

// BookingUpdate is either a status change or a full field replacement.
// Status takes precedence when both are supplied.
type BookingUpdate struct {
	Status  model.BookingStatus
	Details *BookingInput
}

// Identity is the authenticated caller.
type Identity struct {
	UserID   uint
	Username string
}

// BookingService handles the booking lifecycle.
type BookingService interface {
	Create(ctx context.Context, caller Identity, in BookingInput) (*model.Booking, error)
	Get(ctx context.Context, id uint) (*model.Booking, error)
	Summary(ctx context.Context, caller Identity) (*model.BookingSummary, error)
	Update(ctx context.Context, caller Identity, id uint, update BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, caller Identity, id uint) error
}

type bookingService struct {
	repo     repository.BookingRepository
	cache    *cache.Client
	cacheTTL time.Duration
}

// NewBookingService creates a new booking service. cache may be nil.
func NewBookingService(repo repository.BookingRepository, cache *cache.Client, cacheTTL time.Duration) BookingService {
	return &bookingService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *bookingService) bookingKey(id uint) string {
	return fmt.Sprintf("booking:%d", id)
}

func (s *bookingService) summaryKey(userID uint) string {
	return fmt.Sprintf("booking_summary:%d", userID)
}

// Create validates the input and stores a new booking owned by the caller.
func (s *bookingService) Create(ctx context.Context, caller Identity, in BookingInput) (*model.Booking, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	booking := &model.Booking{
		UserID:     caller.UserID,
		CarName:    in.CarName,
		Days:       in.Days,
		RentPerDay: in.RentPerDay,
		Status:     model.BookingStatusBooked,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	_ = s.cache.Delete(ctx, s.summaryKey(caller.UserID))
	return booking, nil
}

// Get returns any booking by id, whoever owns it.
func (s *bookingService) Get(ctx context.Context, id uint) (*model.Booking, error) {
	var cached model.Booking
	if s.cache.GetJSON(ctx, s.bookingKey(id), &cached) {
		return &cached, nil
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookingIDNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}

	s.cache.SetJSON(ctx, s.bookingKey(id), booking, s.cacheTTL)
	return booking, nil
}

// Summary aggregates the caller's bookings, excluding cancelled ones from the totals.
func (s *bookingService) Summary(ctx context.Context, caller Identity) (*model.BookingSummary, error) {
	var summary model.BookingSummary
	if !s.cache.GetJSON(ctx, s.summaryKey(caller.UserID), &summary) {
		found, err := s.repo.SummarizeByUser(ctx, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("summarize bookings: %w", err)
		}
		if found.Owned == 0 {
			return nil, apperrors.ErrBookingsNotFound
		}
		summary = *found
		// only non-empty summaries are cached, so a hit implies the caller owns bookings
		s.cache.SetJSON(ctx, s.summaryKey(caller.UserID), summary, s.cacheTTL)
	}

	summary.UserID = caller.UserID
	summary.Username = caller.Username
	return &summary, nil
}

// Update changes either the status or the fields of a booking owned by the caller.
func (s *bookingService) Update(ctx context.Context, caller Identity, id uint, update BookingUpdate) (*model.Booking, error) {
	if update.Status == "" && update.Details == nil {
		return nil, apperrors.ErrInvalidInput
	}

	booking, err := s.findOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if update.Status != "" {
		if !update.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidInput, update.Status)
		}
		if !booking.Status.CanTransitionTo(update.Status) {
			return nil, apperrors.ErrInvalidTransition
		}
		if err := s.repo.UpdateStatus(ctx, id, booking.Status, update.Status); err != nil {
			return nil, s.mutationError("update booking status", err)
		}
		booking.Status = update.Status
	} else {
		in := *update.Details
		if err := validator.Struct(in); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		if err := s.repo.UpdateDetails(ctx, id, in.CarName, in.Days, in.RentPerDay); err != nil {
			return nil, s.mutationError("update booking", err)
		}
		booking.CarName = in.CarName
		booking.Days = in.Days
		booking.RentPerDay = in.RentPerDay
	}

	s.invalidate(ctx, booking)
	return booking, nil
}

// Delete removes a booking owned by the caller.
func (s *bookingService) Delete(ctx context.Context, caller Identity, id uint) error {
	booking, err := s.findOwned(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mutationError("delete booking", err)
	}

	s.invalidate(ctx, booking)
	return nil
}

// findOwned loads a booking from the datastore and checks the caller owns it.
// The cache is bypassed so ownership is always decided on the stored row.
func (s *bookingService) findOwned(ctx context.Context, caller Identity, id uint) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking.UserID != caller.UserID {
		return nil, apperrors.ErrNotOwner
	}
	return booking, nil
}

func (s *bookingService) mutationError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrBookingNotFound
	}
	if errors.Is(err, repository.ErrStatusChanged) {
		return apperrors.ErrInvalidTransition
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *bookingService) invalidate(ctx context.Context, booking *model.Booking) {
	_ = s.cache.Delete(ctx, s.bookingKey(booking.ID), s.summaryKey(booking.UserID))
}
