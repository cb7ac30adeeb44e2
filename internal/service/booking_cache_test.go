package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"carrental/internal/cache"
	apperrors "carrental/internal/errors"
	"carrental/internal/model"
)

func newCachedBookingService(t *testing.T, repo *MockBookingRepository) (BookingService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return NewBookingService(repo, client, time.Minute), mr
}

func TestBookingService_GetIsCached(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBookingRepository)
	repo.On("FindByID", mock.Anything, uint(5)).Return(ownedBooking(), nil).Once()
	svc, mr := newCachedBookingService(t, repo)

	first, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.True(t, mr.Exists("booking:5"))

	second, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, first.CarName, second.CarName)
	assert.Equal(t, first.Days, second.Days)
	assert.Equal(t, first.RentPerDay, second.RentPerDay)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, 4500, second.TotalCost())
	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestBookingService_SummaryIsCached(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBookingRepository)
	repo.On("SummarizeByUser", mock.Anything, owner.UserID).Return(&model.BookingSummary{
		UserID: owner.UserID, Owned: 2, TotalBookings: 2, TotalAmountSpent: 6500,
	}, nil).Once()
	svc, _ := newCachedBookingService(t, repo)

	for i := 0; i < 2; i++ {
		summary, err := svc.Summary(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, "Test", summary.Username)
		assert.Equal(t, owner.UserID, summary.UserID)
		assert.Equal(t, int64(2), summary.TotalBookings)
		assert.Equal(t, int64(6500), summary.TotalAmountSpent)
	}
	repo.AssertNumberOfCalls(t, "SummarizeByUser", 1)
}

func TestBookingService_EmptySummaryIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBookingRepository)
	repo.On("SummarizeByUser", mock.Anything, owner.UserID).Return(&model.BookingSummary{UserID: owner.UserID}, nil)
	svc, mr := newCachedBookingService(t, repo)

	_, err := svc.Summary(ctx, owner)
	assert.ErrorIs(t, err, apperrors.ErrBookingsNotFound)
	assert.False(t, mr.Exists("booking_summary:108"))
}

func TestBookingService_UpdateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBookingRepository)
	repo.On("FindByID", mock.Anything, uint(5)).Return(ownedBooking(), nil).Times(2)
	repo.On("SummarizeByUser", mock.Anything, owner.UserID).Return(&model.BookingSummary{
		UserID: owner.UserID, Owned: 1, TotalBookings: 1, TotalAmountSpent: 4500,
	}, nil).Once()
	repo.On("UpdateStatus", mock.Anything, uint(5), model.BookingStatusBooked, model.BookingStatusCancelled).Return(nil)
	svc, mr := newCachedBookingService(t, repo)

	_, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	_, err = svc.Summary(ctx, owner)
	require.NoError(t, err)
	require.True(t, mr.Exists("booking:5"))
	require.True(t, mr.Exists("booking_summary:108"))

	_, err = svc.Update(ctx, owner, 5, BookingUpdate{Status: model.BookingStatusCancelled})
	require.NoError(t, err)
	assert.False(t, mr.Exists("booking:5"))
	assert.False(t, mr.Exists("booking_summary:108"))

	cancelled := ownedBooking()
	cancelled.Status = model.BookingStatusCancelled
	repo.On("FindByID", mock.Anything, uint(5)).Return(cancelled, nil).Once()
	repo.On("SummarizeByUser", mock.Anything, owner.UserID).Return(&model.BookingSummary{
		UserID: owner.UserID, Owned: 1,
	}, nil).Once()

	booking, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, booking.Status)

	summary, err := svc.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalBookings)
	assert.Zero(t, summary.TotalAmountSpent)
	repo.AssertExpectations(t)
}

func TestBookingService_DeleteInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBookingRepository)
	repo.On("FindByID", mock.Anything, uint(5)).Return(ownedBooking(), nil).Times(2)
	repo.On("Delete", mock.Anything, uint(5)).Return(nil)
	svc, mr := newCachedBookingService(t, repo)

	_, err := svc.Get(ctx, 5)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, 5))
	assert.False(t, mr.Exists("booking:5"))

	repo.On("FindByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound).Once()
	_, err = svc.Get(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrBookingIDNotFound)
	repo.AssertExpectations(t)
}

func TestBookingService_CreateInvalidatesSummary(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBookingRepository)
	repo.On("SummarizeByUser", mock.Anything, owner.UserID).Return(&model.BookingSummary{
		UserID: owner.UserID, Owned: 1, TotalBookings: 1, TotalAmountSpent: 4500,
	}, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc, mr := newCachedBookingService(t, repo)

	_, err := svc.Summary(ctx, owner)
	require.NoError(t, err)
	require.True(t, mr.Exists("booking_summary:108"))

	_, err = svc.Create(ctx, owner, BookingInput{CarName: "Swift", Days: 2, RentPerDay: 1000})
	require.NoError(t, err)
	assert.False(t, mr.Exists("booking_summary:108"))

	repo.On("SummarizeByUser", mock.Anything, owner.UserID).Return(&model.BookingSummary{
		UserID: owner.UserID, Owned: 2, TotalBookings: 2, TotalAmountSpent: 6500,
	}, nil).Once()
	summary, err := svc.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(6500), summary.TotalAmountSpent)
	repo.AssertExpectations(t)
}
