package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

func TestListingStatus_Transitions(t *testing.T) {
	assert.True(t, ListingStatusDraft.CanTransitionTo(ListingStatusListed))
	assert.True(t, ListingStatusListed.CanTransitionTo(ListingStatusReserved))
	assert.True(t, ListingStatusListed.CanTransitionTo(ListingStatusExpired))
	assert.True(t, ListingStatusReserved.CanTransitionTo(ListingStatusSold))

	assert.False(t, ListingStatusListed.CanTransitionTo(ListingStatusSold))
	assert.False(t, ListingStatusReserved.CanTransitionTo(ListingStatusListed))
	assert.False(t, ListingStatusSold.CanTransitionTo(ListingStatusListed))
	assert.False(t, ListingStatusExpired.CanTransitionTo(ListingStatusListed))
	assert.False(t, ListingStatusReserved.CanTransitionTo(ListingStatusExpired))
}

func TestDeliveryStatus_ForwardOnly(t *testing.T) {
	assert.True(t, DeliveryStatusPending.CanTransitionTo(DeliveryStatusScheduled))
	assert.True(t, DeliveryStatusPending.CanTransitionTo(DeliveryStatusDelivered))
	assert.True(t, DeliveryStatusShipped.CanTransitionTo(DeliveryStatusDelivered))
	assert.True(t, DeliveryStatusShipped.CanTransitionTo(DeliveryStatusCancelled))

	assert.False(t, DeliveryStatusShipped.CanTransitionTo(DeliveryStatusScheduled))
	assert.False(t, DeliveryStatusScheduled.CanTransitionTo(DeliveryStatusScheduled))
	assert.False(t, DeliveryStatusDelivered.CanTransitionTo(DeliveryStatusCancelled))
	assert.False(t, DeliveryStatusCancelled.CanTransitionTo(DeliveryStatusShipped))
}

func TestConstructors_RejectUnknownValues(t *testing.T) {
	_, err := NewListingStatus("archived")
	assert.True(t, apperror.IsValidation(err))

	_, err = NewBidAction("withdraw")
	assert.True(t, apperror.IsValidation(err))

	_, err = NewDeliveryStatus("lost")
	assert.True(t, apperror.IsValidation(err))

	_, err = NewQualityGrade("E")
	assert.True(t, apperror.IsValidation(err))

	_, err = NewPaymentMethod("bitcoin")
	assert.True(t, apperror.IsValidation(err))
}

func TestConstructors_Defaults(t *testing.T) {
	unit, err := NewUnit("")
	require.NoError(t, err)
	assert.Equal(t, UnitKg, unit)

	method, err := NewPaymentMethod("")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCash, method)
}

func TestPriceRange(t *testing.T) {
	lo, hi := 100.0, 50.0
	_, err := NewPriceRange(&lo, &hi)
	assert.True(t, apperror.IsValidation(err))

	hi = 200
	r, err := NewPriceRange(&lo, &hi)
	require.NoError(t, err)
	assert.True(t, r.Contains(150))
	assert.False(t, r.Contains(250))
	assert.Equal(t, 10.13, RoundPrice(10.126))
}
