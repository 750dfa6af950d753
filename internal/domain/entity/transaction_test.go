package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

func acceptedBid(t *testing.T) *Bid {
	t.Helper()
	b := newTestBid(t)
	_, err := b.Accept()
	require.NoError(t, err)
	return b
}

func TestNewTransaction(t *testing.T) {
	pending := newTestBid(t)
	_, err := NewTransaction(pending, pending.BidderID, valueobject.PaymentMethodCash)
	assert.True(t, apperror.IsConflict(err))

	b := acceptedBid(t)
	_, err = NewTransaction(b, uuid.New(), valueobject.PaymentMethodCash)
	assert.True(t, apperror.IsForbidden(err))

	tx, err := NewTransaction(b, b.BidderID, valueobject.PaymentMethodUPI)
	require.NoError(t, err)
	assert.Equal(t, b.Amount, tx.Amount)
	assert.Equal(t, b.OwnerID, tx.OwnerID)
	assert.Equal(t, valueobject.PaymentStatusPending, tx.PaymentStatus)
	assert.Equal(t, valueobject.DeliveryStatusPending, tx.DeliveryStatus)
	assert.Nil(t, tx.Reference)
}

func TestTransaction_CompletePayment(t *testing.T) {
	b := acceptedBid(t)
	tx, err := NewTransaction(b, b.BidderID, valueobject.PaymentMethodCash)
	require.NoError(t, err)

	assert.True(t, apperror.IsForbidden(tx.CompletePayment(b.OwnerID, valueobject.PaymentMethodCard)))

	require.NoError(t, tx.CompletePayment(b.BidderID, valueobject.PaymentMethodCard))
	assert.Equal(t, valueobject.PaymentStatusCompleted, tx.PaymentStatus)
	assert.Equal(t, valueobject.PaymentMethodCard, tx.PaymentMethod)
	require.NotNil(t, tx.Reference)
	assert.True(t, strings.HasPrefix(*tx.Reference, "TXN_"))

	ref := *tx.Reference
	assert.True(t, apperror.IsConflict(tx.CompletePayment(b.BidderID, valueobject.PaymentMethodCash)))
	assert.Equal(t, ref, *tx.Reference)
	assert.Equal(t, valueobject.PaymentMethodCard, tx.PaymentMethod)
}

func TestTransaction_UpdateDelivery(t *testing.T) {
	b := acceptedBid(t)
	tx, err := NewTransaction(b, b.BidderID, valueobject.PaymentMethodCash)
	require.NoError(t, err)

	_, err = tx.UpdateDelivery(b.BidderID, valueobject.DeliveryStatusShipped)
	assert.True(t, apperror.IsForbidden(err))

	changed, err := tx.UpdateDelivery(b.OwnerID, valueobject.DeliveryStatusShipped)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = tx.UpdateDelivery(b.OwnerID, valueobject.DeliveryStatusShipped)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = tx.UpdateDelivery(b.OwnerID, valueobject.DeliveryStatusScheduled)
	assert.True(t, apperror.IsConflict(err))

	_, err = tx.UpdateDelivery(b.OwnerID, valueobject.DeliveryStatusDelivered)
	require.NoError(t, err)
	_, err = tx.UpdateDelivery(b.OwnerID, valueobject.DeliveryStatusCancelled)
	assert.True(t, apperror.IsConflict(err))
}

func TestPaymentReferenceFormat(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	ref := PaymentReference(at)
	assert.True(t, strings.HasPrefix(ref, "TXN_1700000000123_"))
	assert.Len(t, ref, len("TXN_1700000000123_")+3)
}

func TestNewSalePriceRecord_UnitPrice(t *testing.T) {
	l, err := NewListing(uuid.New(), validAttrs(), 2000)
	require.NoError(t, err)
	l.Location.District = "Pune"
	b, err := NewBid(l, uuid.New(), 25000, "")
	require.NoError(t, err)
	_, err = b.Accept()
	require.NoError(t, err)
	tx, err := NewTransaction(b, b.BidderID, valueobject.PaymentMethodCash)
	require.NoError(t, err)

	rec := NewSalePriceRecord(l, tx)
	assert.Equal(t, "wheat", rec.CropName)
	assert.Equal(t, 2500.0, rec.Price)
	assert.Equal(t, "Pune", rec.Region)
}
