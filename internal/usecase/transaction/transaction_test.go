package transaction_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/bid"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/listing"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/markettest"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/transaction"
)

type market struct {
	store    *markettest.Store
	notifier *markettest.Notifier
	farmer   uuid.UUID
	buyer    uuid.UUID

	create   *listing.CreateListingUseCase
	place    *bid.PlaceBidUseCase
	resolve  *bid.ResolveBidUseCase
	createTx *transaction.CreateTransactionUseCase
	pay      *transaction.ProcessPaymentUseCase
	delivery *transaction.UpdateDeliveryStatusUseCase
}

func newMarket() *market {
	store := markettest.NewStore()
	notifier := &markettest.Notifier{}
	tx := store.TxManager()
	return &market{
		store:    store,
		notifier: notifier,
		farmer:   uuid.New(),
		buyer:    uuid.New(),
		create:   listing.NewCreateListingUseCase(store.Listings(), &markettest.Oracle{}),
		place:    bid.NewPlaceBidUseCase(tx, store.Listings(), store.Bids(), notifier),
		resolve:  bid.NewResolveBidUseCase(tx, store.Listings(), store.Bids(), notifier),
		createTx: transaction.NewCreateTransactionUseCase(store.Bids(), store.Transactions(), notifier),
		pay:      transaction.NewProcessPaymentUseCase(tx, store.Transactions(), store.Listings(), store.Prices(), notifier),
		delivery: transaction.NewUpdateDeliveryStatusUseCase(tx, store.Transactions(), notifier),
	}
}

// acceptedDeal проводит объявление до принятой ставки 2500.
func (m *market) acceptedDeal(t *testing.T) (*entity.Listing, *entity.Bid) {
	t.Helper()
	ctx := context.Background()

	out, err := m.create.Execute(ctx, listing.CreateListingInput{
		OwnerID: m.farmer,
		Attrs: entity.ListingAttrs{
			Name:         "Wheat",
			Quantity:     10,
			QualityGrade: "A",
			MinPrice:     2000,
			Location:     entity.Location{District: "Nashik"},
		},
	})
	require.NoError(t, err)

	b, err := m.place.Execute(ctx, bid.PlaceBidInput{BidderID: m.buyer, ListingID: out.Listing.ID, Amount: 2500})
	require.NoError(t, err)

	_, err = m.resolve.Execute(ctx, bid.ResolveBidInput{OwnerID: m.farmer, BidID: b.ID, Action: "accept"})
	require.NoError(t, err)

	return out.Listing, b
}

func TestFullDealScenario(t *testing.T) {
	m := newMarket()
	ctx := context.Background()

	out, err := m.create.Execute(ctx, listing.CreateListingInput{
		OwnerID: m.farmer,
		Attrs:   entity.ListingAttrs{Name: "Wheat", Quantity: 10, QualityGrade: "A", MinPrice: 2000},
	})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, out.Listing.CurrentPrice)

	b, err := m.place.Execute(ctx, bid.PlaceBidInput{BidderID: m.buyer, ListingID: out.Listing.ID, Amount: 2500})
	require.NoError(t, err)
	l := m.store.Listing(out.Listing.ID)
	assert.Equal(t, 2500.0, l.CurrentPrice)
	assert.Equal(t, 1, l.BidCount)

	_, err = m.resolve.Execute(ctx, bid.ResolveBidInput{OwnerID: m.farmer, BidID: b.ID, Action: "accept"})
	require.NoError(t, err)
	assert.Equal(t, valueobject.ListingStatusReserved, m.store.Listing(out.Listing.ID).Status)

	created, err := m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: b.ID})
	require.NoError(t, err)
	assert.True(t, created.Created)
	assert.Equal(t, valueobject.PaymentStatusPending, created.Transaction.PaymentStatus)
	assert.Equal(t, valueobject.PaymentMethodCash, created.Transaction.PaymentMethod)
	assert.Equal(t, 2500.0, created.Transaction.Amount)

	paid, err := m.pay.Execute(ctx, transaction.ProcessPaymentInput{BuyerID: m.buyer, TransactionID: created.Transaction.ID, PaymentMethod: "upi"})
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentStatusCompleted, paid.PaymentStatus)
	assert.Equal(t, valueobject.PaymentMethodUPI, paid.PaymentMethod)
	require.NotNil(t, paid.Reference)
	assert.True(t, strings.HasPrefix(*paid.Reference, "TXN_"))
	assert.Equal(t, valueobject.ListingStatusSold, m.store.Listing(out.Listing.ID).Status)

	records := m.store.PriceRecords()
	require.Len(t, records, 1)
	assert.Equal(t, "wheat", records[0].CropName)
	assert.Equal(t, 250.0, records[0].Price)

	var names []string
	for _, e := range m.notifier.Events() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		repository.EventBidPlaced,
		repository.EventBidResolved,
		repository.EventTransactionCreated,
		repository.EventPaymentCompleted,
	}, names)
}

func TestCreateTransaction_Idempotent(t *testing.T) {
	m := newMarket()
	_, b := m.acceptedDeal(t)
	input := transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: b.ID, PaymentMethod: "card"}

	first, err := m.createTx.Execute(context.Background(), input)
	require.NoError(t, err)
	second, err := m.createTx.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.Equal(t, 1, m.store.TransactionCount())
}

func TestCreateTransaction_LosingRaceReturnsWinner(t *testing.T) {
	m := newMarket()
	_, b := m.acceptedDeal(t)

	winner, err := entity.NewTransaction(b, m.buyer, valueobject.PaymentMethodCash)
	require.NoError(t, err)
	racing := &racingTransactions{TransactionRepo: m.store.Transactions(), winner: winner}

	uc := transaction.NewCreateTransactionUseCase(m.store.Bids(), racing, m.notifier)
	out, err := uc.Execute(context.Background(), transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: b.ID})
	require.NoError(t, err)
	assert.False(t, out.Created)
	assert.Equal(t, winner.ID, out.Transaction.ID)
}

// racingTransactions вставляет конкурирующую сделку между проверкой и созданием.
type racingTransactions struct {
	*markettest.TransactionRepo
	winner   *entity.Transaction
	inserted bool
}

func (r *racingTransactions) Create(ctx context.Context, t *entity.Transaction) error {
	if !r.inserted {
		r.inserted = true
		if err := r.TransactionRepo.Create(ctx, r.winner); err != nil {
			return err
		}
	}
	return r.TransactionRepo.Create(ctx, t)
}

func TestCreateTransaction_Errors(t *testing.T) {
	m := newMarket()
	l, accepted := m.acceptedDeal(t)
	ctx := context.Background()

	_, err := m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: uuid.New()})
	assert.True(t, apperror.IsNotFound(err))

	_, err = m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.farmer, BidID: accepted.ID})
	assert.True(t, apperror.IsForbidden(err))

	_, err = m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: accepted.ID, PaymentMethod: "barter"})
	assert.True(t, apperror.IsValidation(err))

	pending := &entity.Bid{ID: uuid.New(), ListingID: l.ID, BidderID: m.buyer, OwnerID: m.farmer, Amount: 2100, Status: valueobject.BidStatusPending}
	m.store.PutBid(pending)
	_, err = m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: pending.ID})
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, 0, m.store.TransactionCount())
}

func TestProcessPayment_CompletedIsConflict(t *testing.T) {
	m := newMarket()
	_, b := m.acceptedDeal(t)
	ctx := context.Background()

	created, err := m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: b.ID})
	require.NoError(t, err)
	paid, err := m.pay.Execute(ctx, transaction.ProcessPaymentInput{BuyerID: m.buyer, TransactionID: created.Transaction.ID})
	require.NoError(t, err)

	_, err = m.pay.Execute(ctx, transaction.ProcessPaymentInput{BuyerID: m.buyer, TransactionID: created.Transaction.ID, PaymentMethod: "card"})
	assert.True(t, apperror.IsConflict(err))

	again, err := transaction.NewGetTransactionUseCase(m.store.Transactions()).Execute(ctx, m.buyer, created.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, *paid.Reference, *again.Reference)
	assert.Equal(t, valueobject.PaymentMethodCash, again.PaymentMethod)
	assert.Len(t, m.store.PriceRecords(), 1)
}

func TestProcessPayment_ForbiddenAndNotFound(t *testing.T) {
	m := newMarket()
	_, b := m.acceptedDeal(t)
	ctx := context.Background()

	created, err := m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: b.ID})
	require.NoError(t, err)

	_, err = m.pay.Execute(ctx, transaction.ProcessPaymentInput{BuyerID: m.farmer, TransactionID: created.Transaction.ID})
	assert.True(t, apperror.IsForbidden(err))

	_, err = m.pay.Execute(ctx, transaction.ProcessPaymentInput{BuyerID: m.buyer, TransactionID: uuid.New()})
	assert.True(t, apperror.IsNotFound(err))

	_, err = m.pay.Execute(ctx, transaction.ProcessPaymentInput{BuyerID: m.buyer, TransactionID: created.Transaction.ID, PaymentMethod: "barter"})
	assert.True(t, apperror.IsValidation(err))
}

func TestProcessPayment_FailureRollsBackEverything(t *testing.T) {
	m := newMarket()
	l, b := m.acceptedDeal(t)
	ctx := context.Background()

	created, err := m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: b.ID})
	require.NoError(t, err)

	m.store.FailOn("prices.Append", errors.New("db down"))
	_, err = m.pay.Execute(ctx, transaction.ProcessPaymentInput{BuyerID: m.buyer, TransactionID: created.Transaction.ID})
	require.Error(t, err)

	got, err := m.store.Transactions().FindByID(ctx, created.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentStatusPending, got.PaymentStatus)
	assert.Nil(t, got.Reference)
	assert.Equal(t, valueobject.ListingStatusReserved, m.store.Listing(l.ID).Status)
	assert.Empty(t, m.store.PriceRecords())
}

func TestUpdateDeliveryStatus(t *testing.T) {
	m := newMarket()
	_, b := m.acceptedDeal(t)
	ctx := context.Background()

	created, err := m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: b.ID})
	require.NoError(t, err)
	id := created.Transaction.ID

	_, err = m.delivery.Execute(ctx, transaction.UpdateDeliveryInput{OwnerID: m.buyer, TransactionID: id, Status: "shipped"})
	assert.True(t, apperror.IsForbidden(err))

	_, err = m.delivery.Execute(ctx, transaction.UpdateDeliveryInput{OwnerID: m.farmer, TransactionID: id, Status: "teleported"})
	assert.True(t, apperror.IsValidation(err))

	_, err = m.delivery.Execute(ctx, transaction.UpdateDeliveryInput{OwnerID: m.farmer, TransactionID: uuid.New(), Status: "shipped"})
	assert.True(t, apperror.IsNotFound(err))

	shipped, err := m.delivery.Execute(ctx, transaction.UpdateDeliveryInput{OwnerID: m.farmer, TransactionID: id, Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, valueobject.DeliveryStatusShipped, shipped.DeliveryStatus)

	_, err = m.delivery.Execute(ctx, transaction.UpdateDeliveryInput{OwnerID: m.farmer, TransactionID: id, Status: "scheduled"})
	assert.True(t, apperror.IsConflict(err))

	delivered, err := m.delivery.Execute(ctx, transaction.UpdateDeliveryInput{OwnerID: m.farmer, TransactionID: id, Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, valueobject.DeliveryStatusDelivered, delivered.DeliveryStatus)

	var deliveryEvents int
	for _, e := range m.notifier.Events() {
		if e.Name == repository.EventDeliveryUpdated {
			deliveryEvents++
			assert.Equal(t, m.buyer, e.UserID)
		}
	}
	assert.Equal(t, 2, deliveryEvents)
}

func TestUpdateDeliveryStatus_ChecksAccessBeforeStatus(t *testing.T) {
	m := newMarket()
	_, b := m.acceptedDeal(t)
	ctx := context.Background()

	created, err := m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: b.ID})
	require.NoError(t, err)
	id := created.Transaction.ID

	_, err = m.delivery.Execute(ctx, transaction.UpdateDeliveryInput{OwnerID: m.farmer, TransactionID: uuid.New(), Status: "lost"})
	assert.True(t, apperror.IsNotFound(err))

	_, err = m.delivery.Execute(ctx, transaction.UpdateDeliveryInput{OwnerID: uuid.New(), TransactionID: id, Status: "lost"})
	assert.True(t, apperror.IsForbidden(err))

	got, err := m.store.Transactions().FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, valueobject.DeliveryStatusPending, got.DeliveryStatus)
}

func TestGetAndListTransactions(t *testing.T) {
	m := newMarket()
	_, b := m.acceptedDeal(t)
	ctx := context.Background()

	created, err := m.createTx.Execute(ctx, transaction.CreateTransactionInput{BuyerID: m.buyer, BidID: b.ID})
	require.NoError(t, err)

	get := transaction.NewGetTransactionUseCase(m.store.Transactions())
	_, err = get.Execute(ctx, m.farmer, created.Transaction.ID)
	assert.NoError(t, err)
	_, err = get.Execute(ctx, uuid.New(), created.Transaction.ID)
	assert.True(t, apperror.IsForbidden(err))

	list := transaction.NewListTransactionsUseCase(m.store.Transactions())

	bought, err := list.Execute(ctx, m.buyer, "", "")
	require.NoError(t, err)
	assert.Len(t, bought, 1)

	sold, err := list.Execute(ctx, m.farmer, transaction.RoleFarmer, "pending")
	require.NoError(t, err)
	assert.Len(t, sold, 1)

	none, err := list.Execute(ctx, m.farmer, transaction.RoleBuyer, "")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = list.Execute(ctx, m.farmer, "admin", "")
	assert.True(t, apperror.IsValidation(err))
	_, err = list.Execute(ctx, m.farmer, "", "stolen")
	assert.True(t, apperror.IsValidation(err))
}
