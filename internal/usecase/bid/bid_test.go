package bid_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/bid"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/markettest"
)

type fixture struct {
	store    *markettest.Store
	notifier *markettest.Notifier
	place    *bid.PlaceBidUseCase
	resolve  *bid.ResolveBidUseCase
	listing  *entity.Listing
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := markettest.NewStore()
	notifier := &markettest.Notifier{}

	l, err := entity.NewListing(uuid.New(), entity.ListingAttrs{
		Name:         "Wheat",
		Quantity:     10,
		QualityGrade: "A",
		MinPrice:     2000,
	}, 2000)
	require.NoError(t, err)
	store.PutListing(l)

	return &fixture{
		store:    store,
		notifier: notifier,
		place:    bid.NewPlaceBidUseCase(store.TxManager(), store.Listings(), store.Bids(), notifier),
		resolve:  bid.NewResolveBidUseCase(store.TxManager(), store.Listings(), store.Bids(), notifier),
		listing:  l,
	}
}

func (f *fixture) placeBid(t *testing.T, amount float64) *entity.Bid {
	t.Helper()
	b, err := f.place.Execute(context.Background(), bid.PlaceBidInput{
		BidderID:  uuid.New(),
		ListingID: f.listing.ID,
		Amount:    amount,
	})
	require.NoError(t, err)
	return b
}

func TestPlaceBid_UpdatesAggregate(t *testing.T) {
	f := newFixture(t)

	b := f.placeBid(t, 2500)
	assert.Equal(t, valueobject.BidStatusPending, b.Status)
	assert.Equal(t, f.listing.OwnerID, b.OwnerID)

	stored := f.store.Listing(f.listing.ID)
	assert.Equal(t, 1, stored.BidCount)
	assert.Equal(t, 2500.0, stored.CurrentPrice)

	f.placeBid(t, 2200)
	stored = f.store.Listing(f.listing.ID)
	assert.Equal(t, 2, stored.BidCount)
	assert.Equal(t, 2500.0, stored.CurrentPrice)

	events := f.notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, repository.EventBidPlaced, events[0].Name)
	assert.Equal(t, f.listing.OwnerID, events[0].UserID)
}

func TestPlaceBid_OwnListingForbidden(t *testing.T) {
	f := newFixture(t)

	for _, amount := range []float64{1, 2000, 1_000_000} {
		_, err := f.place.Execute(context.Background(), bid.PlaceBidInput{
			BidderID:  f.listing.OwnerID,
			ListingID: f.listing.ID,
			Amount:    amount,
		})
		assert.True(t, apperror.IsForbidden(err))
	}
	assert.Equal(t, 0, f.store.BidCount())
}

func TestPlaceBid_BelowMinPriceNoStateChange(t *testing.T) {
	f := newFixture(t)

	_, err := f.place.Execute(context.Background(), bid.PlaceBidInput{
		BidderID:  uuid.New(),
		ListingID: f.listing.ID,
		Amount:    1999,
	})
	assert.True(t, apperror.IsValidation(err))

	stored := f.store.Listing(f.listing.ID)
	assert.Equal(t, 0, stored.BidCount)
	assert.Equal(t, 2000.0, stored.CurrentPrice)
	assert.Equal(t, 0, f.store.BidCount())
	assert.Empty(t, f.notifier.Events())
}

func TestPlaceBid_ListingNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.place.Execute(context.Background(), bid.PlaceBidInput{
		BidderID:  uuid.New(),
		ListingID: uuid.New(),
		Amount:    2500,
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestPlaceBid_ReservedListingConflict(t *testing.T) {
	f := newFixture(t)
	b := f.placeBid(t, 2500)
	_, err := f.resolve.Execute(context.Background(), bid.ResolveBidInput{OwnerID: f.listing.OwnerID, BidID: b.ID, Action: "accept"})
	require.NoError(t, err)

	_, err = f.place.Execute(context.Background(), bid.PlaceBidInput{
		BidderID:  uuid.New(),
		ListingID: f.listing.ID,
		Amount:    3000,
	})
	assert.True(t, apperror.IsConflict(err))
}

func TestPlaceBid_AggregateFailureRollsBackBid(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn("listings.ApplyBid", errors.New("db down"))

	_, err := f.place.Execute(context.Background(), bid.PlaceBidInput{
		BidderID:  uuid.New(),
		ListingID: f.listing.ID,
		Amount:    2500,
	})
	require.Error(t, err)
	assert.Equal(t, 0, f.store.BidCount())
	assert.Equal(t, 0, f.store.Listing(f.listing.ID).BidCount)
	assert.Empty(t, f.notifier.Events())
}

func TestResolveBid_AcceptTwiceIsNoop(t *testing.T) {
	f := newFixture(t)
	b := f.placeBid(t, 2500)
	input := bid.ResolveBidInput{OwnerID: f.listing.OwnerID, BidID: b.ID, Action: "accept"}

	first, err := f.resolve.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, valueobject.BidStatusAccepted, first.Status)
	assert.Equal(t, valueobject.ListingStatusReserved, f.store.Listing(f.listing.ID).Status)

	second, err := f.resolve.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, valueobject.BidStatusAccepted, second.Status)
	assert.Equal(t, valueobject.ListingStatusReserved, f.store.Listing(f.listing.ID).Status)

	resolved := 0
	for _, e := range f.notifier.Events() {
		if e.Name == repository.EventBidResolved {
			resolved++
			assert.Equal(t, b.BidderID, e.UserID)
		}
	}
	assert.Equal(t, 1, resolved)
}

func TestResolveBid_SecondAcceptOnListingConflicts(t *testing.T) {
	f := newFixture(t)
	first := f.placeBid(t, 2500)
	second := f.placeBid(t, 2600)

	_, err := f.resolve.Execute(context.Background(), bid.ResolveBidInput{OwnerID: f.listing.OwnerID, BidID: first.ID, Action: "accept"})
	require.NoError(t, err)

	_, err = f.resolve.Execute(context.Background(), bid.ResolveBidInput{OwnerID: f.listing.OwnerID, BidID: second.ID, Action: "accept"})
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, valueobject.BidStatusPending, f.store.Bid(second.ID).Status)
}

func TestResolveBid_NonOwnerForbidden(t *testing.T) {
	f := newFixture(t)
	b := f.placeBid(t, 2500)

	for _, action := range []string{"accept", "reject", "counter"} {
		_, err := f.resolve.Execute(context.Background(), bid.ResolveBidInput{
			OwnerID:       uuid.New(),
			BidID:         b.ID,
			Action:        action,
			CounterAmount: markettest.Float(2700),
		})
		assert.True(t, apperror.IsForbidden(err), action)
	}

	assert.Equal(t, valueobject.BidStatusPending, f.store.Bid(b.ID).Status)
	assert.Equal(t, valueobject.ListingStatusListed, f.store.Listing(f.listing.ID).Status)
}

func TestResolveBid_RejectAndCounter(t *testing.T) {
	f := newFixture(t)
	b := f.placeBid(t, 2500)
	owner := f.listing.OwnerID
	msg := "2700 и по рукам"

	_, err := f.resolve.Execute(context.Background(), bid.ResolveBidInput{OwnerID: owner, BidID: b.ID, Action: "counter"})
	assert.True(t, apperror.IsValidation(err))

	countered, err := f.resolve.Execute(context.Background(), bid.ResolveBidInput{
		OwnerID:        owner,
		BidID:          b.ID,
		Action:         "counter",
		CounterAmount:  markettest.Float(2700),
		CounterMessage: &msg,
	})
	require.NoError(t, err)
	assert.Equal(t, valueobject.BidStatusCountered, countered.Status)
	assert.Equal(t, 2700.0, *f.store.Bid(b.ID).CounterAmount)

	rejected, err := f.resolve.Execute(context.Background(), bid.ResolveBidInput{OwnerID: owner, BidID: b.ID, Action: "reject"})
	require.NoError(t, err)
	assert.Equal(t, valueobject.BidStatusRejected, rejected.Status)
	assert.Equal(t, valueobject.ListingStatusListed, f.store.Listing(f.listing.ID).Status)

	_, err = f.resolve.Execute(context.Background(), bid.ResolveBidInput{OwnerID: owner, BidID: b.ID, Action: "accept"})
	assert.True(t, apperror.IsConflict(err))
}

func TestResolveBid_InvalidActionAndMissingBid(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolve.Execute(context.Background(), bid.ResolveBidInput{OwnerID: f.listing.OwnerID, BidID: uuid.New(), Action: "withdraw"})
	assert.True(t, apperror.IsValidation(err))

	_, err = f.resolve.Execute(context.Background(), bid.ResolveBidInput{OwnerID: f.listing.OwnerID, BidID: uuid.New(), Action: "accept"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestResolveBid_AcceptFailureRollsBackListing(t *testing.T) {
	f := newFixture(t)
	b := f.placeBid(t, 2500)
	f.store.FailOn("bids.Update", errors.New("db down"))

	_, err := f.resolve.Execute(context.Background(), bid.ResolveBidInput{OwnerID: f.listing.OwnerID, BidID: b.ID, Action: "accept"})
	require.Error(t, err)
	assert.Equal(t, valueobject.ListingStatusListed, f.store.Listing(f.listing.ID).Status)
	assert.Equal(t, valueobject.BidStatusPending, f.store.Bid(b.ID).Status)
}

func TestListReceivedBids(t *testing.T) {
	f := newFixture(t)
	pending := f.placeBid(t, 2500)
	rejected := f.placeBid(t, 2100)
	_, err := f.resolve.Execute(context.Background(), bid.ResolveBidInput{OwnerID: f.listing.OwnerID, BidID: rejected.ID, Action: "reject"})
	require.NoError(t, err)

	uc := bid.NewListReceivedBidsUseCase(f.store.Bids())

	bids, err := uc.Execute(context.Background(), f.listing.OwnerID, "")
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, pending.ID, bids[0].ID)

	bids, err = uc.Execute(context.Background(), f.listing.OwnerID, bid.StatusAll)
	require.NoError(t, err)
	assert.Len(t, bids, 2)

	_, err = uc.Execute(context.Background(), f.listing.OwnerID, "weird")
	assert.True(t, apperror.IsValidation(err))

	mine, err := bid.NewListBuyerBidsUseCase(f.store.Bids()).Execute(context.Background(), pending.BidderID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, pending.ID, mine[0].ID)
}
