// Package markettest содержит in-memory реализации портов для тестов use case.
package markettest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

// Store хранит все сущности. Методы репозиториев отдают копии, как настоящая БД.
type Store struct {
	mu           sync.Mutex
	txMu         sync.Mutex
	listings     map[uuid.UUID]entity.Listing
	bids         map[uuid.UUID]entity.Bid
	transactions map[uuid.UUID]entity.Transaction
	prices       []entity.PriceRecord
	failures     map[string]error
}

func NewStore() *Store {
	return &Store{
		listings:     make(map[uuid.UUID]entity.Listing),
		bids:         make(map[uuid.UUID]entity.Bid),
		transactions: make(map[uuid.UUID]entity.Transaction),
		failures:     make(map[string]error),
	}
}

// FailOn заставляет операцию op (например "bids.Create") вернуть err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

func (s *Store) Listings() *ListingRepo         { return &ListingRepo{s: s} }
func (s *Store) Bids() *BidRepo                 { return &BidRepo{s: s} }
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s: s} }
func (s *Store) Prices() *PriceRepo             { return &PriceRepo{s: s} }
func (s *Store) TxManager() *TxManager          { return &TxManager{s: s} }
func (s *Store) Stats() *StatsRepo              { return &StatsRepo{s: s} }

// Listing возвращает текущее состояние объявления для проверок.
func (s *Store) Listing(id uuid.UUID) entity.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings[id]
}

func (s *Store) Bid(id uuid.UUID) entity.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bids[id]
}

func (s *Store) BidCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bids)
}

func (s *Store) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

func (s *Store) PriceRecords() []entity.PriceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.PriceRecord(nil), s.prices...)
}

// PutListing кладёт объявление напрямую, минуя use case.
func (s *Store) PutListing(l *entity.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[l.ID] = copyListing(l)
}

func (s *Store) PutBid(b *entity.Bid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids[b.ID] = *b
}

type snapshot struct {
	listings     map[uuid.UUID]entity.Listing
	bids         map[uuid.UUID]entity.Bid
	transactions map[uuid.UUID]entity.Transaction
	prices       []entity.PriceRecord
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		listings:     make(map[uuid.UUID]entity.Listing, len(s.listings)),
		bids:         make(map[uuid.UUID]entity.Bid, len(s.bids)),
		transactions: make(map[uuid.UUID]entity.Transaction, len(s.transactions)),
		prices:       append([]entity.PriceRecord(nil), s.prices...),
	}
	for k, v := range s.listings {
		snap.listings[k] = v
	}
	for k, v := range s.bids {
		snap.bids[k] = v
	}
	for k, v := range s.transactions {
		snap.transactions[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = snap.listings
	s.bids = snap.bids
	s.transactions = snap.transactions
	s.prices = snap.prices
}

type txKey struct{}

// TxManager сериализует транзакции и откатывает состояние по снимку при ошибке.
type TxManager struct {
	s *Store
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

func copyListing(l *entity.Listing) entity.Listing {
	c := *l
	c.Images = append([]string{}, l.Images...)
	return c
}

type ListingRepo struct{ s *Store }

func (r *ListingRepo) Create(_ context.Context, l *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("listings.Create"); err != nil {
		return err
	}
	r.s.listings[l.ID] = copyListing(l)
	return nil
}

func (r *ListingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, apperror.ErrListingNotFound
	}
	c := copyListing(&l)
	return &c, nil
}

func (r *ListingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	return r.FindByID(ctx, id)
}

func (r *ListingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status valueobject.ListingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("listings.UpdateStatus"); err != nil {
		return err
	}
	l, ok := r.s.listings[id]
	if !ok {
		return apperror.ErrListingNotFound
	}
	l.Status = status
	r.s.listings[id] = l
	return nil
}

func (r *ListingRepo) ApplyBid(_ context.Context, id uuid.UUID, amount float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("listings.ApplyBid"); err != nil {
		return err
	}
	l, ok := r.s.listings[id]
	if !ok {
		return apperror.ErrListingNotFound
	}
	l.ApplyBid(amount)
	r.s.listings[id] = l
	return nil
}

func (r *ListingRepo) IncrementViewCount(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("listings.IncrementViewCount"); err != nil {
		return err
	}
	l, ok := r.s.listings[id]
	if !ok {
		return apperror.ErrListingNotFound
	}
	l.ViewCount++
	r.s.listings[id] = l
	return nil
}

func (r *ListingRepo) List(_ context.Context, f repository.ListingFilter) ([]*entity.Listing, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*entity.Listing
	for _, l := range r.s.listings {
		if !matchesListing(&l, f) {
			continue
		}
		c := copyListing(&l)
		matched = append(matched, &c)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if f.Offset >= total {
		return []*entity.Listing{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func matchesListing(l *entity.Listing, f repository.ListingFilter) bool {
	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	if f.Status != "" && string(l.Status) != f.Status {
		return false
	}
	if f.Search != "" && !contains(l.Name, f.Search) && !contains(l.Description, f.Search) && !contains(l.Variety, f.Search) {
		return false
	}
	if f.CropName != "" && !contains(l.Name, f.CropName) {
		return false
	}
	if !f.Price.Contains(l.CurrentPrice) {
		return false
	}
	if f.Quality != "" && string(l.QualityGrade) != f.Quality {
		return false
	}
	if f.OwnerID != nil && l.OwnerID != *f.OwnerID {
		return false
	}
	return true
}

func (r *ListingRepo) FindSimilar(_ context.Context, target *entity.Listing, limit int) ([]*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var result []*entity.Listing
	for _, l := range r.s.listings {
		if l.ID == target.ID || l.Status != valueobject.ListingStatusListed || !strings.EqualFold(l.Name, target.Name) {
			continue
		}
		c := copyListing(&l)
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *ListingRepo) DistinctNames(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := map[string]struct{}{}
	var names []string
	for _, l := range r.s.listings {
		if _, ok := seen[l.Name]; ok {
			continue
		}
		seen[l.Name] = struct{}{}
		names = append(names, l.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *ListingRepo) FindExpirable(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var expirable []entity.Listing
	for _, l := range r.s.listings {
		if l.Status == valueobject.ListingStatusListed && l.DeadlinePassed(now) {
			expirable = append(expirable, l)
		}
	}
	sort.Slice(expirable, func(i, j int) bool { return expirable[i].CreatedAt.Before(expirable[j].CreatedAt) })

	ids := []uuid.UUID{}
	for _, l := range expirable {
		if len(ids) == limit {
			break
		}
		ids = append(ids, l.ID)
	}
	return ids, nil
}

type BidRepo struct{ s *Store }

func (r *BidRepo) Create(_ context.Context, b *entity.Bid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("bids.Create"); err != nil {
		return err
	}
	r.s.bids[b.ID] = *b
	return nil
}

func (r *BidRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bids[id]
	if !ok {
		return nil, apperror.ErrBidNotFound
	}
	return &b, nil
}

func (r *BidRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return r.FindByID(ctx, id)
}

// Update повторяет частичный уникальный индекс: одна принятая ставка на объявление.
func (r *BidRepo) Update(_ context.Context, b *entity.Bid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("bids.Update"); err != nil {
		return err
	}
	if _, ok := r.s.bids[b.ID]; !ok {
		return apperror.ErrBidNotFound
	}
	if b.Status == valueobject.BidStatusAccepted {
		for id, other := range r.s.bids {
			if id != b.ID && other.ListingID == b.ListingID && other.Status == valueobject.BidStatusAccepted {
				return apperror.Conflict("по объявлению уже принята другая ставка")
			}
		}
	}
	r.s.bids[b.ID] = *b
	return nil
}

func (r *BidRepo) TopByListing(_ context.Context, listingID uuid.UUID, limit int) ([]*entity.Bid, error) {
	result := r.filter(func(b *entity.Bid) bool { return b.ListingID == listingID })
	sort.Slice(result, func(i, j int) bool { return result[i].Amount > result[j].Amount })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *BidRepo) FindByBidder(_ context.Context, bidderID uuid.UUID) ([]*entity.Bid, error) {
	result := r.filter(func(b *entity.Bid) bool { return b.BidderID == bidderID })
	sortBidsNewestFirst(result)
	return result, nil
}

func (r *BidRepo) FindByOwner(_ context.Context, ownerID uuid.UUID, status string) ([]*entity.Bid, error) {
	result := r.filter(func(b *entity.Bid) bool {
		return b.OwnerID == ownerID && (status == "" || string(b.Status) == status)
	})
	sortBidsNewestFirst(result)
	return result, nil
}

func (r *BidRepo) filter(keep func(b *entity.Bid) bool) []*entity.Bid {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := []*entity.Bid{}
	for _, b := range r.s.bids {
		b := b
		if keep(&b) {
			result = append(result, &b)
		}
	}
	return result
}

func sortBidsNewestFirst(bids []*entity.Bid) {
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt.After(bids[j].CreatedAt) })
}

type TransactionRepo struct{ s *Store }

func (r *TransactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("transactions.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.transactions {
		if existing.BidID == t.BidID {
			return apperror.Conflict("сделка по ставке уже существует")
		}
	}
	r.s.transactions[t.ID] = *t
	return nil
}

func (r *TransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, apperror.ErrTransactionNotFound
	}
	return &t, nil
}

func (r *TransactionRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.FindByID(ctx, id)
}

func (r *TransactionRepo) FindByBidID(_ context.Context, bidID uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.transactions {
		if t.BidID == bidID {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TransactionRepo) Update(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("transactions.Update"); err != nil {
		return err
	}
	if _, ok := r.s.transactions[t.ID]; !ok {
		return apperror.ErrTransactionNotFound
	}
	r.s.transactions[t.ID] = *t
	return nil
}

func (r *TransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := []*entity.Transaction{}
	for _, t := range r.s.transactions {
		t := t
		if f.BuyerID != nil && t.BuyerID != *f.BuyerID {
			continue
		}
		if f.OwnerID != nil && t.OwnerID != *f.OwnerID {
			continue
		}
		if f.PaymentStatus != "" && string(t.PaymentStatus) != f.PaymentStatus {
			continue
		}
		result = append(result, &t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

type PriceRepo struct{ s *Store }

func (r *PriceRepo) Append(_ context.Context, rec *entity.PriceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("prices.Append"); err != nil {
		return err
	}
	r.s.prices = append(r.s.prices, *rec)
	return nil
}

func (r *PriceRepo) Recent(_ context.Context, limit int) ([]*entity.PriceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	latest := map[string]entity.PriceRecord{}
	for _, p := range r.s.prices {
		if cur, ok := latest[p.CropName]; !ok || p.RecordedAt.After(cur.RecordedAt) {
			latest[p.CropName] = p
		}
	}
	result := make([]*entity.PriceRecord, 0, len(latest))
	for _, p := range latest {
		p := p
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordedAt.After(result[j].RecordedAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *PriceRepo) FindSince(_ context.Context, cropName string, from time.Time) ([]*entity.PriceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := []*entity.PriceRecord{}
	for _, p := range r.s.prices {
		p := p
		if p.CropName == cropName && !p.RecordedAt.Before(from) {
			result = append(result, &p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordedAt.Before(result[j].RecordedAt) })
	return result, nil
}

// StatsRepo считает сводки по тем же правилам, что и SQL-запросы.
type StatsRepo struct{ s *Store }

func (r *StatsRepo) FarmerStats(_ context.Context, ownerID uuid.UUID) (*entity.FarmerStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stats := &entity.FarmerStats{}
	for _, l := range r.s.listings {
		if l.OwnerID == ownerID && l.Status == valueobject.ListingStatusListed {
			stats.ActiveListings++
		}
	}
	for _, t := range r.s.transactions {
		if t.OwnerID == ownerID && t.PaymentStatus == valueobject.PaymentStatusCompleted {
			stats.TotalSales++
			stats.Earnings += t.Amount
		}
	}
	for _, b := range r.s.bids {
		if b.OwnerID == ownerID && b.Status == valueobject.BidStatusPending {
			stats.PendingBids++
		}
	}
	return stats, nil
}

func (r *StatsRepo) BuyerStats(_ context.Context, buyerID uuid.UUID) (*entity.BuyerStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stats := &entity.BuyerStats{}
	for _, b := range r.s.bids {
		if b.BidderID == buyerID && (b.Status == valueobject.BidStatusPending || b.Status == valueobject.BidStatusCountered) {
			stats.ActiveBids++
		}
	}
	for _, t := range r.s.transactions {
		if t.BuyerID == buyerID && t.PaymentStatus == valueobject.PaymentStatusCompleted {
			stats.CompletedPurchases++
			stats.TotalSpent += t.Amount
		}
	}
	return stats, nil
}

var (
	_ repository.StatsRepository        = (*StatsRepo)(nil)
	_ repository.TxManager              = (*TxManager)(nil)
	_ repository.ListingRepository      = (*ListingRepo)(nil)
	_ repository.BidRepository          = (*BidRepo)(nil)
	_ repository.TransactionRepository  = (*TransactionRepo)(nil)
	_ repository.PriceHistoryRepository = (*PriceRepo)(nil)
)
