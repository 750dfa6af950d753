package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

const bidColumns = `id, listing_id, bidder_id, owner_id, amount, status, message,
	counter_amount, counter_message, created_at, updated_at`

type BidRepositoryAdapter struct {
	db *sqlx.DB
}

func NewBidRepositoryAdapter(db *sqlx.DB) *BidRepositoryAdapter {
	return &BidRepositoryAdapter{db: db}
}

func (r *BidRepositoryAdapter) Create(ctx context.Context, b *entity.Bid) error {
	query := `INSERT INTO bids (` + bidColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := exec(ctx, r.db).ExecContext(ctx, query,
		b.ID, b.ListingID, b.BidderID, b.OwnerID, b.Amount, string(b.Status), b.Message,
		b.CounterAmount, b.CounterMessage, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return apperror.Internal(err, "не удалось создать ставку")
	}
	return nil
}

func (r *BidRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return r.findOne(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, id)
}

func (r *BidRepositoryAdapter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return r.findOne(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1 FOR UPDATE`, id)
}

func (r *BidRepositoryAdapter) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Bid, error) {
	var row bidRow
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrBidNotFound
		}
		return nil, apperror.Internal(err, "не удалось получить ставку")
	}
	return row.toEntity(), nil
}

func (r *BidRepositoryAdapter) Update(ctx context.Context, b *entity.Bid) error {
	query := `
		UPDATE bids SET status = $2, counter_amount = $3, counter_message = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := exec(ctx, r.db).ExecContext(ctx, query,
		b.ID, string(b.Status), b.CounterAmount, b.CounterMessage, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("по объявлению уже принята другая ставка")
		}
		return apperror.Internal(err, "не удалось обновить ставку")
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperror.ErrBidNotFound
	}
	return nil
}

func (r *BidRepositoryAdapter) TopByListing(ctx context.Context, listingID uuid.UUID, limit int) ([]*entity.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE listing_id = $1 ORDER BY amount DESC, created_at ASC LIMIT $2`
	return r.selectMany(ctx, query, listingID, limit)
}

func (r *BidRepositoryAdapter) FindByBidder(ctx context.Context, bidderID uuid.UUID) ([]*entity.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE bidder_id = $1 ORDER BY created_at DESC`
	return r.selectMany(ctx, query, bidderID)
}

func (r *BidRepositoryAdapter) FindByOwner(ctx context.Context, ownerID uuid.UUID, status string) ([]*entity.Bid, error) {
	if status == "" {
		query := `SELECT ` + bidColumns + ` FROM bids WHERE owner_id = $1 ORDER BY created_at DESC`
		return r.selectMany(ctx, query, ownerID)
	}
	query := `SELECT ` + bidColumns + ` FROM bids WHERE owner_id = $1 AND status = $2 ORDER BY created_at DESC`
	return r.selectMany(ctx, query, ownerID, status)
}

func (r *BidRepositoryAdapter) selectMany(ctx context.Context, query string, args ...interface{}) ([]*entity.Bid, error) {
	var rows []bidRow
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Internal(err, "не удалось получить ставки")
	}
	result := make([]*entity.Bid, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toEntity())
	}
	return result, nil
}

type bidRow struct {
	ID             uuid.UUID `db:"id"`
	ListingID      uuid.UUID `db:"listing_id"`
	BidderID       uuid.UUID `db:"bidder_id"`
	OwnerID        uuid.UUID `db:"owner_id"`
	Amount         float64   `db:"amount"`
	Status         string    `db:"status"`
	Message        string    `db:"message"`
	CounterAmount  *float64  `db:"counter_amount"`
	CounterMessage *string   `db:"counter_message"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (b *bidRow) toEntity() *entity.Bid {
	return &entity.Bid{
		ID:             b.ID,
		ListingID:      b.ListingID,
		BidderID:       b.BidderID,
		OwnerID:        b.OwnerID,
		Amount:         b.Amount,
		Status:         valueobject.BidStatus(b.Status),
		Message:        b.Message,
		CounterAmount:  b.CounterAmount,
		CounterMessage: b.CounterMessage,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
