package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

type StatsRepositoryAdapter struct {
	db *sqlx.DB
}

func NewStatsRepositoryAdapter(db *sqlx.DB) *StatsRepositoryAdapter {
	return &StatsRepositoryAdapter{db: db}
}

func (r *StatsRepositoryAdapter) FarmerStats(ctx context.Context, ownerID uuid.UUID) (*entity.FarmerStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM listings WHERE owner_id = $1 AND status = 'listed') AS active_listings,
			(SELECT COUNT(*) FROM transactions WHERE owner_id = $1 AND payment_status = 'completed') AS total_sales,
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE owner_id = $1 AND payment_status = 'completed') AS earnings,
			(SELECT COUNT(*) FROM bids WHERE owner_id = $1 AND status = 'pending') AS pending_bids
	`
	var row struct {
		ActiveListings int     `db:"active_listings"`
		TotalSales     int     `db:"total_sales"`
		Earnings       float64 `db:"earnings"`
		PendingBids    int     `db:"pending_bids"`
	}
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, ownerID); err != nil {
		return nil, apperror.Internal(err, "не удалось получить статистику продавца")
	}
	return &entity.FarmerStats{
		ActiveListings: row.ActiveListings,
		TotalSales:     row.TotalSales,
		Earnings:       row.Earnings,
		PendingBids:    row.PendingBids,
	}, nil
}

func (r *StatsRepositoryAdapter) BuyerStats(ctx context.Context, buyerID uuid.UUID) (*entity.BuyerStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM bids WHERE bidder_id = $1 AND status IN ('pending', 'countered')) AS active_bids,
			(SELECT COUNT(*) FROM transactions WHERE buyer_id = $1 AND payment_status = 'completed') AS completed_purchases,
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE buyer_id = $1 AND payment_status = 'completed') AS total_spent
	`
	var row struct {
		ActiveBids         int     `db:"active_bids"`
		CompletedPurchases int     `db:"completed_purchases"`
		TotalSpent         float64 `db:"total_spent"`
	}
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, buyerID); err != nil {
		return nil, apperror.Internal(err, "не удалось получить статистику покупателя")
	}
	return &entity.BuyerStats{
		ActiveBids:         row.ActiveBids,
		CompletedPurchases: row.CompletedPurchases,
		TotalSpent:         row.TotalSpent,
	}, nil
}
