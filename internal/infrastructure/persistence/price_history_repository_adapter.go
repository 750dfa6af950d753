package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

type PriceHistoryRepositoryAdapter struct {
	db *sqlx.DB
}

func NewPriceHistoryRepositoryAdapter(db *sqlx.DB) *PriceHistoryRepositoryAdapter {
	return &PriceHistoryRepositoryAdapter{db: db}
}

func (r *PriceHistoryRepositoryAdapter) Append(ctx context.Context, rec *entity.PriceRecord) error {
	query := `
		INSERT INTO price_history (id, crop_name, price, quality, region, market_name, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := exec(ctx, r.db).ExecContext(ctx, query,
		rec.ID, rec.CropName, rec.Price, rec.Quality, rec.Region, rec.MarketName, rec.RecordedAt,
	)
	if err != nil {
		return apperror.Internal(err, "не удалось сохранить цену")
	}
	return nil
}

func (r *PriceHistoryRepositoryAdapter) Recent(ctx context.Context, limit int) ([]*entity.PriceRecord, error) {
	query := `
		SELECT * FROM (
			SELECT DISTINCT ON (crop_name) id, crop_name, price, quality, region, market_name, recorded_at
			FROM price_history
			ORDER BY crop_name, recorded_at DESC
		) latest
		ORDER BY recorded_at DESC
		LIMIT $1
	`
	var rows []priceRow
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, apperror.Internal(err, "не удалось получить историю цен")
	}
	return toPriceRecords(rows), nil
}

func (r *PriceHistoryRepositoryAdapter) FindSince(ctx context.Context, cropName string, from time.Time) ([]*entity.PriceRecord, error) {
	query := `
		SELECT id, crop_name, price, quality, region, market_name, recorded_at
		FROM price_history
		WHERE crop_name = $1 AND recorded_at >= $2
		ORDER BY recorded_at
	`
	var rows []priceRow
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, cropName, from); err != nil {
		return nil, apperror.Internal(err, "не удалось получить историю цен")
	}
	return toPriceRecords(rows), nil
}

func toPriceRecords(rows []priceRow) []*entity.PriceRecord {
	result := make([]*entity.PriceRecord, 0, len(rows))
	for _, p := range rows {
		result = append(result, &entity.PriceRecord{
			ID:         p.ID,
			CropName:   p.CropName,
			Price:      p.Price,
			Quality:    p.Quality,
			Region:     p.Region,
			MarketName: p.MarketName,
			RecordedAt: p.RecordedAt,
		})
	}
	return result
}

type priceRow struct {
	ID         uuid.UUID `db:"id"`
	CropName   string    `db:"crop_name"`
	Price      float64   `db:"price"`
	Quality    string    `db:"quality"`
	Region     string    `db:"region"`
	MarketName string    `db:"market_name"`
	RecordedAt time.Time `db:"recorded_at"`
}
