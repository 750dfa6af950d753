package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const listingColumns = `id, owner_id, name, variety, quantity, unit, quality_grade, min_price, current_price,
	description, district, address_line1, city, state, pincode, lat, lng, images,
	harvest_date, expiry_date, bid_end_date, status, bid_count, view_count, created_at, updated_at`

type ListingRepositoryAdapter struct {
	db *sqlx.DB
}

func NewListingRepositoryAdapter(db *sqlx.DB) *ListingRepositoryAdapter {
	return &ListingRepositoryAdapter{db: db}
}

func (r *ListingRepositoryAdapter) Create(ctx context.Context, l *entity.Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		        $19, $20, $21, $22, $23, $24, $25, $26)
	`
	_, err := exec(ctx, r.db).ExecContext(ctx, query,
		l.ID, l.OwnerID, l.Name, l.Variety, l.Quantity, string(l.Unit), string(l.QualityGrade),
		l.MinPrice, l.CurrentPrice, l.Description,
		l.Location.District, l.Location.AddressLine1, l.Location.City, l.Location.State, l.Location.Pincode,
		l.Location.Lat, l.Location.Lng, pq.Array(l.Images),
		l.HarvestDate, l.ExpiryDate, l.BidEndDate, string(l.Status), l.BidCount, l.ViewCount,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return apperror.Internal(err, "не удалось создать объявление")
	}
	return nil
}

func (r *ListingRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	return r.findOne(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
}

func (r *ListingRepositoryAdapter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	return r.findOne(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1 FOR UPDATE`, id)
}

func (r *ListingRepositoryAdapter) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Listing, error) {
	var row listingRow
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, apperror.Internal(err, "не удалось получить объявление")
	}
	return row.toEntity(), nil
}

func (r *ListingRepositoryAdapter) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.ListingStatus) error {
	query := `UPDATE listings SET status = $2, updated_at = NOW() WHERE id = $1`
	return r.execAffecting(ctx, "не удалось обновить статус объявления", query, id, string(status))
}

func (r *ListingRepositoryAdapter) ApplyBid(ctx context.Context, id uuid.UUID, amount float64) error {
	query := `
		UPDATE listings
		SET bid_count = bid_count + 1, current_price = GREATEST(current_price, $2), updated_at = NOW()
		WHERE id = $1
	`
	return r.execAffecting(ctx, "не удалось обновить объявление", query, id, amount)
}

func (r *ListingRepositoryAdapter) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE listings SET view_count = view_count + 1 WHERE id = $1`
	return r.execAffecting(ctx, "не удалось обновить счётчик просмотров", query, id)
}

func (r *ListingRepositoryAdapter) execAffecting(ctx context.Context, msg, query string, args ...interface{}) error {
	result, err := exec(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return apperror.Internal(err, msg)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Internal(err, msg)
	}
	if rows == 0 {
		return apperror.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepositoryAdapter) List(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, int, error) {
	baseQuery := `FROM listings WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.Status != "" {
		baseQuery += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filter.Status)
		argNum++
	}

	if filter.Search != "" {
		baseQuery += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR variety ILIKE $%d)", argNum, argNum, argNum)
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	if filter.CropName != "" {
		baseQuery += fmt.Sprintf(" AND name ILIKE $%d", argNum)
		args = append(args, "%"+filter.CropName+"%")
		argNum++
	}

	if filter.Price.Min != nil {
		baseQuery += fmt.Sprintf(" AND current_price >= $%d", argNum)
		args = append(args, *filter.Price.Min)
		argNum++
	}

	if filter.Price.Max != nil {
		baseQuery += fmt.Sprintf(" AND current_price <= $%d", argNum)
		args = append(args, *filter.Price.Max)
		argNum++
	}

	if filter.Quality != "" {
		baseQuery += fmt.Sprintf(" AND quality_grade = $%d", argNum)
		args = append(args, filter.Quality)
		argNum++
	}

	if filter.OwnerID != nil {
		baseQuery += fmt.Sprintf(" AND owner_id = $%d", argNum)
		args = append(args, *filter.OwnerID)
		argNum++
	}

	db := exec(ctx, r.db)

	var total int
	if err := db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, apperror.Internal(err, "не удалось посчитать объявления")
	}

	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		listingColumns, baseQuery, argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var rows []listingRow
	if err := db.SelectContext(ctx, &rows, selectQuery, args...); err != nil {
		return nil, 0, apperror.Internal(err, "не удалось получить объявления")
	}
	return toListingEntities(rows), total, nil
}

func (r *ListingRepositoryAdapter) FindSimilar(ctx context.Context, l *entity.Listing, limit int) ([]*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
		WHERE LOWER(name) = LOWER($1) AND status = 'listed' AND id <> $2
		ORDER BY created_at DESC LIMIT $3`

	var rows []listingRow
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, l.Name, l.ID, limit); err != nil {
		return nil, apperror.Internal(err, "не удалось получить похожие объявления")
	}
	return toListingEntities(rows), nil
}

func (r *ListingRepositoryAdapter) DistinctNames(ctx context.Context) ([]string, error) {
	var names []string
	query := `SELECT DISTINCT name FROM listings ORDER BY name`
	if err := exec(ctx, r.db).SelectContext(ctx, &names, query); err != nil {
		return nil, apperror.Internal(err, "не удалось получить список культур")
	}
	return names, nil
}

func (r *ListingRepositoryAdapter) FindExpirable(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM listings
		WHERE status = 'listed' AND (bid_end_date < $1 OR expiry_date < $1)
		ORDER BY created_at
		LIMIT $2
	`
	var ids []uuid.UUID
	if err := exec(ctx, r.db).SelectContext(ctx, &ids, query, now, limit); err != nil {
		return nil, apperror.Internal(err, "не удалось найти просроченные объявления")
	}
	return ids, nil
}

type listingRow struct {
	ID           uuid.UUID      `db:"id"`
	OwnerID      uuid.UUID      `db:"owner_id"`
	Name         string         `db:"name"`
	Variety      string         `db:"variety"`
	Quantity     float64        `db:"quantity"`
	Unit         string         `db:"unit"`
	QualityGrade string         `db:"quality_grade"`
	MinPrice     float64        `db:"min_price"`
	CurrentPrice float64        `db:"current_price"`
	Description  string         `db:"description"`
	District     string         `db:"district"`
	AddressLine1 string         `db:"address_line1"`
	City         string         `db:"city"`
	State        string         `db:"state"`
	Pincode      string         `db:"pincode"`
	Lat          *float64       `db:"lat"`
	Lng          *float64       `db:"lng"`
	Images       pq.StringArray `db:"images"`
	HarvestDate  *time.Time     `db:"harvest_date"`
	ExpiryDate   *time.Time     `db:"expiry_date"`
	BidEndDate   *time.Time     `db:"bid_end_date"`
	Status       string         `db:"status"`
	BidCount     int            `db:"bid_count"`
	ViewCount    int            `db:"view_count"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (l *listingRow) toEntity() *entity.Listing {
	images := []string(l.Images)
	if images == nil {
		images = []string{}
	}
	return &entity.Listing{
		ID:           l.ID,
		OwnerID:      l.OwnerID,
		Name:         l.Name,
		Variety:      l.Variety,
		Quantity:     l.Quantity,
		Unit:         valueobject.Unit(l.Unit),
		QualityGrade: valueobject.QualityGrade(l.QualityGrade),
		MinPrice:     l.MinPrice,
		CurrentPrice: l.CurrentPrice,
		Description:  l.Description,
		Location: entity.Location{
			District:     l.District,
			AddressLine1: l.AddressLine1,
			City:         l.City,
			State:        l.State,
			Pincode:      l.Pincode,
			Lat:          l.Lat,
			Lng:          l.Lng,
		},
		Images:      images,
		HarvestDate: l.HarvestDate,
		ExpiryDate:  l.ExpiryDate,
		BidEndDate:  l.BidEndDate,
		Status:      valueobject.ListingStatus(l.Status),
		BidCount:    l.BidCount,
		ViewCount:   l.ViewCount,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toListingEntities(rows []listingRow) []*entity.Listing {
	result := make([]*entity.Listing, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toEntity())
	}
	return result
}
