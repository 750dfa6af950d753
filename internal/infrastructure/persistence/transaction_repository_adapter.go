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
)

const transactionColumns = `id, bid_id, listing_id, buyer_id, owner_id, amount, payment_status,
	payment_method, reference, delivery_status, created_at, updated_at`

type TransactionRepositoryAdapter struct {
	db *sqlx.DB
}

func NewTransactionRepositoryAdapter(db *sqlx.DB) *TransactionRepositoryAdapter {
	return &TransactionRepositoryAdapter{db: db}
}

func (r *TransactionRepositoryAdapter) Create(ctx context.Context, t *entity.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := exec(ctx, r.db).ExecContext(ctx, query,
		t.ID, t.BidID, t.ListingID, t.BuyerID, t.OwnerID, t.Amount, string(t.PaymentStatus),
		string(t.PaymentMethod), t.Reference, string(t.DeliveryStatus), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Wrap(err, apperror.ErrCodeConflict, "сделка по ставке уже существует")
		}
		return apperror.Internal(err, "не удалось создать сделку")
	}
	return nil
}

func (r *TransactionRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.findOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
}

func (r *TransactionRepositoryAdapter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.findOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransactionRepositoryAdapter) FindByBidID(ctx context.Context, bidID uuid.UUID) (*entity.Transaction, error) {
	t, err := r.findOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE bid_id = $1`, bidID)
	if apperror.IsNotFound(err) {
		return nil, nil
	}
	return t, err
}

func (r *TransactionRepositoryAdapter) findOne(ctx context.Context, query string, arg uuid.UUID) (*entity.Transaction, error) {
	var row transactionRow
	if err := exec(ctx, r.db).GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, apperror.Internal(err, "не удалось получить сделку")
	}
	return row.toEntity(), nil
}

func (r *TransactionRepositoryAdapter) Update(ctx context.Context, t *entity.Transaction) error {
	query := `
		UPDATE transactions
		SET payment_status = $2, payment_method = $3, reference = $4, delivery_status = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := exec(ctx, r.db).ExecContext(ctx, query,
		t.ID, string(t.PaymentStatus), string(t.PaymentMethod), t.Reference, string(t.DeliveryStatus), t.UpdatedAt,
	)
	if err != nil {
		return apperror.Internal(err, "не удалось обновить сделку")
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperror.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepositoryAdapter) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.BuyerID != nil {
		query += fmt.Sprintf(" AND buyer_id = $%d", argNum)
		args = append(args, *filter.BuyerID)
		argNum++
	}
	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argNum)
		args = append(args, *filter.OwnerID)
		argNum++
	}
	if filter.PaymentStatus != "" {
		query += fmt.Sprintf(" AND payment_status = $%d", argNum)
		args = append(args, filter.PaymentStatus)
	}
	query += " ORDER BY created_at DESC"

	var rows []transactionRow
	if err := exec(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Internal(err, "не удалось получить сделки")
	}
	result := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toEntity())
	}
	return result, nil
}

type transactionRow struct {
	ID             uuid.UUID `db:"id"`
	BidID          uuid.UUID `db:"bid_id"`
	ListingID      uuid.UUID `db:"listing_id"`
	BuyerID        uuid.UUID `db:"buyer_id"`
	OwnerID        uuid.UUID `db:"owner_id"`
	Amount         float64   `db:"amount"`
	PaymentStatus  string    `db:"payment_status"`
	PaymentMethod  string    `db:"payment_method"`
	Reference      *string   `db:"reference"`
	DeliveryStatus string    `db:"delivery_status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (t *transactionRow) toEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:             t.ID,
		BidID:          t.BidID,
		ListingID:      t.ListingID,
		BuyerID:        t.BuyerID,
		OwnerID:        t.OwnerID,
		Amount:         t.Amount,
		PaymentStatus:  valueobject.PaymentStatus(t.PaymentStatus),
		PaymentMethod:  valueobject.PaymentMethod(t.PaymentMethod),
		Reference:      t.Reference,
		DeliveryStatus: valueobject.DeliveryStatus(t.DeliveryStatus),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
