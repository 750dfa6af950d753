package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
)

type TransactionRepository interface {
	// Create возвращает apperror с кодом CONFLICT, если сделка по ставке уже есть.
	Create(ctx context.Context, tx *entity.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// FindByBidID возвращает nil, nil если сделки нет.
	FindByBidID(ctx context.Context, bidID uuid.UUID) (*entity.Transaction, error)
	Update(ctx context.Context, tx *entity.Transaction) error
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
}

type TransactionFilter struct {
	BuyerID       *uuid.UUID
	OwnerID       *uuid.UUID
	PaymentStatus string
}

type PriceHistoryRepository interface {
	Append(ctx context.Context, record *entity.PriceRecord) error
	// Recent возвращает последнюю запись по каждой культуре, новые первыми.
	Recent(ctx context.Context, limit int) ([]*entity.PriceRecord, error)
	// FindSince возвращает записи культуры начиная с from, старые первыми.
	FindSince(ctx context.Context, cropName string, from time.Time) ([]*entity.PriceRecord, error)
}
