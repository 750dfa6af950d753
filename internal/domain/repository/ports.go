package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
)

// TxManager выполняет fn в одной транзакции БД. Репозитории берут транзакцию из ctx.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PriceOracle — внешний сервис цен. nil без ошибки означает «нет сигнала».
type PriceOracle interface {
	RecommendPrice(ctx context.Context, q entity.PriceQuery) (*float64, error)
	ForecastPrice(ctx context.Context, crop, location string, horizonDays int) (*entity.PriceForecast, error)
}

const (
	EventBidPlaced          = "bid.placed"
	EventBidResolved        = "bid.resolved"
	EventTransactionCreated = "transaction.created"
	EventPaymentCompleted   = "payment.completed"
	EventDeliveryUpdated    = "delivery.updated"
)

// Notifier доставляет события пользователю после коммита.
type Notifier interface {
	Notify(userID uuid.UUID, event string, payload interface{})
}
