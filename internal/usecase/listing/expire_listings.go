package listing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/logger"
)

const expireBatchSize = 100

// ExpireListingsUseCase переводит выставленные объявления с истёкшим сроком в expired.
type ExpireListingsUseCase struct {
	txManager   repository.TxManager
	listingRepo repository.ListingRepository
}

func NewExpireListingsUseCase(txManager repository.TxManager, listingRepo repository.ListingRepository) *ExpireListingsUseCase {
	return &ExpireListingsUseCase{
		txManager:   txManager,
		listingRepo: listingRepo,
	}
}

// Execute обрабатывает одну пачку и возвращает число завершённых объявлений.
// Сбой по одному объявлению логируется и не останавливает остальные.
func (uc *ExpireListingsUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	ids, err := uc.listingRepo.FindExpirable(ctx, now, expireBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		done, err := uc.expireOne(ctx, id, now)
		if err != nil {
			logger.Warn(err, "не удалось завершить объявление", logrus.Fields{"listing_id": id})
			continue
		}
		if done {
			expired++
		}
	}
	return expired, nil
}

// Статус перепроверяется под блокировкой: ставку могли принять после выборки.
func (uc *ExpireListingsUseCase) expireOne(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	var done bool
	err := uc.txManager.WithinTx(ctx, func(ctx context.Context) error {
		l, err := uc.listingRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !l.DeadlinePassed(now) || l.Expire() != nil {
			return nil
		}
		if err := uc.listingRepo.UpdateStatus(ctx, id, l.Status); err != nil {
			return err
		}
		done = true
		return nil
	})
	return done, err
}

// Run запускает Execute каждые interval до отмены ctx.
func (uc *ExpireListingsUseCase) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			expired, err := uc.Execute(ctx, now)
			if err != nil {
				logger.Warn(err, "проверка сроков объявлений не удалась", nil)
				continue
			}
			if expired > 0 && logger.Log != nil {
				logger.Log.WithField("expired", expired).Info("объявления с истёкшим сроком завершены")
			}
		}
	}
}
