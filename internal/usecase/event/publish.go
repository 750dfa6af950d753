package event

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/logger"
)

// Publish отправляет событие после коммита. Сбой доставки не влияет на результат операции.
func Publish(n repository.Notifier, userID uuid.UUID, name string, payload interface{}) {
	if n == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"event":   name,
				"user_id": userID,
			}).Errorf("panic при отправке события: %v", r)
		}
	}()
	n.Notify(userID, name, payload)
}
