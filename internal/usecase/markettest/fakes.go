package markettest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
)

type Event struct {
	UserID  uuid.UUID
	Name    string
	Payload interface{}
}

// Notifier запоминает отправленные события.
type Notifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *Notifier) Notify(userID uuid.UUID, name string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Event{UserID: userID, Name: name, Payload: payload})
}

func (n *Notifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

// Oracle отдаёт заранее заданные ответы.
type Oracle struct {
	Price       *float64
	Forecast    *entity.PriceForecast
	Err         error
	ForecastErr error

	mu      sync.Mutex
	Queries []entity.PriceQuery
}

func (o *Oracle) RecommendPrice(_ context.Context, q entity.PriceQuery) (*float64, error) {
	o.mu.Lock()
	o.Queries = append(o.Queries, q)
	o.mu.Unlock()
	if o.Err != nil {
		return nil, o.Err
	}
	return o.Price, nil
}

func (o *Oracle) ForecastPrice(_ context.Context, crop, location string, horizonDays int) (*entity.PriceForecast, error) {
	if o.ForecastErr != nil {
		return nil, o.ForecastErr
	}
	return o.Forecast, nil
}

func Float(v float64) *float64 { return &v }

var (
	_ repository.Notifier    = (*Notifier)(nil)
	_ repository.PriceOracle = (*Oracle)(nil)
)
