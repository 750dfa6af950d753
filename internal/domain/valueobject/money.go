package valueobject

import (
	"math"

	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
)

const DefaultCurrency = "INR"

// RoundPrice округляет цену до копеек (пайсов).
func RoundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

// PriceRange — фильтр по текущей цене объявления.
type PriceRange struct {
	Min *float64
	Max *float64
}

func NewPriceRange(min, max *float64) (PriceRange, error) {
	if (min != nil && *min < 0) || (max != nil && *max < 0) {
		return PriceRange{}, apperror.Validation("цена не может быть отрицательной")
	}
	if min != nil && max != nil && *min > *max {
		return PriceRange{}, apperror.Validation("минимальная цена не может превышать максимальную")
	}
	return PriceRange{Min: min, Max: max}, nil
}

func (r PriceRange) Contains(price float64) bool {
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}
