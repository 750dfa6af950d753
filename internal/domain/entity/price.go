package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/valueobject"
)

// PriceQuery — параметры запроса рекомендованной цены у оракула.
type PriceQuery struct {
	Crop     string
	Quality  string
	District string
	Quantity float64
}

type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

type PriceForecast struct {
	Crop        string          `json:"crop"`
	Location    string          `json:"location"`
	HorizonDays int             `json:"horizon_days"`
	Points      []ForecastPoint `json:"points"`
	Trend       string          `json:"trend,omitempty"`
	Confidence  *float64        `json:"confidence,omitempty"`
}

type PriceRecord struct {
	ID         uuid.UUID
	CropName   string
	Price      float64
	Quality    string
	Region     string
	MarketName string
	RecordedAt time.Time
}

// NewSalePriceRecord фиксирует цену завершённой сделки.
func NewSalePriceRecord(listing *Listing, tx *Transaction) *PriceRecord {
	return &PriceRecord{
		ID:         uuid.New(),
		CropName:   NormalizePriceCrop(listing.Name),
		Price:      tx.UnitPrice(listing.Quantity),
		Quality:    string(listing.QualityGrade),
		Region:     listing.Location.District,
		MarketName: "cropmarket",
		RecordedAt: time.Now(),
	}
}

// NormalizePriceCrop приводит название культуры к ключу price_history.
func NormalizePriceCrop(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type MonthlyPrice struct {
	Month        string
	AveragePrice float64
	Samples      int
}

type PriceHistory struct {
	Crop    string
	Months  []MonthlyPrice
	Samples int
}

const monthLayout = "2006-01"

// HistoryStart — первое число месяца, с которого начинается окно из months месяцев, включая текущий.
func HistoryStart(now time.Time, months int) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC)
}

// BuildMonthlyHistory усредняет цены по месяцам. Месяц без сделок наследует среднее предыдущего.
func BuildMonthlyHistory(crop string, records []*PriceRecord, now time.Time, months int) *PriceHistory {
	start := HistoryStart(now, months)

	type bucket struct {
		total float64
		count int
	}
	buckets := make(map[string]*bucket, months)
	labels := make([]string, 0, months)
	for i := 0; i < months; i++ {
		label := start.AddDate(0, i, 0).Format(monthLayout)
		buckets[label] = &bucket{}
		labels = append(labels, label)
	}

	history := &PriceHistory{Crop: crop, Months: make([]MonthlyPrice, 0, months)}
	for _, r := range records {
		b, ok := buckets[r.RecordedAt.UTC().Format(monthLayout)]
		if !ok {
			continue
		}
		b.total += r.Price
		b.count++
		history.Samples++
	}

	var prev float64
	for _, label := range labels {
		b := buckets[label]
		avg := prev
		if b.count > 0 {
			avg = valueobject.RoundPrice(b.total / float64(b.count))
		}
		history.Months = append(history.Months, MonthlyPrice{Month: label, AveragePrice: avg, Samples: b.count})
		prev = avg
	}
	return history
}
