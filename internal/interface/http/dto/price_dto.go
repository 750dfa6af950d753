package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
)

type PriceRecordResponse struct {
	ID         uuid.UUID `json:"id"`
	CropName   string    `json:"crop_name"`
	Price      float64   `json:"price"`
	Quality    string    `json:"quality"`
	Region     string    `json:"region"`
	MarketName string    `json:"market_name"`
	RecordedAt time.Time `json:"recorded_at"`
}

func ToPriceRecordResponses(records []*entity.PriceRecord) []PriceRecordResponse {
	out := make([]PriceRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, PriceRecordResponse{
			ID:         r.ID,
			CropName:   r.CropName,
			Price:      r.Price,
			Quality:    r.Quality,
			Region:     r.Region,
			MarketName: r.MarketName,
			RecordedAt: r.RecordedAt,
		})
	}
	return out
}

type SuggestPriceResponse struct {
	Crop           string   `json:"crop"`
	SuggestedPrice *float64 `json:"suggested_price"`
}

type PhotoResponse struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type MonthlyPriceResponse struct {
	Month        string  `json:"month"`
	AveragePrice float64 `json:"average_price"`
	Samples      int     `json:"samples"`
}

type PriceHistoryResponse struct {
	Crop    string                 `json:"crop"`
	Months  []MonthlyPriceResponse `json:"months"`
	Samples int                    `json:"samples"`
}

func ToPriceHistoryResponse(h *entity.PriceHistory) PriceHistoryResponse {
	months := make([]MonthlyPriceResponse, 0, len(h.Months))
	for _, m := range h.Months {
		months = append(months, MonthlyPriceResponse{Month: m.Month, AveragePrice: m.AveragePrice, Samples: m.Samples})
	}
	return PriceHistoryResponse{Crop: h.Crop, Months: months, Samples: h.Samples}
}
