package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/listing"
)

const dateLayout = "2006-01-02"

type LocationDTO struct {
	District     string   `json:"district"`
	AddressLine1 string   `json:"address_line1"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Pincode      string   `json:"pincode"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

type CreateListingRequest struct {
	Name         string      `json:"name"`
	Variety      string      `json:"variety"`
	Quantity     float64     `json:"quantity"`
	Unit         string      `json:"unit"`
	QualityGrade string      `json:"quality_grade"`
	MinPrice     float64     `json:"min_price"`
	CurrentPrice *float64    `json:"current_price"`
	Description  string      `json:"description"`
	Location     LocationDTO `json:"location"`
	Images       []string    `json:"images"`
	HarvestDate  *string     `json:"harvest_date"`
	ExpiryDate   *string     `json:"expiry_date"`
	BidEndDate   *string     `json:"bid_end_date"`
}

// ToAttrs переводит запрос в доменные атрибуты; даты принимаются как YYYY-MM-DD или RFC3339.
func (r CreateListingRequest) ToAttrs() (entity.ListingAttrs, error) {
	harvest, err := parseDate("harvest_date", r.HarvestDate)
	if err != nil {
		return entity.ListingAttrs{}, err
	}
	expiry, err := parseDate("expiry_date", r.ExpiryDate)
	if err != nil {
		return entity.ListingAttrs{}, err
	}
	bidEnd, err := parseDate("bid_end_date", r.BidEndDate)
	if err != nil {
		return entity.ListingAttrs{}, err
	}

	return entity.ListingAttrs{
		Name:         r.Name,
		Variety:      r.Variety,
		Quantity:     r.Quantity,
		Unit:         r.Unit,
		QualityGrade: r.QualityGrade,
		MinPrice:     r.MinPrice,
		CurrentPrice: r.CurrentPrice,
		Description:  r.Description,
		Location: entity.Location{
			District:     r.Location.District,
			AddressLine1: r.Location.AddressLine1,
			City:         r.Location.City,
			State:        r.Location.State,
			Pincode:      r.Location.Pincode,
			Lat:          r.Location.Lat,
			Lng:          r.Location.Lng,
		},
		Images:      r.Images,
		HarvestDate: harvest,
		ExpiryDate:  expiry,
		BidEndDate:  bidEnd,
	}, nil
}

func parseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, *raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, apperror.Validation("некорректная дата в поле " + field)
	}
	return &t, nil
}

type ListingResponse struct {
	ID           uuid.UUID   `json:"id"`
	OwnerID      uuid.UUID   `json:"owner_id"`
	Name         string      `json:"name"`
	Variety      string      `json:"variety"`
	Quantity     float64     `json:"quantity"`
	Unit         string      `json:"unit"`
	QualityGrade string      `json:"quality_grade"`
	MinPrice     float64     `json:"min_price"`
	CurrentPrice float64     `json:"current_price"`
	Description  string      `json:"description"`
	Location     LocationDTO `json:"location"`
	Images       []string    `json:"images"`
	HarvestDate  *time.Time  `json:"harvest_date"`
	ExpiryDate   *time.Time  `json:"expiry_date"`
	BidEndDate   *time.Time  `json:"bid_end_date"`
	Status       string      `json:"status"`
	BidCount     int         `json:"bid_count"`
	ViewCount    int         `json:"view_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func ToListingResponse(l *entity.Listing) ListingResponse {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return ListingResponse{
		ID:           l.ID,
		OwnerID:      l.OwnerID,
		Name:         l.Name,
		Variety:      l.Variety,
		Quantity:     l.Quantity,
		Unit:         string(l.Unit),
		QualityGrade: string(l.QualityGrade),
		MinPrice:     l.MinPrice,
		CurrentPrice: l.CurrentPrice,
		Description:  l.Description,
		Location: LocationDTO{
			District:     l.Location.District,
			AddressLine1: l.Location.AddressLine1,
			City:         l.Location.City,
			State:        l.Location.State,
			Pincode:      l.Location.Pincode,
			Lat:          l.Location.Lat,
			Lng:          l.Location.Lng,
		},
		Images:      images,
		HarvestDate: l.HarvestDate,
		ExpiryDate:  l.ExpiryDate,
		BidEndDate:  l.BidEndDate,
		Status:      string(l.Status),
		BidCount:    l.BidCount,
		ViewCount:   l.ViewCount,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func ToListingResponses(listings []*entity.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, ToListingResponse(l))
	}
	return out
}

type CreateListingResponse struct {
	Listing  ListingResponse       `json:"listing"`
	Forecast *entity.PriceForecast `json:"price_forecast"`
}

func ToCreateListingResponse(out *listing.CreateListingOutput) CreateListingResponse {
	return CreateListingResponse{
		Listing:  ToListingResponse(out.Listing),
		Forecast: out.Forecast,
	}
}

type ListingDetailResponse struct {
	ListingResponse
	TopBids []BidResponse     `json:"top_bids"`
	Similar []ListingResponse `json:"similar_listings"`
}

func ToListingDetailResponse(d *listing.ListingDetail) ListingDetailResponse {
	return ListingDetailResponse{
		ListingResponse: ToListingResponse(d.Listing),
		TopBids:         ToBidResponses(d.TopBids),
		Similar:         ToListingResponses(d.Similar),
	}
}
