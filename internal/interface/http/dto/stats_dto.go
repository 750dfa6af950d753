package dto

import "github.com/ignatzorin/cropmarket-backend/internal/domain/entity"

type FarmerStatsResponse struct {
	ActiveListings int     `json:"active_listings"`
	TotalSales     int     `json:"total_sales"`
	Earnings       float64 `json:"earnings"`
	PendingBids    int     `json:"pending_bids"`
}

func ToFarmerStatsResponse(s *entity.FarmerStats) FarmerStatsResponse {
	return FarmerStatsResponse{
		ActiveListings: s.ActiveListings,
		TotalSales:     s.TotalSales,
		Earnings:       s.Earnings,
		PendingBids:    s.PendingBids,
	}
}

type BuyerStatsResponse struct {
	ActiveBids         int     `json:"active_bids"`
	CompletedPurchases int     `json:"completed_purchases"`
	TotalSpent         float64 `json:"total_spent"`
}

func ToBuyerStatsResponse(s *entity.BuyerStats) BuyerStatsResponse {
	return BuyerStatsResponse{
		ActiveBids:         s.ActiveBids,
		CompletedPurchases: s.CompletedPurchases,
		TotalSpent:         s.TotalSpent,
	}
}
