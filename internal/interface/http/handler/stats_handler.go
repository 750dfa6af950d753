package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/stats"
)

// StatsHandler отдаёт сводки для кабинетов продавца и покупателя.
type StatsHandler struct {
	farmerUC *stats.FarmerStatsUseCase
	buyerUC  *stats.BuyerStatsUseCase
}

func NewStatsHandler(farmerUC *stats.FarmerStatsUseCase, buyerUC *stats.BuyerStatsUseCase) *StatsHandler {
	return &StatsHandler{farmerUC: farmerUC, buyerUC: buyerUC}
}

func (h *StatsHandler) FarmerStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	s, err := h.farmerUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToFarmerStatsResponse(s))
}

func (h *StatsHandler) BuyerStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	s, err := h.buyerUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBuyerStatsResponse(s))
}
