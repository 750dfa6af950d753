package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/price"
)

type PriceHandler struct {
	recentUC  *price.RecentPricesUseCase
	suggestUC *price.SuggestPriceUseCase
	historyUC *price.PriceHistoryUseCase
}

func NewPriceHandler(
	recentUC *price.RecentPricesUseCase,
	suggestUC *price.SuggestPriceUseCase,
	historyUC *price.PriceHistoryUseCase,
) *PriceHandler {
	return &PriceHandler{recentUC: recentUC, suggestUC: suggestUC, historyUC: historyUC}
}

func (h *PriceHandler) RecentPrices(c *gin.Context) {
	records, err := h.recentUC.Execute(c.Request.Context(), parseIntQuery(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPriceRecordResponses(records))
}

// SuggestPrice обрабатывает GET /prices/suggest?crop=&quality=&district=&quantity=
func (h *PriceHandler) SuggestPrice(c *gin.Context) {
	quantity, err := parseFloatQuery(c, "quantity")
	if err != nil {
		response.BadRequest(c, "некорректный параметр quantity")
		return
	}

	q := entity.PriceQuery{
		Crop:     c.Query("crop"),
		Quality:  c.Query("quality"),
		District: c.Query("district"),
	}
	if quantity != nil {
		q.Quantity = *quantity
	}

	suggested, err := h.suggestUC.Execute(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.SuggestPriceResponse{Crop: q.Crop, SuggestedPrice: suggested})
}

// PriceHistory обрабатывает GET /prices/history?crop=
func (h *PriceHandler) PriceHistory(c *gin.Context) {
	history, err := h.historyUC.Execute(c.Request.Context(), c.Query("crop"), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPriceHistoryResponse(history))
}
