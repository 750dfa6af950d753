package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/bid"
)

type BidHandler struct {
	placeBidUC     *bid.PlaceBidUseCase
	resolveBidUC   *bid.ResolveBidUseCase
	listBuyerUC    *bid.ListBuyerBidsUseCase
	listReceivedUC *bid.ListReceivedBidsUseCase
}

func NewBidHandler(
	placeBidUC *bid.PlaceBidUseCase,
	resolveBidUC *bid.ResolveBidUseCase,
	listBuyerUC *bid.ListBuyerBidsUseCase,
	listReceivedUC *bid.ListReceivedBidsUseCase,
) *BidHandler {
	return &BidHandler{
		placeBidUC:     placeBidUC,
		resolveBidUC:   resolveBidUC,
		listBuyerUC:    listBuyerUC,
		listReceivedUC: listReceivedUC,
	}
}

func (h *BidHandler) PlaceBid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		response.BadRequest(c, "некорректный ID объявления")
		return
	}

	placed, err := h.placeBidUC.Execute(c.Request.Context(), bid.PlaceBidInput{
		BidderID:  userID,
		ListingID: listingID,
		Amount:    req.Amount,
		Message:   req.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToBidResponse(placed))
}

func (h *BidHandler) ResolveBid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	bidID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID ставки")
		return
	}

	var req dto.ResolveBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	resolved, err := h.resolveBidUC.Execute(c.Request.Context(), bid.ResolveBidInput{
		OwnerID:        userID,
		BidID:          bidID,
		Action:         req.Action,
		CounterAmount:  req.CounterAmount,
		CounterMessage: req.CounterMessage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBidResponse(resolved))
}

func (h *BidHandler) ListMyBids(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	bids, err := h.listBuyerUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBidResponses(bids))
}

// ListReceivedBids обрабатывает GET /bids/received?status=pending|accepted|rejected|countered|all
func (h *BidHandler) ListReceivedBids(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	bids, err := h.listReceivedUC.Execute(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBidResponses(bids))
}
