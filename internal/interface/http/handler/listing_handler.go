package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/listing"
)

type ListingHandler struct {
	createListingUC  *listing.CreateListingUseCase
	queryListingsUC  *listing.QueryListingsUseCase
	getListingUC     *listing.GetListingDetailUseCase
	listMyListingsUC *listing.ListMyListingsUseCase
	listCropNamesUC  *listing.ListCropNamesUseCase
}

func NewListingHandler(
	createListingUC *listing.CreateListingUseCase,
	queryListingsUC *listing.QueryListingsUseCase,
	getListingUC *listing.GetListingDetailUseCase,
	listMyListingsUC *listing.ListMyListingsUseCase,
	listCropNamesUC *listing.ListCropNamesUseCase,
) *ListingHandler {
	return &ListingHandler{
		createListingUC:  createListingUC,
		queryListingsUC:  queryListingsUC,
		getListingUC:     getListingUC,
		listMyListingsUC: listMyListingsUC,
		listCropNamesUC:  listCropNamesUC,
	}
}

func (h *ListingHandler) CreateListing(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	attrs, err := req.ToAttrs()
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.createListingUC.Execute(c.Request.Context(), listing.CreateListingInput{
		OwnerID: userID,
		Attrs:   attrs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToCreateListingResponse(out))
}

// QueryListings обрабатывает GET /listings?search=&crop_name=&min_price=&max_price=&quality=&status=&page=&limit=
func (h *ListingHandler) QueryListings(c *gin.Context) {
	minPrice, err := parseFloatQuery(c, "min_price")
	if err != nil {
		response.BadRequest(c, "некорректный параметр min_price")
		return
	}
	maxPrice, err := parseFloatQuery(c, "max_price")
	if err != nil {
		response.BadRequest(c, "некорректный параметр max_price")
		return
	}

	page, err := h.queryListingsUC.Execute(c.Request.Context(), listing.QueryListingsInput{
		Search:   c.Query("search"),
		CropName: c.Query("crop_name"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Quality:  c.Query("quality"),
		Status:   c.Query("status"),
		Page:     parseIntQuery(c, "page", 1),
		Limit:    parseIntQuery(c, "limit", listing.DefaultPageSize),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	writeListingPage(c, page)
}

func (h *ListingHandler) ListMyListings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	page, err := h.listMyListingsUC.Execute(
		c.Request.Context(),
		userID,
		c.Query("status"),
		parseIntQuery(c, "page", 1),
		parseIntQuery(c, "limit", listing.DefaultPageSize),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	writeListingPage(c, page)
}

func (h *ListingHandler) GetListing(c *gin.Context) {
	detail, err := h.getListingUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToListingDetailResponse(detail))
}

func (h *ListingHandler) ListCropNames(c *gin.Context) {
	names, err := h.listCropNamesUC.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, names)
}

func writeListingPage(c *gin.Context, page *listing.ListingPage) {
	response.Paginated(c, dto.ToListingResponses(page.Items), response.Pagination{
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}
