package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/cropmarket-backend/internal/config"
	"github.com/ignatzorin/cropmarket-backend/internal/http/middleware"
	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/handler"
	"github.com/ignatzorin/cropmarket-backend/internal/service"
)

// Handlers собирает HTTP обработчики всех модулей.
type Handlers struct {
	Listing     *handler.ListingHandler
	Bid         *handler.BidHandler
	Transaction *handler.TransactionHandler
	Price       *handler.PriceHandler
	Stats       *handler.StatsHandler
	Media       *handler.MediaHandler
	WS          *handler.WSHandler
	Health      *handler.HealthHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	tokenManager *service.TokenManager,
	limiterStore limiter.Store,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.Static(handler.MediaPrefix, cfg.MediaStoragePath)

	api := r.Group("/api")
	auth := middleware.AuthMiddleware(tokenManager)
	bidLimit := middleware.RateLimitMiddleware(limiterStore, "bids", cfg.RateLimitLimit, cfg.RateLimitPeriod)
	uploadLimit := middleware.RateLimitMiddleware(limiterStore, "uploads", cfg.RateLimitLimit, cfg.RateLimitPeriod)

	// Публичные маршруты
	api.GET("/listings", h.Listing.QueryListings)
	api.GET("/listings/names", h.Listing.ListCropNames)
	api.GET("/listings/:id", h.Listing.GetListing)
	api.GET("/prices/recent", h.Price.RecentPrices)
	api.GET("/prices/suggest", h.Price.SuggestPrice)
	api.GET("/prices/history", h.Price.PriceHistory)
	api.GET("/ws", h.WS.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(auth)
	{
		protected.POST("/listings", h.Listing.CreateListing)
		protected.GET("/my/listings", h.Listing.ListMyListings)

		protected.POST("/bids", bidLimit, h.Bid.PlaceBid)
		protected.POST("/bids/:id/resolve", middleware.UUIDValidator("id"), h.Bid.ResolveBid)
		protected.GET("/my/bids", h.Bid.ListMyBids)
		protected.GET("/bids/received", h.Bid.ListReceivedBids)

		protected.POST("/transactions", h.Transaction.CreateTransaction)
		protected.GET("/transactions", h.Transaction.ListTransactions)
		protected.GET("/transactions/:id", middleware.UUIDValidator("id"), h.Transaction.GetTransaction)
		protected.POST("/transactions/:id/pay", middleware.UUIDValidator("id"), h.Transaction.ProcessPayment)
		protected.PATCH("/transactions/:id/delivery", middleware.UUIDValidator("id"), h.Transaction.UpdateDelivery)

		protected.GET("/my/stats/farmer", h.Stats.FarmerStats)
		protected.GET("/my/stats/buyer", h.Stats.BuyerStats)

		protected.POST("/media/photos", uploadLimit, h.Media.UploadPhoto)
	}

	return r
}
