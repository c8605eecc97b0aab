package httpserver

import (
	"errors"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type handler struct {
	deps   Deps
	logger *zap.Logger
}

// buildRouter wires routes for the API. Surfaces whose service is nil are not mounted.
func buildRouter(logger *zap.Logger, db Pinger, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.Devices == nil || deps.Sessions == nil {
		return nil, errors.New("device and session services are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handler{deps: deps, logger: logger}
	router.POST("/devices", h.registerDevice)

	api := router.Group("/", deviceMiddleware(deps.Devices, deps.Sessions, logger))
	api.DELETE("/devices", h.revokeDevice)
	api.GET("/session", h.getSession)
	api.PATCH("/session/preferences", h.updatePreferences)
	api.PATCH("/session/flags", h.updateFlags)
	if deps.Customers != nil {
		api.POST("/session/login", h.login)
		api.POST("/session/logout", h.logout)
	}

	if deps.Catalog != nil {
		api.GET("/brands", h.listBrands)
		api.GET("/brands/:vendor/products", h.listBrandProducts)
		api.GET("/products/:id", h.getProduct)
	}

	if deps.Cart != nil {
		api.GET("/cart", h.getCart)
		api.DELETE("/cart", h.clearCart)
		api.GET("/cart/events", h.cartEvents)
		api.GET("/cart/state", h.cartState)
		api.POST("/cart/items", h.addCartItem)
		api.PATCH("/cart/items/:productId", h.updateCartItem)
		api.DELETE("/cart/items/:productId", h.removeCartItem)
	}

	if deps.Favorites != nil {
		api.GET("/favorites", h.listFavorites)
		api.POST("/favorites/items", h.addFavorite)
		api.GET("/favorites/items/:productId", h.isFavorite)
		api.DELETE("/favorites/items/:productId", h.removeFavorite)
		api.POST("/favorites/lookup", h.lookupFavorites)
	}

	if deps.Addresses != nil {
		api.GET("/addresses", h.listAddresses)
		api.POST("/addresses", h.addAddress)
		api.GET("/addresses/:id", h.getAddress)
		api.PUT("/addresses/:id", h.updateAddress)
		api.DELETE("/addresses/:id", h.deleteAddress)
		api.PUT("/addresses/:id/default", h.setDefaultAddress)
	}

	if deps.Checkout != nil {
		api.GET("/discounts", h.listDiscounts)
		api.POST("/checkout/coupon", h.previewCoupon)
		api.POST("/checkout/payment-session", h.startPayment)
		api.POST("/checkout/payment-session/redirect", h.resolveRedirect)
		api.POST("/orders", h.placeOrder)
		api.GET("/orders", h.listOrders)
		api.GET("/orders/:id", h.getOrder)
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", deviceTokenHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
