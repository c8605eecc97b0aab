package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/service/checkout"
)

type couponRequest struct {
	CouponCode string `json:"couponCode"`
}

type redirectRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *handler) listDiscounts(c *gin.Context) {
	rules, err := h.deps.Checkout.PriceRules(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"priceRules": rules})
}

func (h *handler) previewCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	quote, err := h.deps.Checkout.PreviewCoupon(c.Request.Context(), mustSession(c), req.CouponCode)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *handler) startPayment(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	ps, err := h.deps.Checkout.StartCardPayment(c.Request.Context(), mustSession(c), req.CouponCode)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, ps)
}

func (h *handler) resolveRedirect(c *gin.Context) {
	var req redirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": h.deps.Checkout.ResolveRedirect(req.URL)})
}

func (h *handler) placeOrder(c *gin.Context) {
	var req checkout.PlaceOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	order, err := h.deps.Checkout.PlaceOrder(c.Request.Context(), mustSession(c), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handler) listOrders(c *gin.Context) {
	orders, err := h.deps.Checkout.Orders(c.Request.Context(), mustSession(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *handler) getOrder(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	order, err := h.deps.Checkout.Order(c.Request.Context(), mustSession(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
