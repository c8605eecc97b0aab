package httpserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	VariantID int64 `json:"variantId"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *handler) getCart(c *gin.Context) {
	cart, err := h.deps.Cart.Get(c.Request.Context(), mustSession(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	cart, err := h.deps.Cart.Add(c.Request.Context(), mustSession(c), req.ProductID, req.VariantID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handler) updateCartItem(c *gin.Context) {
	productID, err := idParam(c, "productId")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	cart, err := h.deps.Cart.UpdateQuantity(c.Request.Context(), mustSession(c), productID, *req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handler) removeCartItem(c *gin.Context) {
	productID, err := idParam(c, "productId")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	cart, err := h.deps.Cart.Remove(c.Request.Context(), mustSession(c), productID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handler) clearCart(c *gin.Context) {
	cart, err := h.deps.Cart.Clear(c.Request.Context(), mustSession(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// cartState returns the latest published cart result without touching the backend.
func (h *handler) cartState(c *gin.Context) {
	r, ok := h.deps.Cart.States(mustSession(c).DeviceID()).Current()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resultView(r))
}

// cartEvents streams every published cart result of the device until the client goes away.
func (h *handler) cartEvents(c *gin.Context) {
	updates, cancel := h.deps.Cart.States(mustSession(c).DeviceID()).Subscribe()
	defer cancel()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case r, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("cart", resultView(r))
			return true
		}
	})
}
