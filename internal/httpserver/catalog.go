package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) listBrands(c *gin.Context) {
	brands, err := h.deps.Catalog.Brands(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

func (h *handler) listBrandProducts(c *gin.Context) {
	products, err := h.deps.Catalog.BrandProducts(c.Request.Context(), mustSession(c), c.Param("vendor"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handler) getProduct(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	product, err := h.deps.Catalog.Product(c.Request.Context(), mustSession(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
