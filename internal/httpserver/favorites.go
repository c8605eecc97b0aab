package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type favoriteRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

type lookupRequest struct {
	ProductIDs []int64 `json:"productIds" binding:"required"`
}

func (h *handler) listFavorites(c *gin.Context) {
	favs, err := h.deps.Favorites.List(c.Request.Context(), mustSession(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, favs)
}

func (h *handler) addFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	favs, err := h.deps.Favorites.Add(c.Request.Context(), mustSession(c), req.ProductID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, favs)
}

func (h *handler) removeFavorite(c *gin.Context) {
	productID, err := idParam(c, "productId")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	favs, err := h.deps.Favorites.Remove(c.Request.Context(), mustSession(c), productID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, favs)
}

func (h *handler) isFavorite(c *gin.Context) {
	productID, err := idParam(c, "productId")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	fav, err := h.deps.Favorites.IsFavorite(c.Request.Context(), mustSession(c), productID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": productID, "favorite": fav})
}

func (h *handler) lookupFavorites(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	members, err := h.deps.Favorites.Membership(c.Request.Context(), mustSession(c), req.ProductIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": members})
}
