package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/domain"
)

func (h *handler) listAddresses(c *gin.Context) {
	list, err := h.deps.Addresses.List(c.Request.Context(), mustSession(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": list})
}

func (h *handler) getAddress(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	addr, err := h.deps.Addresses.Get(c.Request.Context(), mustSession(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *handler) addAddress(c *gin.Context) {
	var req domain.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	addr, err := h.deps.Addresses.Add(c.Request.Context(), mustSession(c), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, addr)
}

func (h *handler) updateAddress(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	var req domain.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	req.ID = id
	addr, err := h.deps.Addresses.Update(c.Request.Context(), mustSession(c), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *handler) setDefaultAddress(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	addr, err := h.deps.Addresses.SetDefault(c.Request.Context(), mustSession(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *handler) deleteAddress(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if err := h.deps.Addresses.Delete(c.Request.Context(), mustSession(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
