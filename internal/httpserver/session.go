package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopfront/internal/domain"
	"shopfront/internal/session"
)

type loginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type loginResponse struct {
	Customer domain.Customer `json:"customer"`
	Session  session.State   `json:"session"`
}

func (h *handler) registerDevice(c *gin.Context) {
	reg, err := h.deps.Devices.Issue(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// revokeDevice invalidates the presented token. The device's stored state is kept.
func (h *handler) revokeDevice(c *gin.Context) {
	if err := h.deps.Devices.Revoke(c.Request.Context(), c.GetHeader(deviceTokenHeader)); err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.deps.Sessions.Forget(mustSession(c).DeviceID())
	c.Status(http.StatusNoContent)
}

func (h *handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, mustSession(c).Snapshot())
}

func (h *handler) updatePreferences(c *gin.Context) {
	var req session.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	sess := mustSession(c)
	if err := sess.SetPreferences(c.Request.Context(), req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (h *handler) updateFlags(c *gin.Context) {
	var req session.Flags
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	sess := mustSession(c)
	if err := sess.SetFlags(c.Request.Context(), req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, invalidBody(err))
		return
	}
	sess := mustSession(c)
	cust, err := h.deps.Customers.Login(c.Request.Context(), sess, req.IDToken)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Customer: cust, Session: sess.Snapshot()})
}

func (h *handler) logout(c *gin.Context) {
	sess := mustSession(c)
	if err := h.deps.Customers.Logout(c.Request.Context(), sess); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, name+" must be a positive integer")
	}
	return id, nil
}
