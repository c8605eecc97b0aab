package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopfront/internal/session"
)

const (
	deviceTokenHeader = "X-Device-Token"
	sessionKey        = "shopfront.session"
)

// requestLogger writes one access log line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if sess, ok := sessionOf(c); ok {
			fields = append(fields, zap.String("device_id", sess.DeviceID()))
		}
		logger.Info("http request", fields...)
	}
}

// deviceMiddleware resolves the device token and attaches the device session.
func deviceMiddleware(devices deviceService, sessions sessionSource, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		deviceID, err := devices.Resolve(ctx, c.GetHeader(deviceTokenHeader))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		sess, err := sessions.Get(ctx, deviceID)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionOf(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}

func mustSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
