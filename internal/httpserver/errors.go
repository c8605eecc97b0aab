package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopfront/internal/domain"
	"shopfront/internal/state"
)

const (
	msgRateLimited = "Too many requests, please slow down and try again."
	msgNetwork     = "The store is unreachable right now, please try again."
	msgInternal    = "Something went wrong, please try again."
	msgNotFound    = "The requested item was not found."
)

type errorBody struct {
	Kind    domain.Kind `json:"kind"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func statusOf(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindNetwork:
		return http.StatusBadGateway
	case domain.KindPayment:
		return http.StatusPaymentRequired
	case domain.KindBusiness:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// bodyOf normalizes err into what a client is shown. Remote failure details never leak.
func bodyOf(err error) errorBody {
	kind := domain.KindOf(err)
	body := errorBody{Kind: kind}
	switch kind {
	case domain.KindRateLimited:
		body.Message = msgRateLimited
		return body
	case domain.KindNetwork:
		body.Message = msgNetwork
		return body
	case domain.KindInternal:
		body.Message = msgInternal
		return body
	}
	var de *domain.Error
	if errors.As(err, &de) {
		body.Message = de.Message
		body.Field = de.Field
	}
	if body.Message == "" && kind == domain.KindNotFound {
		body.Message = msgNotFound
	}
	if body.Message == "" {
		body.Message = err.Error()
	}
	return body
}

func writeError(c *gin.Context, logger *zap.Logger, err error) {
	body := bodyOf(err)
	status := statusOf(body.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.String("kind", string(body.Kind)), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: body})
}

// resultView rewrites the error of a published failure into its client-facing form.
func resultView[T any](r state.Result[T]) state.Result[T] {
	if r.Err != nil {
		body := bodyOf(r.Err)
		r.Error = &state.ErrorView{Kind: body.Kind, Message: body.Message}
	}
	return r
}

func invalidBody(err error) error {
	return domain.WrapKind(domain.KindValidation, err, "invalid request body")
}
