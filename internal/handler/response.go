package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/llamacto/llama-gin/internal/constants"
	apperrors "github.com/llamacto/llama-gin/internal/errors"
	"github.com/llamacto/llama-gin/pkg/logger"
	"github.com/llamacto/llama-gin/pkg/validation"
)

// responder writes envelopes. The status code always mirrors envelope.code.
type responder struct {
	exposeErrors bool
}

func (r responder) ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(data))
}

func (r responder) fail(ctx context.Context, c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)

	var data any
	if status >= http.StatusInternalServerError {
		logger.ErrorWithContext(ctx, "Request failed").
			String("path", c.Request.URL.Path).
			Err(err).
			Log()
		if r.exposeErrors {
			data = err.Error()
		}
	}

	c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err), data))
}

func (r responder) invalid(ctx context.Context, c *gin.Context, err error) {
	logger.WarnWithContext(ctx, "Invalid request").
		String("path", c.Request.URL.Path).
		Err(err).
		Log()
	c.JSON(http.StatusBadRequest,
		constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, validation.Messages(err)))
}
