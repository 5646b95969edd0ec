package constants

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Envelope is the single response shape returned by every endpoint.
type Envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// Pagination Parameters Struct
type PaginationParams struct {
	Skip  int
	Limit int
}

// ParsePaginationParams parses skip/limit query parameters, clamping them to the allowed range.
func ParsePaginationParams(c *gin.Context) PaginationParams {
	skip, err := strconv.Atoi(c.DefaultQuery(QueryParamSkip, DefaultSkip))
	if err != nil || skip < MinSkip {
		skip = MinSkip
	}

	limit, err := strconv.Atoi(c.DefaultQuery(QueryParamLimit, DefaultLimit))
	if err != nil {
		limit, _ = strconv.Atoi(DefaultLimit)
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Skip:  skip,
		Limit: limit,
	}
}

// Response Format Functions
func BuildSuccessResponse(data any) Envelope {
	return Envelope{
		Code: http.StatusOK,
		Msg:  MsgSuccess,
		Data: data,
	}
}

func BuildErrorResponse(code int, message string, data any) Envelope {
	return Envelope{
		Code: code,
		Msg:  message,
		Data: data,
	}
}
