// Package rest exposes the HTTP API with gin.
package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/logging"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

func newErrorResponse(c *gin.Context, detail string) ErrorResponse {
	return ErrorResponse{Detail: detail, RequestID: logging.RequestIDFromContext(c.Request.Context())}
}

// ErrorCase maps a sentinel error to a status code and message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// commonCases apply to every handler after its own cases.
var commonCases = []ErrorCase{
	{Err: common.ErrorValidation, Status: http.StatusBadRequest},
	{Err: common.ErrRateLimited, Status: http.StatusTooManyRequests, Message: "too many requests, try again later"},
	{Err: common.ErrStoreUnavailable, Status: http.StatusServiceUnavailable, Message: "service temporarily unavailable"},
}

// RespondWithMappedError writes the first case err matches, or a 500. An empty
// Message means the error text itself is safe to show.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase) {
	for _, cs := range append(cases, commonCases...) {
		if errors.Is(err, cs.Err) {
			msg := cs.Message
			if msg == "" {
				msg = err.Error()
			}
			c.JSON(cs.Status, newErrorResponse(c, msg))
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, newErrorResponse(c, "internal server error"))
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, newErrorResponse(c, detail))
}
