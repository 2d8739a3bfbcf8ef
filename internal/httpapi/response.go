// Package httpapi exposes the concierge HTTP surface: bundle generation,
// watch management, deal listing, chat, the websocket event feed, health,
// and metrics — wrapping every JSON response as
// {success, data?, error?, trace_id}.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/iaros/concierge/internal/apperror"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
	TraceID string      `json:"trace_id"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return uuid.NewString()
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data, TraceID: traceID(c)})
}

func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, envelope{Success: false, Error: &errorBody{Code: code, Message: message}, TraceID: traceID(c)})
}

// failErr translates an apperror.Error (or any error) into the envelope,
// using the Error's own HTTP status and kind when available.
func failErr(c *gin.Context, err error) {
	if appErr, ok := err.(*apperror.Error); ok {
		fail(c, appErr.HTTPStatus, string(appErr.Kind), appErr.Message)
		return
	}
	fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}
