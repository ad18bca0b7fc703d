package response

import (
	"net/http"
	"time"

	deliverycontext "shoponline/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// Envelope is the shape of every JSON body the API returns.
type Envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Code      string    `json:"code,omitempty"`   // Machine-readable error code, e.g. "VALIDATION_FAILED"
	Data      any       `json:"data,omitempty"`   // Payload of a successful response
	Errors    any       `json:"errors,omitempty"` // Field-level detail, only for 400s
	Timestamp time.Time `json:"timestamp"`
	Meta      *MetaInfo `json:"meta,omitempty"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"requestId"` // Request tracking ID
}

func meta(c echo.Context) *MetaInfo {
	id := deliverycontext.GetRequestID(c)
	if id == "" {
		return nil
	}

	return &MetaInfo{RequestID: id}
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any, message string) error {
	return c.JSON(statusCode, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
		Meta:      meta(c),
	})
}

// OK returns a 200 success response
func OK(c echo.Context, data any, message string) error {
	return Success(c, http.StatusOK, data, message)
}

// Created returns a 201 success response
func Created(c echo.Context, data any, message string) error {
	return Success(c, http.StatusCreated, data, message)
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode string, message string, errors any) error {
	// Field details are only meaningful for rejected input
	if statusCode != http.StatusBadRequest {
		errors = nil
	}

	return c.JSON(statusCode, Envelope{
		Success:   false,
		Message:   message,
		Code:      errorCode,
		Errors:    errors,
		Timestamp: time.Now().UTC(),
		Meta:      meta(c),
	})
}

// BadRequest returns a 400 error
func BadRequest(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, nil)
}
