package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the API error type returned by services and rendered by handlers
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

var (
	ErrNotFound            = New("resource not found", http.StatusNotFound)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrInvalidPassword     = New("invalid email or password", http.StatusUnprocessableEntity)
	InActiveUserError      = errors.New("user inactive")
)

// New creates a new Error with the given message and status code
func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// GetUniqueContraintError maps a database unique constraint violation to a 400
func GetUniqueContraintError(err error) *Error {
	if strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return New("record already exists", http.StatusBadRequest)
	}
	return New(err.Error(), http.StatusBadRequest)
}

// ErrorHandler responds when the rate limiter rejects a request
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": fmt.Sprintf("too many requests, try again in %s", time.Until(info.ResetTime).String()),
		"status":  http.StatusTooManyRequests,
	})
	c.Abort()
}
