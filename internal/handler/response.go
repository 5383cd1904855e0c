package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

// Response is the uniform envelope every endpoint returns. Count is
// only present on list responses.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

func respondMessageData(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// respondList always includes the count, and serializes an empty slice
// instead of null when there are no rows.
func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	c.JSON(http.StatusOK, Response{Success: true, Data: items, Count: &n})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
}

// respondError maps service sentinels onto the HTTP error taxonomy.
// Anything unmapped is an internal error and its detail stays out of
// the response body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Message: "resource not found"})
	case errors.Is(err, model.ErrAccessDenied):
		c.JSON(http.StatusForbidden, Response{Success: false, Message: "access denied"})
	case errors.Is(err, model.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "invalid email or password"})
	case errors.Is(err, model.ErrAccountInactive):
		c.JSON(http.StatusForbidden, Response{Success: false, Message: "account is deactivated"})
	case errors.Is(err, model.ErrEmailTaken):
		c.JSON(http.StatusConflict, Response{Success: false, Message: "email already registered"})
	case errors.Is(err, model.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, Response{Success: false, Message: "booking is already paid"})
	case errors.Is(err, model.ErrNotPaid):
		c.JSON(http.StatusConflict, Response{Success: false, Message: "booking is not paid"})
	case errors.Is(err, model.ErrInvalidTransition):
		c.JSON(http.StatusConflict, Response{Success: false, Message: err.Error()})
	case errors.Is(err, model.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "payment verification failed"})
	case errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "internal server error"})
	}
}
