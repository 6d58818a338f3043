package handlers

import (
	"errors"
	"net/http"

	"marketplace-shipping-api/internal/shipping"
	"marketplace-shipping-api/internal/store"

	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	Tracker *shipping.TrackingReader
}

// Track is the public, unauthenticated order tracking lookup. The optional
// email query parameter is advisory verification against the buyer's
// on-file address.
func (h *TrackingHandler) Track(c *gin.Context) {
	orderNumber := c.Query("orderNumber")
	if orderNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderNumber query parameter is required"})
		return
	}
	email := c.Query("email")

	result, err := h.Tracker.TrackByOrderNumber(c.Request.Context(), orderNumber, email)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "state": shipping.TrackingStateNotFound})
		case errors.Is(err, shipping.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Email does not match this order"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
