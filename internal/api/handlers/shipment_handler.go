package handlers

import (
	"errors"
	"net/http"

	"marketplace-shipping-api/internal/models"
	"marketplace-shipping-api/internal/shipping"
	"marketplace-shipping-api/internal/store"

	"github.com/gin-gonic/gin"
)

type ShipmentHandler struct {
	Engine  *shipping.Engine
	Uploads *shipping.UploadService
}

// --- Request bodies ---

type CreateOrUpdateShipmentRequest struct {
	OrderID        string  `json:"order_id" binding:"required"`
	CourierName    string  `json:"courier_name"`
	TrackingNumber string  `json:"tracking_number"`
	ShippingMethod string  `json:"shipping_method"`
	ShippingCost   float64 `json:"shipping_cost"`
}

type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

type IssueUploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

type ConfirmUploadRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

// --- Handlers ---

// CreateOrUpdateShipment registers shipping info for an order. The first
// call creates the shipment at Pending; later calls update courier/tracking.
func (h *ShipmentHandler) CreateOrUpdateShipment(c *gin.Context) {
	actorID := c.GetString("user_id")

	var req CreateOrUpdateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shipment, err := h.Engine.CreateOrUpdateShipment(c.Request.Context(), actorID, shipping.CreateOrUpdateInput{
		OrderID:        req.OrderID,
		CourierName:    req.CourierName,
		TrackingNumber: req.TrackingNumber,
		ShippingMethod: req.ShippingMethod,
		ShippingCost:   req.ShippingCost,
	})
	if err != nil {
		writeShippingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shipment": shipment})
}

// UpdateStatus sets a shipment's status. An invalid status is rejected with
// the permitted set so the client can self-correct.
func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	actorID := c.GetString("user_id")
	shipmentID := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shipment, err := h.Engine.UpdateStatus(c.Request.Context(), actorID, shipmentID, req.Status, req.Message)
	if err != nil {
		writeShippingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shipment": shipment})
}

// IssueUploadURL returns a signed PUT URL for a proof-of-delivery upload.
func (h *ShipmentHandler) IssueUploadURL(c *gin.Context) {
	actorID := c.GetString("user_id")
	shipmentID := c.Param("id")

	var req IssueUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.Uploads.IssueUploadURL(c.Request.Context(), actorID, shipmentID, req.FileName, req.ContentType)
	if err != nil {
		writeShippingError(c, err)
		return
	}

	c.JSON(http.StatusOK, slot)
}

// ConfirmUpload attaches the uploaded proof to the shipment.
func (h *ShipmentHandler) ConfirmUpload(c *gin.Context) {
	actorID := c.GetString("user_id")
	shipmentID := c.Param("id")

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shipment, proofURL, err := h.Uploads.ConfirmUpload(c.Request.Context(), actorID, shipmentID, req.FilePath)
	if err != nil {
		writeShippingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shipment": shipment, "proof_url": proofURL})
}

// writeShippingError maps service errors onto the response contract shared
// by every shipping endpoint.
func writeShippingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shipping.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "Invalid status. Please use one of the valid statuses.",
			"validStatuses": models.ValidStatuses(),
		})
	case errors.Is(err, shipping.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
