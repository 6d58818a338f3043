package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shipment statuses. Operators may set any status from this set regardless
// of the current one; only set membership is validated.
const (
	StatusPending        = "Pending"
	StatusProcessing     = "Processing"
	StatusDispatched     = "Dispatched"
	StatusInTransit      = "In Transit"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusReturned       = "Returned"
	StatusDeliveryFailed = "Delivery Failed"
)

var validStatuses = []string{
	StatusPending,
	StatusProcessing,
	StatusDispatched,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusReturned,
	StatusDeliveryFailed,
}

// ValidStatuses returns the permitted status set in display order.
func ValidStatuses() []string {
	out := make([]string, len(validStatuses))
	copy(out, validStatuses)
	return out
}

func IsValidStatus(s string) bool {
	for _, v := range validStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// NotifiesBuyer reports whether a transition to status s triggers a buyer
// notification.
func NotifiesBuyer(s string) bool {
	return s == StatusDispatched || s == StatusOutForDelivery || s == StatusDelivered
}

// NotificationTemplate picks the email template for a notifying status.
func NotificationTemplate(s string) string {
	if s == StatusDelivered {
		return "order_delivered"
	}
	return "order_shipped"
}

// Shipment is the per-order delivery record. There is at most one per order;
// callers look up by orderID before deciding to create or update.
type Shipment struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ShipmentID         string             `bson:"shipmentID" json:"id"`
	OrderID            string             `bson:"orderID" json:"order_id"`
	SellerID           string             `bson:"sellerID" json:"seller_id"`
	BuyerID            string             `bson:"buyerID" json:"buyer_id"`
	Status             string             `bson:"status" json:"status"`
	CourierName        string             `bson:"courierName,omitempty" json:"courier_name,omitempty"`
	TrackingNumber     string             `bson:"trackingNumber,omitempty" json:"tracking_number,omitempty"`
	ProofOfDeliveryURL string             `bson:"proofOfDeliveryURL,omitempty" json:"proof_of_delivery_url,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updated_at"`
}

// NewShipment builds a Pending shipment for an order, denormalizing the
// seller and buyer from the order at creation time.
func NewShipment(orderID, sellerID, buyerID string) (*Shipment, error) {
	if orderID == "" {
		return nil, errors.New("shipment requires an order id")
	}
	if sellerID == "" || buyerID == "" {
		return nil, errors.New("shipment requires seller and buyer ids")
	}
	now := time.Now()
	return &Shipment{
		ShipmentID: fmt.Sprintf("SHIP-%s", uuid.New().String()[:8]),
		OrderID:    orderID,
		SellerID:   sellerID,
		BuyerID:    buyerID,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
