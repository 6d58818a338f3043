package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShipmentEvent is one append-only log entry for a shipment. Events are
// immutable once written; there is no update or delete path. The status
// field carries whatever label was current at write time ("Pending" on
// creation, a status value on updates, unchanged on proof uploads) and is
// deliberately not constrained to the status enum.
type ShipmentEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EventID    string             `bson:"eventID" json:"id"`
	ShipmentID string             `bson:"shipmentID" json:"shipment_id"`
	Status     string             `bson:"status" json:"status"`
	Message    string             `bson:"message,omitempty" json:"message,omitempty"`
	ChangedBy  string             `bson:"changedBy" json:"changed_by"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
}

// NewShipmentEvent builds a log entry for a shipment.
func NewShipmentEvent(shipmentID, status, message, changedBy string) (*ShipmentEvent, error) {
	if shipmentID == "" {
		return nil, errors.New("shipment event requires a shipment id")
	}
	if status == "" {
		return nil, errors.New("shipment event requires a status label")
	}
	return &ShipmentEvent{
		EventID:    uuid.New().String(),
		ShipmentID: shipmentID,
		Status:     status,
		Message:    message,
		ChangedBy:  changedBy,
		CreatedAt:  time.Now(),
	}, nil
}
