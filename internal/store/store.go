// Package store defines the persistence ports the shipping subsystem talks
// through, plus their MongoDB and in-memory implementations. Operations take
// and return the typed records from internal/models; every implementation
// maps its driver's "no rows" condition to ErrNotFound.
package store

import (
	"context"
	"errors"

	"marketplace-shipping-api/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ShipmentStore holds the current projection of each shipment.
type ShipmentStore interface {
	GetByID(ctx context.Context, shipmentID string) (*models.Shipment, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Shipment, error)
	Insert(ctx context.Context, s *models.Shipment) error
	Update(ctx context.Context, s *models.Shipment) error
}

// ShipmentEventStore is the append-only status event log. There is no
// update or delete on purpose.
type ShipmentEventStore interface {
	Append(ctx context.Context, e *models.ShipmentEvent) error
	ListByShipment(ctx context.Context, shipmentID string) ([]models.ShipmentEvent, error)
}

// OrderStore reads marketplace orders and writes back shipping fields.
type OrderStore interface {
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateShipping(ctx context.Context, orderID, method string, cost float64) error
}

// UserStore is the identity lookup. Roles are read through it at call time;
// they are never trusted from a token claim for ownership checks.
type UserStore interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
