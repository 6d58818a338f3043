package shipping

import (
	"context"
	"strings"
	"time"

	"marketplace-shipping-api/internal/models"
	"marketplace-shipping-api/internal/store"
)

// Tracking states returned to the public lookup.
const (
	TrackingStateShipped       = "shipped"
	TrackingStateBeingPrepared = "being_prepared"
	TrackingStateNotFound      = "not_found"
)

// OrderSummary is the public slice of an order shown on the tracking page.
type OrderSummary struct {
	OrderNumber string    `json:"order_number"`
	Date        time.Time `json:"date"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	Seller      string    `json:"seller"`
	ItemTitle   string    `json:"item_title"`
}

// TrackingResult is the assembled read view for one order number.
type TrackingResult struct {
	State    string                 `json:"state"`
	Order    OrderSummary           `json:"order"`
	Shipment *models.Shipment       `json:"shipment"`
	Events   []models.ShipmentEvent `json:"shipment_events"`
}

// TrackingReader builds the unauthenticated tracking projection. Pure read,
// safe to call repeatedly.
type TrackingReader struct {
	orders    store.OrderStore
	shipments store.ShipmentStore
	events    store.ShipmentEventStore
	users     store.UserStore
}

func NewTrackingReader(orders store.OrderStore, shipments store.ShipmentStore, events store.ShipmentEventStore, users store.UserStore) *TrackingReader {
	return &TrackingReader{orders: orders, shipments: shipments, events: events, users: users}
}

// TrackByOrderNumber looks an order up by its human-facing number. The
// optional email is advisory identity verification only: when supplied it
// must match the buyer's on-file email case-insensitively, but omitting it
// returns full data — order numbers are treated as bearer tokens.
func (r *TrackingReader) TrackByOrderNumber(ctx context.Context, orderNumber, email string) (*TrackingResult, error) {
	order, err := r.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if email != "" {
		buyer, err := r.users.GetByID(ctx, order.BuyerID)
		if err == nil && buyer.Email != "" && !strings.EqualFold(buyer.Email, email) {
			return nil, ErrForbidden
		}
	}

	sellerName := "Seller"
	if seller, err := r.users.GetByID(ctx, order.SellerID); err == nil {
		sellerName = seller.DisplayName()
	}

	result := &TrackingResult{
		State: TrackingStateBeingPrepared,
		Order: OrderSummary{
			OrderNumber: order.OrderNumber,
			Date:        order.CreatedAt,
			Total:       order.Total,
			Status:      order.Status,
			Seller:      sellerName,
			ItemTitle:   order.ItemTitle,
		},
		Events: []models.ShipmentEvent{},
	}

	shipment, err := r.shipments.GetByOrderID(ctx, order.OrderID)
	if err != nil {
		if err == store.ErrNotFound {
			return result, nil
		}
		return nil, err
	}

	events, err := r.events.ListByShipment(ctx, shipment.ShipmentID)
	if err != nil {
		return nil, err
	}

	result.State = TrackingStateShipped
	result.Shipment = shipment
	result.Events = events
	return result, nil
}
