// Package shipping implements the shipment lifecycle: the status state
// machine with its append-only event log, the proof-of-delivery upload
// protocol, and the public tracking projection. All persistence goes through
// the ports in internal/store so tests can run against in-memory fakes.
package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"marketplace-shipping-api/internal/metrics"
	"marketplace-shipping-api/internal/models"
	"marketplace-shipping-api/internal/store"
)

// StatusNotification is the payload handed to the notification dispatcher
// when a shipment reaches a buyer-facing status.
type StatusNotification struct {
	Template    string `json:"template"`
	Email       string `json:"to"`
	Name        string `json:"name"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
}

// Notifier dispatches buyer notifications. Implementations must be safe to
// call from a goroutine; the engine never waits on the result.
type Notifier interface {
	StatusChanged(ctx context.Context, n StatusNotification) error
}

// Broadcaster pushes a message to a connected user, if any. Matches the
// websocket hub's Send.
type Broadcaster interface {
	Send(userID string, message []byte) error
}

// Engine is the shipment lifecycle state machine.
type Engine struct {
	shipments store.ShipmentStore
	events    store.ShipmentEventStore
	orders    store.OrderStore
	users     store.UserStore
	gate      *Gate
	notifier  Notifier
	hub       Broadcaster
}

func NewEngine(shipments store.ShipmentStore, events store.ShipmentEventStore, orders store.OrderStore, users store.UserStore, gate *Gate, notifier Notifier, hub Broadcaster) *Engine {
	return &Engine{
		shipments: shipments,
		events:    events,
		orders:    orders,
		users:     users,
		gate:      gate,
		notifier:  notifier,
		hub:       hub,
	}
}

// CreateOrUpdateInput carries the seller-supplied shipping fields. Empty
// strings mean "not supplied"; courier and tracking number are free text.
type CreateOrUpdateInput struct {
	OrderID        string
	CourierName    string
	TrackingNumber string
	ShippingMethod string
	ShippingCost   float64
}

// CreateOrUpdateShipment registers shipping info for an order. The first
// call creates the shipment at Pending and logs a creation event; later
// calls only update the supplied courier/tracking fields and are not
// logged. Shipping method/cost, when supplied, are propagated onto the
// parent order.
func (e *Engine) CreateOrUpdateShipment(ctx context.Context, actorID string, input CreateOrUpdateInput) (*models.Shipment, error) {
	order, err := e.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if err := e.gate.CanManage(ctx, actorID, order.SellerID); err != nil {
		return nil, err
	}

	shipment, err := e.shipments.GetByOrderID(ctx, input.OrderID)
	if err != nil && err != store.ErrNotFound {
		return nil, err
	}

	if shipment == nil {
		shipment, err = models.NewShipment(order.OrderID, order.SellerID, order.BuyerID)
		if err != nil {
			return nil, err
		}
		shipment.CourierName = input.CourierName
		shipment.TrackingNumber = input.TrackingNumber
		if err := e.shipments.Insert(ctx, shipment); err != nil {
			return nil, err
		}
		event, err := models.NewShipmentEvent(shipment.ShipmentID, models.StatusPending, "Shipment created", actorID)
		if err != nil {
			return nil, err
		}
		if err := e.events.Append(ctx, event); err != nil {
			return nil, err
		}
	} else {
		// Courier/tracking edits are not logged to the event stream.
		if input.CourierName != "" {
			shipment.CourierName = input.CourierName
		}
		if input.TrackingNumber != "" {
			shipment.TrackingNumber = input.TrackingNumber
		}
		shipment.UpdatedAt = time.Now()
		if err := e.shipments.Update(ctx, shipment); err != nil {
			return nil, err
		}
	}

	if input.ShippingMethod != "" {
		if err := e.orders.UpdateShipping(ctx, order.OrderID, input.ShippingMethod, input.ShippingCost); err != nil {
			return nil, err
		}
	}

	return shipment, nil
}

// UpdateStatus sets a shipment's status and appends the matching event.
// Any status from the permitted set is accepted regardless of the current
// one; only membership is validated. Buyer notification for Dispatched,
// Out for Delivery and Delivered is dispatched in the background and its
// failure never affects the caller.
func (e *Engine) UpdateStatus(ctx context.Context, actorID, shipmentID, newStatus, message string) (*models.Shipment, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	shipment, err := e.shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if err := e.gate.CanManage(ctx, actorID, shipment.SellerID); err != nil {
		return nil, err
	}

	shipment.Status = newStatus
	shipment.UpdatedAt = time.Now()
	if err := e.shipments.Update(ctx, shipment); err != nil {
		return nil, err
	}

	if message == "" {
		message = fmt.Sprintf("Status updated to %s", newStatus)
	}
	event, err := models.NewShipmentEvent(shipment.ShipmentID, newStatus, message, actorID)
	if err != nil {
		return nil, err
	}
	if err := e.events.Append(ctx, event); err != nil {
		return nil, err
	}

	metrics.StatusUpdatesTotal.WithLabelValues(newStatus).Inc()
	e.broadcastStatus(shipment, message)

	if models.NotifiesBuyer(newStatus) && e.notifier != nil {
		go e.notifyBuyer(shipment.OrderID, newStatus)
	}

	return shipment, nil
}

// notifyBuyer runs detached from the request that triggered it. Failures
// are logged and counted, never surfaced.
func (e *Engine) notifyBuyer(orderID, status string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		log.Printf("notify: could not load order %s: %v", orderID, err)
		metrics.NotificationsFailedTotal.Inc()
		return
	}
	buyer, err := e.users.GetByID(ctx, order.BuyerID)
	if err != nil {
		log.Printf("notify: could not load buyer for order %s: %v", order.OrderNumber, err)
		metrics.NotificationsFailedTotal.Inc()
		return
	}

	err = e.notifier.StatusChanged(ctx, StatusNotification{
		Template:    models.NotificationTemplate(status),
		Email:       buyer.Email,
		Name:        buyer.DisplayName(),
		OrderNumber: order.OrderNumber,
		Status:      status,
	})
	if err != nil {
		log.Printf("notify: dispatch failed for order %s: %v", order.OrderNumber, err)
		metrics.NotificationsFailedTotal.Inc()
		return
	}
	metrics.NotificationsSentTotal.Inc()
}

func (e *Engine) broadcastStatus(shipment *models.Shipment, message string) {
	if e.hub == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"event":    "shipment_status_changed",
		"shipment": shipment,
		"message":  message,
	})
	e.hub.Send(shipment.SellerID, payload)
	e.hub.Send(shipment.BuyerID, payload)
}
