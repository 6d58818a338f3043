package shipping_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-shipping-api/internal/models"
	"marketplace-shipping-api/internal/shipping"
	"marketplace-shipping-api/internal/store"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls []shipping.StatusNotification
	err   error
}

func (f *fakeNotifier) StatusChanged(_ context.Context, n shipping.StatusNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, n)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeNotifier) last() shipping.StatusNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type testEnv struct {
	stores   *store.MemoryStores
	notifier *fakeNotifier
	engine   *shipping.Engine
}

const (
	sellerID      = "seller-1"
	buyerID       = "buyer-1"
	adminID       = "admin-1"
	otherSellerID = "seller-2"
	orderID       = "ORD-1001"
	orderNumber   = "MP-2024-1001"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	stores := store.NewMemoryStores()

	stores.Users.Put(models.User{UserID: sellerID, Email: "seller@example.com", FirstName: "Sam", LastName: "Vendor", Role: models.RoleSeller, Status: "active"})
	stores.Users.Put(models.User{UserID: buyerID, Email: "buyer@example.com", FirstName: "Billie", LastName: "Buyer", Role: models.RoleBuyer, Status: "active"})
	stores.Users.Put(models.User{UserID: adminID, Email: "admin@example.com", FirstName: "Ada", LastName: "Admin", Role: models.RoleAdmin, Status: "active"})
	stores.Users.Put(models.User{UserID: otherSellerID, Email: "other@example.com", FirstName: "Olga", LastName: "Other", Role: models.RoleSeller, Status: "active"})

	stores.Orders.Put(models.Order{
		OrderID:     orderID,
		OrderNumber: orderNumber,
		SellerID:    sellerID,
		BuyerID:     buyerID,
		ItemTitle:   "Vintage lamp",
		Total:       84.50,
		Status:      "paid",
		CreatedAt:   time.Now().Add(-24 * time.Hour),
	})

	notifier := &fakeNotifier{}
	gate := shipping.NewGate(stores.Users)
	engine := shipping.NewEngine(stores.Shipments, stores.Events, stores.Orders, stores.Users, gate, notifier, nil)

	return &testEnv{stores: stores, notifier: notifier, engine: engine}
}

func (e *testEnv) createShipment(t *testing.T) *models.Shipment {
	t.Helper()
	shipment, err := e.engine.CreateOrUpdateShipment(context.Background(), sellerID, shipping.CreateOrUpdateInput{OrderID: orderID})
	require.NoError(t, err)
	return shipment
}

func TestCreateShipmentRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	created := env.createShipment(t)
	require.NotEmpty(t, created.ShipmentID)

	fetched, err := env.stores.Shipments.GetByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, fetched.Status)
	assert.Equal(t, sellerID, fetched.SellerID)
	assert.Equal(t, buyerID, fetched.BuyerID)

	events, err := env.stores.Events.ListByShipment(context.Background(), created.ShipmentID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.StatusPending, events[0].Status)
	assert.Equal(t, "Shipment created", events[0].Message)
	assert.Equal(t, sellerID, events[0].ChangedBy)
}

func TestCreateOrUpdateIsIdempotentPerOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.engine.CreateOrUpdateShipment(ctx, sellerID, shipping.CreateOrUpdateInput{
		OrderID:     orderID,
		CourierName: "DHL",
	})
	require.NoError(t, err)

	second, err := env.engine.CreateOrUpdateShipment(ctx, sellerID, shipping.CreateOrUpdateInput{
		OrderID:     orderID,
		CourierName: "UPS",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ShipmentID, second.ShipmentID)
	assert.Equal(t, "UPS", second.CourierName)
	assert.Equal(t, 1, env.stores.Shipments.Count())

	// Courier edits are not logged; only the creation event exists.
	events, err := env.stores.Events.ListByShipment(ctx, first.ShipmentID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestCreateOrUpdateKeepsUnsuppliedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.CreateOrUpdateShipment(ctx, sellerID, shipping.CreateOrUpdateInput{
		OrderID:        orderID,
		CourierName:    "DHL",
		TrackingNumber: "DHL-123",
	})
	require.NoError(t, err)

	updated, err := env.engine.CreateOrUpdateShipment(ctx, sellerID, shipping.CreateOrUpdateInput{
		OrderID:     orderID,
		CourierName: "UPS",
	})
	require.NoError(t, err)
	assert.Equal(t, "UPS", updated.CourierName)
	assert.Equal(t, "DHL-123", updated.TrackingNumber)
	assert.Equal(t, models.StatusPending, updated.Status)
}

func TestCreateOrUpdatePropagatesShippingOntoOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.CreateOrUpdateShipment(ctx, sellerID, shipping.CreateOrUpdateInput{
		OrderID:        orderID,
		ShippingMethod: "express",
		ShippingCost:   12.90,
	})
	require.NoError(t, err)

	order, err := env.stores.Orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "express", order.ShippingMethod)
	assert.Equal(t, 12.90, order.ShippingCost)
}

func TestCreateOrUpdateUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.CreateOrUpdateShipment(context.Background(), sellerID, shipping.CreateOrUpdateInput{OrderID: "ORD-missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	shipment := env.createShipment(t)

	for _, bad := range []string{"Shipped", "pending", "DELIVERED", "", "On Hold"} {
		_, err := env.engine.UpdateStatus(ctx, sellerID, shipment.ShipmentID, bad, "")
		assert.ErrorIs(t, err, shipping.ErrInvalidStatus, "status %q should be rejected", bad)
	}

	// Neither the projection nor the log moved.
	unchanged, err := env.stores.Shipments.GetByID(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, unchanged.Status)

	events, err := env.stores.Events.ListByShipment(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestUpdateStatusAppendsOneEventPerCall(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	shipment := env.createShipment(t)

	sequence := []string{
		models.StatusProcessing,
		models.StatusInTransit,
		models.StatusReturned,
		// Moving backward is allowed; only set membership is checked.
		models.StatusPending,
		models.StatusDeliveryFailed,
	}
	for _, status := range sequence {
		_, err := env.engine.UpdateStatus(ctx, sellerID, shipment.ShipmentID, status, "")
		require.NoError(t, err)
	}

	final, err := env.stores.Shipments.GetByID(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeliveryFailed, final.Status)

	events, err := env.stores.Events.ListByShipment(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	// Creation event plus one per update.
	require.Len(t, events, len(sequence)+1)
	assert.Equal(t, models.StatusDeliveryFailed, events[len(events)-1].Status)
	assert.Equal(t, "Status updated to Delivery Failed", events[len(events)-1].Message)
}

func TestUpdateStatusUsesSuppliedMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	shipment := env.createShipment(t)

	_, err := env.engine.UpdateStatus(ctx, sellerID, shipment.ShipmentID, models.StatusProcessing, "Packed and labeled")
	require.NoError(t, err)

	events, err := env.stores.Events.ListByShipment(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	assert.Equal(t, "Packed and labeled", events[len(events)-1].Message)
}

func TestAuthorizationBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	shipment := env.createShipment(t)

	// A seller who does not own the order cannot touch it.
	_, err := env.engine.CreateOrUpdateShipment(ctx, otherSellerID, shipping.CreateOrUpdateInput{OrderID: orderID})
	assert.ErrorIs(t, err, shipping.ErrForbidden)

	_, err = env.engine.UpdateStatus(ctx, otherSellerID, shipment.ShipmentID, models.StatusDispatched, "")
	assert.ErrorIs(t, err, shipping.ErrForbidden)

	// Nothing changed.
	unchanged, err := env.stores.Shipments.GetByID(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, unchanged.Status)
	events, err := env.stores.Events.ListByShipment(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, 0, env.notifier.count())

	// Admins can manage any shipment.
	_, err = env.engine.UpdateStatus(ctx, adminID, shipment.ShipmentID, models.StatusProcessing, "")
	assert.NoError(t, err)
}

func TestNotificationGating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	shipment := env.createShipment(t)

	_, err := env.engine.UpdateStatus(ctx, sellerID, shipment.ShipmentID, models.StatusProcessing, "")
	require.NoError(t, err)
	assert.Never(t, func() bool { return env.notifier.count() > 0 }, 100*time.Millisecond, 10*time.Millisecond,
		"Processing must not notify the buyer")

	_, err = env.engine.UpdateStatus(ctx, sellerID, shipment.ShipmentID, models.StatusDispatched, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return env.notifier.count() == 1 }, time.Second, 10*time.Millisecond)

	sent := env.notifier.last()
	assert.Equal(t, "order_shipped", sent.Template)
	assert.Equal(t, "buyer@example.com", sent.Email)
	assert.Equal(t, orderNumber, sent.OrderNumber)

	_, err = env.engine.UpdateStatus(ctx, sellerID, shipment.ShipmentID, models.StatusOutForDelivery, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return env.notifier.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "order_shipped", env.notifier.last().Template)

	_, err = env.engine.UpdateStatus(ctx, sellerID, shipment.ShipmentID, models.StatusDelivered, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return env.notifier.count() == 3 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "order_delivered", env.notifier.last().Template)
}

func TestNotificationFailureDoesNotFailUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	shipment := env.createShipment(t)
	env.notifier.err = errors.New("smtp relay down")

	updated, err := env.engine.UpdateStatus(ctx, sellerID, shipment.ShipmentID, models.StatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)

	// The dispatch attempt still happened, its failure was swallowed.
	require.Eventually(t, func() bool { return env.notifier.count() == 1 }, time.Second, 10*time.Millisecond)

	stored, err := env.stores.Shipments.GetByID(ctx, shipment.ShipmentID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, stored.Status)
}
