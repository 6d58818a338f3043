package shipping_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-shipping-api/internal/models"
	"marketplace-shipping-api/internal/shipping"
	"marketplace-shipping-api/internal/store"
)

func newTracker(env *testEnv) *shipping.TrackingReader {
	return shipping.NewTrackingReader(env.stores.Orders, env.stores.Shipments, env.stores.Events, env.stores.Users)
}

func TestTrackOrderWithoutShipment(t *testing.T) {
	env := newTestEnv(t)
	tracker := newTracker(env)

	result, err := tracker.TrackByOrderNumber(context.Background(), orderNumber, "")
	require.NoError(t, err)

	assert.Equal(t, shipping.TrackingStateBeingPrepared, result.State)
	assert.Nil(t, result.Shipment)
	assert.Equal(t, []models.ShipmentEvent{}, result.Events)
	assert.Equal(t, orderNumber, result.Order.OrderNumber)
	assert.Equal(t, "Vintage lamp", result.Order.ItemTitle)
	assert.Equal(t, "Sam Vendor", result.Order.Seller)
}

func TestTrackOrderWithShipment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tracker := newTracker(env)
	shipment := env.createShipment(t)

	_, err := env.engine.UpdateStatus(ctx, sellerID, shipment.ShipmentID, models.StatusDispatched, "")
	require.NoError(t, err)
	_, err = env.engine.UpdateStatus(ctx, sellerID, shipment.ShipmentID, models.StatusInTransit, "")
	require.NoError(t, err)

	result, err := tracker.TrackByOrderNumber(ctx, orderNumber, "")
	require.NoError(t, err)

	assert.Equal(t, shipping.TrackingStateShipped, result.State)
	require.NotNil(t, result.Shipment)
	assert.Equal(t, models.StatusInTransit, result.Shipment.Status)

	require.Len(t, result.Events, 3)
	// Ascending by creation time: oldest first.
	assert.Equal(t, models.StatusPending, result.Events[0].Status)
	assert.Equal(t, models.StatusDispatched, result.Events[1].Status)
	assert.Equal(t, models.StatusInTransit, result.Events[2].Status)
	for i := 1; i < len(result.Events); i++ {
		assert.False(t, result.Events[i].CreatedAt.Before(result.Events[i-1].CreatedAt))
	}
}

func TestTrackUnknownOrderNumber(t *testing.T) {
	env := newTestEnv(t)
	tracker := newTracker(env)

	_, err := tracker.TrackByOrderNumber(context.Background(), "MP-0000-0000", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTrackEmailVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tracker := newTracker(env)

	// Mismatch is rejected.
	_, err := tracker.TrackByOrderNumber(ctx, orderNumber, "someone-else@example.com")
	assert.ErrorIs(t, err, shipping.ErrForbidden)

	// Matching is case-insensitive.
	result, err := tracker.TrackByOrderNumber(ctx, orderNumber, "BUYER@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, shipping.TrackingStateBeingPrepared, result.State)

	// Omitting the email always succeeds for an existing order.
	_, err = tracker.TrackByOrderNumber(ctx, orderNumber, "")
	assert.NoError(t, err)
}

func TestTrackSellerNameFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.stores.Orders.Put(models.Order{
		OrderID:     "ORD-2002",
		OrderNumber: "MP-2024-2002",
		SellerID:    "seller-unknown",
		BuyerID:     buyerID,
		ItemTitle:   "Ceramic vase",
		Total:       30,
		Status:      "paid",
	})

	tracker := newTracker(env)
	result, err := tracker.TrackByOrderNumber(ctx, "MP-2024-2002", "")
	require.NoError(t, err)
	assert.Equal(t, "Seller", result.Order.Seller)
}
