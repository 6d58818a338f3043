package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusSet(t *testing.T) {
	assert.Len(t, ValidStatuses(), 8)
	for _, s := range ValidStatuses() {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("Shipped"))
	assert.False(t, IsValidStatus("pending"))
	assert.False(t, IsValidStatus(""))
}

func TestNotificationGates(t *testing.T) {
	assert.True(t, NotifiesBuyer(StatusDispatched))
	assert.True(t, NotifiesBuyer(StatusOutForDelivery))
	assert.True(t, NotifiesBuyer(StatusDelivered))
	assert.False(t, NotifiesBuyer(StatusPending))
	assert.False(t, NotifiesBuyer(StatusProcessing))
	assert.False(t, NotifiesBuyer(StatusReturned))

	assert.Equal(t, "order_delivered", NotificationTemplate(StatusDelivered))
	assert.Equal(t, "order_shipped", NotificationTemplate(StatusDispatched))
}

func TestNewShipmentValidation(t *testing.T) {
	_, err := NewShipment("", "s", "b")
	assert.Error(t, err)
	_, err = NewShipment("o", "", "b")
	assert.Error(t, err)

	shipment, err := NewShipment("o", "s", "b")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, shipment.Status)
	assert.NotEmpty(t, shipment.ShipmentID)
	assert.False(t, shipment.CreatedAt.IsZero())
}

func TestNewShipmentEventValidation(t *testing.T) {
	_, err := NewShipmentEvent("", StatusPending, "", "u")
	assert.Error(t, err)
	_, err = NewShipmentEvent("s", "", "", "u")
	assert.Error(t, err)

	event, err := NewShipmentEvent("s", "Pending", "Shipment created", "u")
	require.NoError(t, err)
	assert.NotEmpty(t, event.EventID)
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Sam Vendor", (&User{FirstName: "Sam", LastName: "Vendor"}).DisplayName())
	assert.Equal(t, "Sam", (&User{FirstName: "Sam"}).DisplayName())
	assert.Equal(t, "Seller", (&User{}).DisplayName())
}
