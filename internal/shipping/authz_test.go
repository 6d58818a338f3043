package shipping_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"marketplace-shipping-api/internal/shipping"
)

func TestGateCanManage(t *testing.T) {
	env := newTestEnv(t)
	gate := shipping.NewGate(env.stores.Users)
	ctx := context.Background()

	assert.NoError(t, gate.CanManage(ctx, sellerID, sellerID))
	assert.NoError(t, gate.CanManage(ctx, adminID, sellerID))
	assert.ErrorIs(t, gate.CanManage(ctx, otherSellerID, sellerID), shipping.ErrForbidden)
	assert.ErrorIs(t, gate.CanManage(ctx, buyerID, sellerID), shipping.ErrForbidden)
	// Unknown actor is refused, not treated as a lookup failure.
	assert.ErrorIs(t, gate.CanManage(ctx, "ghost", sellerID), shipping.ErrForbidden)
}
