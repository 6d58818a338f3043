package shipping

import (
	"context"

	"marketplace-shipping-api/internal/models"
	"marketplace-shipping-api/internal/store"
)

// Gate decides whether an actor may mutate a shipment or order. The actor's
// role is read from the identity store on every call rather than from a
// token claim, since roles can change between token issuance and the call.
type Gate struct {
	users store.UserStore
}

func NewGate(users store.UserStore) *Gate {
	return &Gate{users: users}
}

// CanManage returns nil when the actor is the owning seller or an admin,
// ErrForbidden otherwise.
func (g *Gate) CanManage(ctx context.Context, actorID, sellerID string) error {
	actor, err := g.users.GetByID(ctx, actorID)
	if err != nil {
		if err == store.ErrNotFound {
			return ErrForbidden
		}
		return err
	}
	if actor.Role == models.RoleAdmin || actor.UserID == sellerID {
		return nil
	}
	return ErrForbidden
}
