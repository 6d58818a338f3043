package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is the slice of the marketplace order this subsystem reads and,
// for shipping method/cost, writes back to. Checkout owns the rest.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OrderID        string             `bson:"orderID" json:"id"`
	OrderNumber    string             `bson:"orderNumber" json:"order_number"`
	SellerID       string             `bson:"sellerID" json:"seller_id"`
	BuyerID        string             `bson:"buyerID" json:"buyer_id"`
	ItemTitle      string             `bson:"itemTitle" json:"item_title"`
	Total          float64            `bson:"total" json:"total"`
	Status         string             `bson:"status" json:"status"`
	ShippingMethod string             `bson:"shippingMethod,omitempty" json:"shipping_method,omitempty"`
	ShippingCost   float64            `bson:"shippingCost,omitempty" json:"shipping_cost,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"created_at"`
}
