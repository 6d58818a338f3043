package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace-shipping-api/internal/models"
)

// MongoStores bundles the Mongo-backed implementations of every port.
type MongoStores struct {
	Shipments *MongoShipmentStore
	Events    *MongoShipmentEventStore
	Orders    *MongoOrderStore
	Users     *MongoUserStore
}

// NewMongoStores wires all stores onto one database handle.
func NewMongoStores(db *mongo.Database) *MongoStores {
	return &MongoStores{
		Shipments: &MongoShipmentStore{coll: db.Collection("shipments")},
		Events:    &MongoShipmentEventStore{coll: db.Collection("shipment_events")},
		Orders:    &MongoOrderStore{coll: db.Collection("orders")},
		Users:     &MongoUserStore{coll: db.Collection("users")},
	}
}

type MongoShipmentStore struct {
	coll *mongo.Collection
}

func (s *MongoShipmentStore) GetByID(ctx context.Context, shipmentID string) (*models.Shipment, error) {
	var shipment models.Shipment
	err := s.coll.FindOne(ctx, bson.M{"shipmentID": shipmentID}).Decode(&shipment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

func (s *MongoShipmentStore) GetByOrderID(ctx context.Context, orderID string) (*models.Shipment, error) {
	var shipment models.Shipment
	err := s.coll.FindOne(ctx, bson.M{"orderID": orderID}).Decode(&shipment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

func (s *MongoShipmentStore) Insert(ctx context.Context, shipment *models.Shipment) error {
	_, err := s.coll.InsertOne(ctx, shipment)
	return err
}

func (s *MongoShipmentStore) Update(ctx context.Context, shipment *models.Shipment) error {
	update := bson.M{"$set": bson.M{
		"status":             shipment.Status,
		"courierName":        shipment.CourierName,
		"trackingNumber":     shipment.TrackingNumber,
		"proofOfDeliveryURL": shipment.ProofOfDeliveryURL,
		"updatedAt":          shipment.UpdatedAt,
	}}
	result, err := s.coll.UpdateOne(ctx, bson.M{"shipmentID": shipment.ShipmentID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoShipmentEventStore struct {
	coll *mongo.Collection
}

func (s *MongoShipmentEventStore) Append(ctx context.Context, event *models.ShipmentEvent) error {
	_, err := s.coll.InsertOne(ctx, event)
	return err
}

func (s *MongoShipmentEventStore) ListByShipment(ctx context.Context, shipmentID string) ([]models.ShipmentEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{"shipmentID": shipmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.ShipmentEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.ShipmentEvent{}
	}
	return events, nil
}

type MongoOrderStore struct {
	coll *mongo.Collection
}

func (s *MongoOrderStore) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"orderID": orderID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *MongoOrderStore) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"orderNumber": orderNumber}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *MongoOrderStore) UpdateShipping(ctx context.Context, orderID, method string, cost float64) error {
	update := bson.M{"$set": bson.M{
		"shippingMethod": method,
		"shippingCost":   cost,
		"updatedAt":      time.Now(),
	}}
	result, err := s.coll.UpdateOne(ctx, bson.M{"orderID": orderID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoUserStore struct {
	coll *mongo.Collection
}

func (s *MongoUserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"userID": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
