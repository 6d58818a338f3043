package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"marketplace-shipping-api/internal/models"
)

// MemoryStores is an in-memory implementation of every port, used by tests
// in place of a live database.
type MemoryStores struct {
	Shipments *MemoryShipmentStore
	Events    *MemoryShipmentEventStore
	Orders    *MemoryOrderStore
	Users     *MemoryUserStore
}

func NewMemoryStores() *MemoryStores {
	return &MemoryStores{
		Shipments: &MemoryShipmentStore{byID: map[string]models.Shipment{}},
		Events:    &MemoryShipmentEventStore{},
		Orders:    &MemoryOrderStore{byID: map[string]models.Order{}},
		Users:     &MemoryUserStore{byID: map[string]models.User{}},
	}
}

type MemoryShipmentStore struct {
	mu   sync.Mutex
	byID map[string]models.Shipment
}

func (s *MemoryShipmentStore) GetByID(_ context.Context, shipmentID string) (*models.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shipment, ok := s.byID[shipmentID]
	if !ok {
		return nil, ErrNotFound
	}
	return &shipment, nil
}

func (s *MemoryShipmentStore) GetByOrderID(_ context.Context, orderID string) (*models.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, shipment := range s.byID {
		if shipment.OrderID == orderID {
			out := shipment
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryShipmentStore) Insert(_ context.Context, shipment *models.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[shipment.ShipmentID] = *shipment
	return nil
}

func (s *MemoryShipmentStore) Update(_ context.Context, shipment *models.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[shipment.ShipmentID]; !ok {
		return ErrNotFound
	}
	s.byID[shipment.ShipmentID] = *shipment
	return nil
}

// Count reports the number of stored shipments.
func (s *MemoryShipmentStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

type MemoryShipmentEventStore struct {
	mu     sync.Mutex
	events []models.ShipmentEvent
}

func (s *MemoryShipmentEventStore) Append(_ context.Context, event *models.ShipmentEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *MemoryShipmentEventStore) ListByShipment(_ context.Context, shipmentID string) ([]models.ShipmentEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ShipmentEvent{}
	for _, e := range s.events {
		if e.ShipmentID == shipmentID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type MemoryOrderStore struct {
	mu   sync.Mutex
	byID map[string]models.Order
}

func (s *MemoryOrderStore) GetByID(_ context.Context, orderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.byID[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

func (s *MemoryOrderStore) GetByNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.byID {
		if order.OrderNumber == orderNumber {
			out := order
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryOrderStore) UpdateShipping(_ context.Context, orderID, method string, cost float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.byID[orderID]
	if !ok {
		return ErrNotFound
	}
	order.ShippingMethod = method
	order.ShippingCost = cost
	s.byID[orderID] = order
	return nil
}

// Put seeds an order.
func (s *MemoryOrderStore) Put(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[order.OrderID] = order
}

type MemoryUserStore struct {
	mu   sync.Mutex
	byID map[string]models.User
}

func (s *MemoryUserStore) GetByID(_ context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.byID {
		if strings.EqualFold(user.Email, email) {
			out := user
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// Put seeds a user.
func (s *MemoryUserStore) Put(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[user.UserID] = user
}
