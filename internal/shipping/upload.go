package shipping

import (
	"context"
	"fmt"
	"time"

	"marketplace-shipping-api/internal/metrics"
	"marketplace-shipping-api/internal/models"
	"marketplace-shipping-api/internal/store"
)

// URLSigner is the blob-store capability the upload protocol needs: presign
// a direct PUT, build the public URL for a stored object, and (optionally)
// check that an object exists.
type URLSigner interface {
	PresignPut(ctx context.Context, key, contentType string) (url, token string, err error)
	PublicURL(key string) string
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// UploadSlot is what the issue step hands back to the caller: where to PUT
// the bytes, the storage key to confirm with, and the signing token.
type UploadSlot struct {
	UploadURL string `json:"upload_url"`
	FilePath  string `json:"file_path"`
	Token     string `json:"token"`
}

// UploadService runs the two-phase proof-of-delivery protocol. File bytes
// never pass through the application tier: the caller PUTs directly to the
// signed URL between the issue and confirm calls.
type UploadService struct {
	shipments store.ShipmentStore
	events    store.ShipmentEventStore
	gate      *Gate
	signer    URLSigner

	// verifyOnConfirm enables a HeadObject existence check before the
	// confirm step persists the proof URL. Off by default: the protocol
	// trusts the caller, and a confirm after a failed transfer leaves a
	// dangling reference.
	verifyOnConfirm bool
}

func NewUploadService(shipments store.ShipmentStore, events store.ShipmentEventStore, gate *Gate, signer URLSigner, verifyOnConfirm bool) *UploadService {
	return &UploadService{
		shipments:       shipments,
		events:          events,
		gate:            gate,
		signer:          signer,
		verifyOnConfirm: verifyOnConfirm,
	}
}

// IssueUploadURL verifies ownership and asks the blob store for a
// short-lived signed PUT URL. No shipment mutation happens here.
func (s *UploadService) IssueUploadURL(ctx context.Context, actorID, shipmentID, fileName, contentType string) (*UploadSlot, error) {
	shipment, err := s.shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.CanManage(ctx, actorID, shipment.SellerID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("shipments/%s/%d-%s", shipment.ShipmentID, time.Now().UnixMilli(), fileName)
	url, token, err := s.signer.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadURL, err)
	}

	metrics.UploadURLsIssuedTotal.Inc()
	return &UploadSlot{UploadURL: url, FilePath: key, Token: token}, nil
}

// ConfirmUpload persists the public URL for filePath as the shipment's
// proof of delivery and logs an event. The status is left unchanged. A
// later confirm with a different path overwrites the URL.
func (s *UploadService) ConfirmUpload(ctx context.Context, actorID, shipmentID, filePath string) (*models.Shipment, string, error) {
	shipment, err := s.shipments.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, "", err
	}
	if err := s.gate.CanManage(ctx, actorID, shipment.SellerID); err != nil {
		return nil, "", err
	}

	if s.verifyOnConfirm {
		exists, err := s.signer.ObjectExists(ctx, filePath)
		if err != nil {
			return nil, "", fmt.Errorf("checking uploaded object: %w", err)
		}
		if !exists {
			return nil, "", store.ErrNotFound
		}
	}

	proofURL := s.signer.PublicURL(filePath)
	shipment.ProofOfDeliveryURL = proofURL
	shipment.UpdatedAt = time.Now()
	if err := s.shipments.Update(ctx, shipment); err != nil {
		return nil, "", err
	}

	event, err := models.NewShipmentEvent(shipment.ShipmentID, shipment.Status, "Proof of delivery uploaded", actorID)
	if err != nil {
		return nil, "", err
	}
	if err := s.events.Append(ctx, event); err != nil {
		return nil, "", err
	}

	metrics.UploadConfirmsTotal.Inc()
	return shipment, proofURL, nil
}
