package shipping

import "errors"

var (
	// ErrForbidden means the actor is neither the shipment's seller nor an admin.
	ErrForbidden = errors.New("you do not have permission to manage this shipment")

	// ErrInvalidStatus means the requested status is outside the permitted set.
	ErrInvalidStatus = errors.New("invalid shipment status")

	// ErrUploadURL means the blob store could not issue a signed upload URL.
	ErrUploadURL = errors.New("failed to create upload url")
)
