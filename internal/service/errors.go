package service

import "errors"

// Shared sentinel errors. Handlers translate these into HTTP statuses;
// resource-specific sentinels live next to their services.
var (
	// ErrInvalidInput marks business-rule validation failures that struct
	// tags cannot express. Wrap it with context via fmt.Errorf("%w: ...").
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the actor's role lacks permission for the
	// operation.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrConflict indicates an attempted violation of a uniqueness or
	// emptiness constraint.
	ErrConflict = errors.New("conflict")
)
