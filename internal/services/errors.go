package services

import "errors"

// Workflow-level error kinds. Handlers match these with errors.Is and map
// them to transport status codes.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrVehicleSold    = errors.New("vehicle already sold")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrPersistence    = errors.New("persistence failure")
)
