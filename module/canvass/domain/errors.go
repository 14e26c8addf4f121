package domain

import (
	"errors"
	"fmt"

	"github.com/nandanugg/canvass/sdk/geo"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidLocation = errors.New("invalid location")
	ErrOutsideGeofence = errors.New("outside customer geofence")
	ErrDuplicateEvent  = errors.New("duplicate client event")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrOverpayment     = errors.New("payment exceeds invoice balance")
	ErrInvalidInvoice  = errors.New("invalid invoice")
	ErrConflict        = errors.New("concurrent update")
	ErrCreditLimit     = errors.New("credit limit exceeded")
)

// GeofenceError is returned when enforcement rejects a reading taken
// outside the customer's geofence. It matches ErrOutsideGeofence.
type GeofenceError struct {
	Result         geo.GeofenceResult
	GeofenceMeters float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("%s: %.2fm from customer, allowed %.2fm", ErrOutsideGeofence, e.Result.DistanceMeters, e.GeofenceMeters)
}

func (e *GeofenceError) Unwrap() error {
	return ErrOutsideGeofence
}
