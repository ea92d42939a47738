package domain

import (
	"errors"
	"fmt"
)

// ErrAssetNotAvailable rejects allotment creation against an asset that is
// already allotted, in maintenance or retired.
var ErrAssetNotAvailable = errors.New("asset is not available for allotment")

// StateGuardError reports a lifecycle transition that is not legal from the
// allotment's current status. The attempted mutation is rejected and the
// Allotment, Asset and Organization aggregates are left unchanged.
type StateGuardError struct {
	AllotmentID int64
	Operation   string
	Status      AllotmentStatus
}

func (e *StateGuardError) Error() string {
	return fmt.Sprintf("allotment %d: cannot %s from status %s", e.AllotmentID, e.Operation, e.Status)
}

// NewStateGuardError builds a guard violation for the given operation.
func NewStateGuardError(allotmentID int64, operation string, status AllotmentStatus) *StateGuardError {
	return &StateGuardError{AllotmentID: allotmentID, Operation: operation, Status: status}
}
