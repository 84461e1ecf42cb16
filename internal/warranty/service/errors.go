package service

import (
	"errors"
	"fmt"
)

var (
	// ErrClaimSealed mutation attempted after the financial freeze; not
	// recoverable, surfaced as a business rule violation
	ErrClaimSealed = errors.New("claim is sealed")

	// ErrConcurrentModification lost a transition race; recoverable by
	// re-reading the claim and retrying. The core never retries itself.
	ErrConcurrentModification = errors.New("claim was modified concurrently")

	// ErrMissingSupplier the supplier reference could not be resolved at
	// claim creation
	ErrMissingSupplier = errors.New("supplier not found")

	// ErrReferenceNotFound a product or customer reference is dangling
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrSupplierHasClaims supplier removal blocked by existing claim
	// history; deactivating the supplier is the supported alternative
	ErrSupplierHasClaims = errors.New("supplier has claims")
)

// InvalidTransitionError a transition was requested that the state
// machine does not allow, either by ordering or by a failed precondition.
// The claim is left unchanged.
type InvalidTransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s: %s", e.From, e.To, e.Reason)
}

func invalidTransition(from, to, reason string) error {
	return &InvalidTransitionError{From: from, To: to, Reason: reason}
}
