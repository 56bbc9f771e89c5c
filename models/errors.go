package models

import (
	"fmt"
)

// ValidationError marks a request that is malformed before any storage access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// PermissionDeniedError is raised when the permission resolver rejects an
// attempted mutation for the acting user.
type PermissionDeniedError struct {
	Action string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Action)
}

// InvalidStateTransitionError is the authoritative rejection of an invitation
// transition. It must not be retried by callers.
type InvalidStateTransitionError struct {
	From    InvitationStatus
	Trigger string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("INVALID_STATE_TRANSITION: cannot %s an invitation in state %s", e.Trigger, e.From)
}

// BudgetExceededError rejects an allocation above the remaining parent budget.
type BudgetExceededError struct {
	Proposed  int
	Remaining int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("budget exceeded: proposed %d but only %d remaining", e.Proposed, e.Remaining)
}

// BelowMinimumBudgetError rejects an allocation under the configured floor.
type BelowMinimumBudgetError struct {
	Proposed int
	Minimum  int
}

func (e *BelowMinimumBudgetError) Error() string {
	return fmt.Sprintf("budget below minimum: proposed %d but minimum is %d", e.Proposed, e.Minimum)
}

// NotFoundError reports an absent entity or invitation.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError reports that the stored record changed concurrently, e.g. an
// invitation already responded to by another actor.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

// TransportError wraps a network or collaborator failure unrelated to
// business rules. Retryable at the caller's discretion.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
