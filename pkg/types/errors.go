package types

import (
	"errors"
	"fmt"
	"strings"
)

// Store-level sentinels. Repositories return these; services translate
// them into the caller-facing error types below.
var (
	ErrCaseNotFound         = errors.New("case not found")
	ErrSponsorNotFound      = errors.New("sponsor not found")
	ErrFeeEntryNotFound     = errors.New("fee entry not found")
	ErrProofNotFound        = errors.New("proof submission not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrStatusChanged        = errors.New("status changed since read")
	ErrDuplicateAssignment  = errors.New("assignment already exists")
)

// ValidationError reports missing or malformed input fields. The caller
// must correct the request; nothing was written.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// PreconditionError reports an operation attempted against an entity not
// in the required state, e.g. assigning a sponsor to an applicant whose
// case is not accepted.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// InvalidTransitionError reports a transition that no longer applies:
// the entity already moved past the state the transition requires.
type InvalidTransitionError struct {
	Entity string
	ID     string
	Status string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %s is %s and cannot transition", e.Entity, e.ID, e.Status)
}

// NotFoundError reports a referenced id that does not resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// AuthorizationError reports an actor whose verified role does not
// permit the operation.
type AuthorizationError struct {
	Role Role
	Op   string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %q may not %s", e.Role, e.Op)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsPrecondition(err error) bool {
	var target *PreconditionError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}
