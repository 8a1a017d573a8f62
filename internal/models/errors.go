package models

import "fmt"

// Typed domain errors. Every error carries the identifiers the HTTP layer
// needs to render a precise message; callers match with errors.As. Capacity
// and overlap errors are routine outcomes under concurrent booking, not bugs.

// NotFoundError indicates the referenced resource does not exist. It is
// always raised before any permission check so that permission failures never
// leak the existence of other tenants' resources.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for a resource/id pair
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InsufficientPermissionsError indicates a role or ownership violation
type InsufficientPermissionsError struct {
	Operation string
	Role      string
}

func (e *InsufficientPermissionsError) Error() string {
	return fmt.Sprintf("role %s is not permitted to perform %s", e.Role, e.Operation)
}

// ValidationError indicates malformed input, caught before any domain logic
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// CapacityExceededError indicates the tour event was full at approval time
type CapacityExceededError struct {
	TourEventID string
	Capacity    int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("tour event %s is full (capacity %d)", e.TourEventID, e.Capacity)
}

// CapacityReductionError indicates an attempt to lower a tour event's
// capacity below the number of already-approved registrations
type CapacityReductionError struct {
	TourEventID   string
	RequestedCap  int
	ApprovedCount int
}

func (e *CapacityReductionError) Error() string {
	return fmt.Sprintf("cannot reduce tour event %s capacity to %d: %d registrations already approved",
		e.TourEventID, e.RequestedCap, e.ApprovedCount)
}

// DuplicateRegistrationError indicates the tourist already holds a
// non-cancelled registration for the tour event
type DuplicateRegistrationError struct {
	TourEventID    string
	TouristUserID  string
	RegistrationID string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("tourist %s already has registration %s for tour event %s",
		e.TouristUserID, e.RegistrationID, e.TourEventID)
}

// OverlapError indicates the tourist holds an active registration for another
// tour event whose date range intersects the candidate event's range
type OverlapError struct {
	TouristUserID        string
	CandidateEventID     string
	ConflictingEventID   string
	ConflictingEventName string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("tourist %s already holds an active registration for overlapping tour event %s (%s)",
		e.TouristUserID, e.ConflictingEventID, e.ConflictingEventName)
}

// SchedulingConflictError indicates two activities in the same tour event
// overlap in date and time; both activities are named for the caller
type SchedulingConflictError struct {
	TourEventID     string
	ActivityName    string
	ConflictingName string
}

func (e *SchedulingConflictError) Error() string {
	return fmt.Sprintf("activity %q conflicts with activity %q in tour event %s",
		e.ActivityName, e.ConflictingName, e.TourEventID)
}

// DateRangeError indicates an activity date outside the tour event's dates
type DateRangeError struct {
	TourEventID  string
	ActivityDate string
	RangeStart   string
	RangeEnd     string
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("activity date %s is outside tour event %s range [%s, %s]",
		e.ActivityDate, e.TourEventID, e.RangeStart, e.RangeEnd)
}

// StateTransitionError indicates an operation against a registration or tour
// event that is not in the state the operation requires
type StateTransitionError struct {
	Resource      string
	ID            string
	CurrentState  string
	RequiredState string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s %s is %s, operation requires %s",
		e.Resource, e.ID, e.CurrentState, e.RequiredState)
}
