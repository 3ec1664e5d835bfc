package domain

import (
	"fmt"
	"sort"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusReturned  BookingStatus = "returned"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingAction is a status-change request issued by a participant.
type BookingAction string

const (
	BookingActionApprove BookingAction = "approve"
	BookingActionCancel  BookingAction = "cancel"
	BookingActionStart   BookingAction = "start"
	BookingActionReturn  BookingAction = "return"
)

// ActorRole is a participant's side of a booking.
type ActorRole string

const (
	RoleOwner  ActorRole = "owner"
	RoleRenter ActorRole = "renter"
)

// bookingTransitions is the booking state machine. Owner decline and renter
// withdrawal share the single cancel action.
var bookingTransitions = map[BookingStatus]map[BookingAction]BookingStatus{
	BookingStatusPending: {
		BookingActionApprove: BookingStatusConfirmed,
		BookingActionCancel:  BookingStatusCancelled,
	},
	BookingStatusConfirmed: {
		BookingActionStart:  BookingStatusActive,
		BookingActionCancel: BookingStatusCancelled,
	},
	BookingStatusActive: {
		BookingActionReturn: BookingStatusReturned,
	},
	BookingStatusReturned:  {},
	BookingStatusCancelled: {},
}

var ownerOnlyActions = map[BookingAction]bool{
	BookingActionApprove: true,
}

type Booking struct {
	ID         int32         `json:"id"`
	ItemID     int32         `json:"item_id"`
	RenterID   int32         `json:"renter_id"`
	OwnerID    int32         `json:"owner_id"`
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
	TotalPrice float64       `json:"total_price"`
	Status     BookingStatus `json:"status"`
	CreatedOn  string        `json:"created_on"`
	UpdatedOn  string        `json:"updated_on"`

	// Expanded on reads
	Item   *Item `json:"item,omitempty"`
	Renter *User `json:"renter,omitempty"`
	Owner  *User `json:"owner,omitempty"`
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// CanTransitionTo reports whether some action moves s to target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, to := range bookingTransitions[s] {
		if to == target {
			return true
		}
	}
	return false
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", NewValidationError("status", fmt.Sprintf("invalid booking status: %s", s))
	}
	return status, nil
}

func ParseBookingAction(s string) (BookingAction, error) {
	switch a := BookingAction(s); a {
	case BookingActionApprove, BookingActionCancel, BookingActionStart, BookingActionReturn:
		return a, nil
	}
	return "", NewValidationError("action", fmt.Sprintf("invalid booking action: %s", s))
}

// AllowedTransitions lists the states reachable from s in one step.
func AllowedTransitions(s BookingStatus) []BookingStatus {
	targets := make([]BookingStatus, 0, len(bookingTransitions[s]))
	for _, to := range bookingTransitions[s] {
		targets = append(targets, to)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets
}

// RoleOf returns the user's role in the booking, false for non-participants.
func (b *Booking) RoleOf(userID int32) (ActorRole, bool) {
	switch userID {
	case b.OwnerID:
		return RoleOwner, true
	case b.RenterID:
		return RoleRenter, true
	}
	return "", false
}

// ApplyTransition derives the next snapshot of b for the given action. It
// never mutates b and never touches the store; legality is re-derived from
// the snapshot on every call.
func ApplyTransition(b Booking, actorID int32, action BookingAction) (Booking, error) {
	reject := func(reason string) (Booking, error) {
		return b, &InvalidTransitionError{Entity: "booking", From: string(b.Status), Action: string(action), Reason: reason}
	}

	role, ok := b.RoleOf(actorID)
	if !ok {
		return reject("not a participant")
	}
	if b.Status.IsTerminal() {
		return reject("booking is closed")
	}
	next, ok := bookingTransitions[b.Status][action]
	if !ok {
		return reject("")
	}
	if ownerOnlyActions[action] && role != RoleOwner {
		return reject("only the owner may " + string(action))
	}

	b.Status = next
	return b, nil
}
