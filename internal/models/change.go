package models

type ChangeType string

const (
	ChangeSeatAssigned    ChangeType = "seat_assigned"
	ChangeSeatReleased    ChangeType = "seat_released"
	ChangeWaitlistJoined  ChangeType = "waitlist_joined"
	ChangeWaitlistLeft    ChangeType = "waitlist_left"
	ChangePriorityUpdated ChangeType = "priority_updated"
	ChangeSeatsAdded      ChangeType = "seats_added"
)

// Reasons attached to released seats and waitlist exits.
const (
	ReasonCancelled = "cancelled"
	ReasonReleased  = "released"
	ReasonPromoted  = "promoted"
	ReasonUserLeft  = "user_left"
)

// Change records one committed mutation of the seating state. It is handed
// to notifiers after the operation that produced it has finished.
type Change struct {
	Type     ChangeType `json:"type"`
	UserID   int64      `json:"user_id,omitempty"`
	SeatID   int64      `json:"seat_id,omitempty"`
	Priority int64      `json:"priority,omitempty"`
	Count    int        `json:"count,omitempty"`
	Promoted bool       `json:"promoted,omitempty"`
	Reason   string     `json:"reason,omitempty"`
}

// IsAssignment reports whether the change gives a user a seat, directly or
// by promotion.
func (c Change) IsAssignment() bool {
	return c.Type == ChangeSeatAssigned
}
