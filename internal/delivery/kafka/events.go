package kafka

import "time"

// Events published BY Seating Service

type SeatAssignedEvent struct {
	MessageID   string    `json:"message_id"`
	Venue       string    `json:"venue"`
	UserID      int64     `json:"user_id"`
	SeatID      int64     `json:"seat_id"`
	Promoted    bool      `json:"promoted"`
	TicketToken string    `json:"ticket_token,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type SeatReleasedEvent struct {
	MessageID string    `json:"message_id"`
	Venue     string    `json:"venue"`
	UserID    int64     `json:"user_id"`
	SeatID    int64     `json:"seat_id"`
	Reason    string    `json:"reason"` // cancelled, released
	Timestamp time.Time `json:"timestamp"`
}

type WaitlistUpdatedEvent struct {
	MessageID string    `json:"message_id"`
	Venue     string    `json:"venue"`
	UserID    int64     `json:"user_id"`
	Priority  int64     `json:"priority"`
	Action    string    `json:"action"` // waitlist_joined, waitlist_left, priority_updated
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type CommandResultEvent struct {
	MessageID string    `json:"message_id"`
	Venue     string    `json:"venue"`
	Command   string    `json:"command"`
	Lines     []string  `json:"lines"`
	Timestamp time.Time `json:"timestamp"`
}

// Events consumed BY Seating Service

// CommandEvent carries one driver command line, e.g. "Reserve(7, 2)".
// Plain-text message values are accepted as well.
type CommandEvent struct {
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}
