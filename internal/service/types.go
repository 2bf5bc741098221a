package service

import (
	"time"

	"github.com/vogiaan1904/ticketbottle-seating/internal/models"
)

type InitializeOutput struct {
	SeatCount  int64
	Promotions []models.Reservation
}

type AvailabilityOutput struct {
	AvailableSeats int
	WaitlistLength int
}

type ReserveOutput struct {
	UserID     int64
	SeatID     int64
	Waitlisted bool
}

type CancelOutput struct {
	UserID    int64
	SeatID    int64
	Promotion *models.Reservation
}

type UpdatePriorityOutput struct {
	UserID        int64
	Priority      int64
	AlreadySeated bool
}

type CancelWaitlistOutput struct {
	UserID int64
}

type AddSeatsOutput struct {
	Added      int64
	TotalSeats int64
	Promotions []models.Reservation
}

type ReleaseSeatsOutput struct {
	LowUserID      int64
	HighUserID     int64
	Released       []models.Reservation
	RemovedWaiting []models.WaitlistEntry
	Promotions     []models.Reservation
}

// Snapshot is a consistent copy of the seating state.
type Snapshot struct {
	TotalSeats   int64
	FreeSeats    []int64
	Reservations []models.Reservation
	Waitlist     []models.WaitlistEntry
}

type TicketClaims struct {
	UserID    int64
	SeatID    int64
	Venue     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
