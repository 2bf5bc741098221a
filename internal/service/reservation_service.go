package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vogiaan1904/ticketbottle-seating/internal/index"
	"github.com/vogiaan1904/ticketbottle-seating/internal/models"
	"github.com/vogiaan1904/ticketbottle-seating/internal/seatpool"
	"github.com/vogiaan1904/ticketbottle-seating/internal/waitlist"
	pkgLog "github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
)

// ReservationService is the seating controller. Operations are serialized
// and each one either commits fully or changes nothing. Committed changes
// reach the Notifier in commit order.
type ReservationService interface {
	// Initialize creates seats 1..seatCount. It may run once per service.
	Initialize(ctx context.Context, seatCount int64) (*InitializeOutput, error)
	Available(ctx context.Context) (*AvailabilityOutput, error)
	// Reserve hands uID the lowest free seat, or queues it at priority when
	// none is free.
	Reserve(ctx context.Context, uID, priority int64) (*ReserveOutput, error)
	// Cancel frees seatID held by uID and gives it to the top waiter.
	Cancel(ctx context.Context, uID, seatID int64) (*CancelOutput, error)
	UpdatePriority(ctx context.Context, uID, priority int64) (*UpdatePriorityOutput, error)
	CancelWaitlist(ctx context.Context, uID int64) (*CancelWaitlistOutput, error)
	// AddSeats appends count seats after the current highest one and
	// promotes waiters onto them. The venue never grows past its capacity.
	AddSeats(ctx context.Context, count int64) (*AddSeatsOutput, error)
	// Reservations lists held seats ordered by user id.
	Reservations(ctx context.Context) ([]models.Reservation, error)
	// ReleaseSeats drops every user in [loUID, hiUID] from both the
	// reservations and the waitlist, then refills the freed seats.
	ReleaseSeats(ctx context.Context, loUID, hiUID int64) (*ReleaseSeatsOutput, error)

	// Snapshot returns a copy of the full state taken under the lock.
	Snapshot(ctx context.Context) (*Snapshot, error)
	// CheckInvariants reports ErrInconsistentState when free and held seats
	// do not partition 1..total, a user is both seated and waiting, or the
	// reservation index is not a valid red-black tree.
	CheckInvariants(ctx context.Context) error
}

const (
	// DefaultMaxSeats is the venue capacity used when none is configured.
	DefaultMaxSeats int64 = 1_000_000
	// MaxSeatsLimit bounds any configured capacity.
	MaxSeatsLimit int64 = 10_000_000
)

type Option func(*reservationService)

// WithMaxSeats sets the venue capacity, clamped to MaxSeatsLimit.
// Non-positive values keep the default.
func WithMaxSeats(n int64) Option {
	return func(s *reservationService) {
		if n > 0 {
			s.maxSeats = min(n, MaxSeatsLimit)
		}
	}
}

// reservationService owns the reservation index, the free seat pool and the
// waitlist. Every operation runs under mu and leaves the three structures
// consistent: each seat in 1..totalSeats is either free or held, and no user
// is both seated and waiting.
type reservationService struct {
	mu         sync.Mutex
	reserved   *index.Tree[int64, int64] // user id -> seat id
	seats      *seatpool.Pool
	waiting    *waitlist.Queue
	totalSeats int64
	maxSeats   int64

	// notifyMu is taken before mu is released so deliveries keep commit order.
	notifyMu sync.Mutex
	notifier Notifier
	l        pkgLog.Logger
}

// NewReservationService returns an empty controller. A nil notifier drops
// all changes.
func NewReservationService(notifier Notifier, l pkgLog.Logger, opts ...Option) ReservationService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	s := &reservationService{
		reserved: index.New[int64, int64](),
		seats:    seatpool.New(0),
		waiting:  waitlist.New(),
		maxSeats: DefaultMaxSeats,
		notifier: notifier,
		l:        l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *reservationService) Initialize(ctx context.Context, seatCount int64) (*InitializeOutput, error) {
	if seatCount <= 0 {
		s.l.Warnf(ctx, "service.reservationService.Initialize: %v: %d", ErrInvalidSeatCount, seatCount)
		return nil, ErrInvalidSeatCount
	}
	if seatCount > s.maxSeats {
		s.l.Warnf(ctx, "service.reservationService.Initialize: %v: %d > %d", ErrSeatCapacityExceeded, seatCount, s.maxSeats)
		return nil, ErrSeatCapacityExceeded
	}

	s.mu.Lock()
	if s.totalSeats > 0 {
		s.mu.Unlock()
		s.l.Warnf(ctx, "service.reservationService.Initialize: %v", ErrAlreadyInitialized)
		return nil, ErrAlreadyInitialized
	}
	var changes []models.Change
	promoted, err := s.addSeatsLocked(seatCount, &changes)
	if err != nil {
		s.mu.Unlock()
		s.l.Errorf(ctx, "service.reservationService.Initialize: %v", err)
		return nil, err
	}
	s.unlockAndNotify(ctx, changes)

	s.l.Infow(ctx, "Seats initialized",
		"seat_count", seatCount,
		"promoted", len(promoted),
	)

	return &InitializeOutput{
		SeatCount:  seatCount,
		Promotions: promoted,
	}, nil
}

func (s *reservationService) Available(ctx context.Context) (*AvailabilityOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &AvailabilityOutput{
		AvailableSeats: s.seats.Len(),
		WaitlistLength: s.waiting.Len(),
	}, nil
}

func (s *reservationService) Reserve(ctx context.Context, uID, priority int64) (*ReserveOutput, error) {
	s.mu.Lock()
	out, changes, err := s.reserveLocked(uID, priority)
	if err != nil {
		s.mu.Unlock()
		s.l.Warnf(ctx, "service.reservationService.Reserve: user=%d: %v", uID, err)
		return nil, err
	}
	s.unlockAndNotify(ctx, changes)

	if out.Waitlisted {
		s.l.Infow(ctx, "User added to waitlist", "user_id", uID, "priority", priority)
	} else {
		s.l.Infow(ctx, "Seat reserved", "user_id", uID, "seat_id", out.SeatID)
	}

	return out, nil
}

func (s *reservationService) reserveLocked(uID, priority int64) (*ReserveOutput, []models.Change, error) {
	if s.reserved.Contains(uID) {
		return nil, nil, ErrUserAlreadyReserved
	}
	if s.waiting.Contains(uID) {
		return nil, nil, ErrUserAlreadyWaiting
	}

	seat, err := s.seats.ExtractMin()
	if errors.Is(err, seatpool.ErrEmpty) {
		if err := s.waiting.Insert(uID, priority); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
		}
		return &ReserveOutput{UserID: uID, Waitlisted: true}, []models.Change{{
			Type:     models.ChangeWaitlistJoined,
			UserID:   uID,
			Priority: priority,
		}}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}

	if err := s.reserved.Insert(uID, seat); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}
	return &ReserveOutput{UserID: uID, SeatID: seat}, []models.Change{{
		Type:   models.ChangeSeatAssigned,
		UserID: uID,
		SeatID: seat,
	}}, nil
}

func (s *reservationService) Cancel(ctx context.Context, uID, seatID int64) (*CancelOutput, error) {
	s.mu.Lock()
	out, changes, err := s.cancelLocked(uID, seatID)
	if err != nil {
		s.mu.Unlock()
		s.l.Warnf(ctx, "service.reservationService.Cancel: user=%d seat=%d: %v", uID, seatID, err)
		return nil, err
	}
	s.unlockAndNotify(ctx, changes)

	s.l.Infow(ctx, "Reservation cancelled", "user_id", uID, "seat_id", seatID)
	if out.Promotion != nil {
		s.l.Infow(ctx, "User promoted from waitlist",
			"user_id", out.Promotion.UserID,
			"seat_id", out.Promotion.SeatID,
		)
	}

	return out, nil
}

func (s *reservationService) cancelLocked(uID, seatID int64) (*CancelOutput, []models.Change, error) {
	held, err := s.reserved.Find(uID)
	if err != nil {
		return nil, nil, ErrReservationNotFound
	}
	if held != seatID {
		return nil, nil, ErrSeatMismatch
	}

	if _, err := s.reserved.Delete(uID); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}
	out := &CancelOutput{UserID: uID, SeatID: seatID}
	changes := []models.Change{{
		Type:   models.ChangeSeatReleased,
		UserID: uID,
		SeatID: seatID,
		Reason: models.ReasonCancelled,
	}}

	// The freed seat goes straight to the top waiter, if any.
	top, err := s.waiting.ExtractTop()
	if errors.Is(err, waitlist.ErrEmpty) {
		if err := s.seats.Insert(seatID); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
		}
		return out, changes, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}

	if err := s.reserved.Insert(top.UserID, seatID); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}
	out.Promotion = &models.Reservation{UserID: top.UserID, SeatID: seatID}
	changes = append(changes, promotionChanges(top, seatID)...)

	return out, changes, nil
}

func (s *reservationService) UpdatePriority(ctx context.Context, uID, priority int64) (*UpdatePriorityOutput, error) {
	s.mu.Lock()
	out, changes, err := s.updatePriorityLocked(uID, priority)
	if err != nil {
		s.mu.Unlock()
		s.l.Warnf(ctx, "service.reservationService.UpdatePriority: user=%d: %v", uID, err)
		return nil, err
	}
	s.unlockAndNotify(ctx, changes)

	if !out.AlreadySeated {
		s.l.Infow(ctx, "Waitlist priority updated", "user_id", uID, "priority", priority)
	}

	return out, nil
}

func (s *reservationService) updatePriorityLocked(uID, priority int64) (*UpdatePriorityOutput, []models.Change, error) {
	if s.reserved.Contains(uID) {
		return &UpdatePriorityOutput{UserID: uID, Priority: priority, AlreadySeated: true}, nil, nil
	}

	// Re-inserting refreshes the arrival order: the user queues behind
	// everyone already waiting at the new priority.
	if _, err := s.waiting.RemoveUser(uID); err != nil {
		return nil, nil, ErrNotWaiting
	}
	if err := s.waiting.Insert(uID, priority); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}

	return &UpdatePriorityOutput{UserID: uID, Priority: priority}, []models.Change{{
		Type:     models.ChangePriorityUpdated,
		UserID:   uID,
		Priority: priority,
	}}, nil
}

func (s *reservationService) CancelWaitlist(ctx context.Context, uID int64) (*CancelWaitlistOutput, error) {
	s.mu.Lock()
	e, err := s.waiting.RemoveUser(uID)
	if err != nil {
		s.mu.Unlock()
		s.l.Warnf(ctx, "service.reservationService.CancelWaitlist: user=%d: %v", uID, ErrNotWaiting)
		return nil, ErrNotWaiting
	}
	s.unlockAndNotify(ctx, []models.Change{{
		Type:     models.ChangeWaitlistLeft,
		UserID:   uID,
		Priority: e.Priority,
		Reason:   models.ReasonUserLeft,
	}})

	s.l.Infow(ctx, "User left waitlist", "user_id", uID)

	return &CancelWaitlistOutput{UserID: uID}, nil
}

func (s *reservationService) AddSeats(ctx context.Context, count int64) (*AddSeatsOutput, error) {
	if count <= 0 {
		s.l.Warnf(ctx, "service.reservationService.AddSeats: %v: %d", ErrInvalidSeatCount, count)
		return nil, ErrInvalidSeatCount
	}
	if count > s.maxSeats {
		s.l.Warnf(ctx, "service.reservationService.AddSeats: %v: %d > %d", ErrSeatCapacityExceeded, count, s.maxSeats)
		return nil, ErrSeatCapacityExceeded
	}

	s.mu.Lock()
	// Compared as a difference so totalSeats+count cannot overflow.
	if count > s.maxSeats-s.totalSeats {
		total := s.totalSeats
		s.mu.Unlock()
		s.l.Warnf(ctx, "service.reservationService.AddSeats: %v: %d + %d > %d", ErrSeatCapacityExceeded, total, count, s.maxSeats)
		return nil, ErrSeatCapacityExceeded
	}
	var changes []models.Change
	promoted, err := s.addSeatsLocked(count, &changes)
	total := s.totalSeats
	if err != nil {
		s.mu.Unlock()
		s.l.Errorf(ctx, "service.reservationService.AddSeats: %v", err)
		return nil, err
	}
	s.unlockAndNotify(ctx, changes)

	s.l.Infow(ctx, "Seats added",
		"added", count,
		"total_seats", total,
		"promoted", len(promoted),
	)

	return &AddSeatsOutput{
		Added:      count,
		TotalSeats: total,
		Promotions: promoted,
	}, nil
}

func (s *reservationService) addSeatsLocked(count int64, changes *[]models.Change) ([]models.Reservation, error) {
	from := s.totalSeats + 1
	to := s.totalSeats + count
	if err := s.seats.AddRange(from, to); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}
	s.totalSeats = to
	*changes = append(*changes, models.Change{Type: models.ChangeSeatsAdded, Count: int(count)})

	return s.promoteLocked(changes)
}

// promoteLocked seats the top waiters on the lowest free seats until one
// of the two queues runs dry.
func (s *reservationService) promoteLocked(changes *[]models.Change) ([]models.Reservation, error) {
	var promoted []models.Reservation
	for s.waiting.Len() > 0 && s.seats.Len() > 0 {
		top, err := s.waiting.ExtractTop()
		if err != nil {
			return promoted, fmt.Errorf("%w: %v", ErrInconsistentState, err)
		}
		seat, err := s.seats.ExtractMin()
		if err != nil {
			return promoted, fmt.Errorf("%w: %v", ErrInconsistentState, err)
		}
		if err := s.reserved.Insert(top.UserID, seat); err != nil {
			return promoted, fmt.Errorf("%w: %v", ErrInconsistentState, err)
		}

		promoted = append(promoted, models.Reservation{UserID: top.UserID, SeatID: seat})
		*changes = append(*changes, promotionChanges(top, seat)...)
	}
	return promoted, nil
}

func (s *reservationService) Reservations(ctx context.Context) ([]models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Reservation, 0, s.reserved.Len())
	for uID, seat := range s.reserved.Ascend() {
		out = append(out, models.Reservation{UserID: uID, SeatID: seat})
	}
	return out, nil
}

func (s *reservationService) ReleaseSeats(ctx context.Context, loUID, hiUID int64) (*ReleaseSeatsOutput, error) {
	if loUID > hiUID {
		s.l.Warnf(ctx, "service.reservationService.ReleaseSeats: %v: [%d, %d]", ErrInvalidUserRange, loUID, hiUID)
		return nil, ErrInvalidUserRange
	}

	s.mu.Lock()
	out, changes, err := s.releaseSeatsLocked(loUID, hiUID)
	if err != nil {
		s.mu.Unlock()
		s.l.Errorf(ctx, "service.reservationService.ReleaseSeats: %v", err)
		return nil, err
	}
	s.unlockAndNotify(ctx, changes)

	s.l.Infow(ctx, "Seats released for user range",
		"low_user_id", loUID,
		"high_user_id", hiUID,
		"released", len(out.Released),
		"removed_waiting", len(out.RemovedWaiting),
		"promoted", len(out.Promotions),
	)

	return out, nil
}

func (s *reservationService) releaseSeatsLocked(loUID, hiUID int64) (*ReleaseSeatsOutput, []models.Change, error) {
	out := &ReleaseSeatsOutput{LowUserID: loUID, HighUserID: hiUID}
	var changes []models.Change

	// Collect first: the range iterator must not observe its own deletes.
	for uID, seat := range s.reserved.Range(loUID, hiUID) {
		out.Released = append(out.Released, models.Reservation{UserID: uID, SeatID: seat})
	}
	for _, r := range out.Released {
		if _, err := s.reserved.Delete(r.UserID); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
		}
		if err := s.seats.Insert(r.SeatID); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
		}
		changes = append(changes, models.Change{
			Type:   models.ChangeSeatReleased,
			UserID: r.UserID,
			SeatID: r.SeatID,
			Reason: models.ReasonReleased,
		})
	}

	out.RemovedWaiting = s.waiting.RemoveRange(loUID, hiUID)
	for _, e := range out.RemovedWaiting {
		changes = append(changes, models.Change{
			Type:     models.ChangeWaitlistLeft,
			UserID:   e.UserID,
			Priority: e.Priority,
			Reason:   models.ReasonReleased,
		})
	}

	promoted, err := s.promoteLocked(&changes)
	if err != nil {
		return nil, nil, err
	}
	out.Promotions = promoted

	return out, changes, nil
}

func (s *reservationService) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ss := &Snapshot{
		TotalSeats:   s.totalSeats,
		FreeSeats:    s.seats.Seats(),
		Reservations: make([]models.Reservation, 0, s.reserved.Len()),
		Waitlist:     s.waiting.Entries(),
	}
	for uID, seat := range s.reserved.Ascend() {
		ss.Reservations = append(ss.Reservations, models.Reservation{UserID: uID, SeatID: seat})
	}
	return ss, nil
}

// CheckInvariants verifies that free and held seats partition 1..totalSeats,
// that no user is both seated and waiting, and that the index is a valid
// red-black tree.
func (s *reservationService) CheckInvariants(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reserved.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}

	owner := make(map[int64]bool, s.totalSeats)
	for _, seat := range s.seats.Seats() {
		if seat < 1 || seat > s.totalSeats {
			return fmt.Errorf("%w: free seat %d out of range", ErrInconsistentState, seat)
		}
		owner[seat] = true
	}
	for uID, seat := range s.reserved.Ascend() {
		if seat < 1 || seat > s.totalSeats {
			return fmt.Errorf("%w: user %d holds seat %d out of range", ErrInconsistentState, uID, seat)
		}
		if owner[seat] {
			return fmt.Errorf("%w: seat %d is both free and held, or held twice", ErrInconsistentState, seat)
		}
		owner[seat] = true
		if s.waiting.Contains(uID) {
			return fmt.Errorf("%w: user %d is seated and waiting", ErrInconsistentState, uID)
		}
	}
	if int64(len(owner)) != s.totalSeats {
		return fmt.Errorf("%w: %d of %d seats accounted for", ErrInconsistentState, len(owner), s.totalSeats)
	}

	return nil
}

// unlockAndNotify releases mu and delivers changes. It must be called with
// mu held. The next operation cannot commit before this one holds notifyMu,
// so batches reach the notifier in commit order.
func (s *reservationService) unlockAndNotify(ctx context.Context, changes []models.Change) {
	if len(changes) == 0 {
		s.mu.Unlock()
		return
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	if err := s.notifier.Notify(ctx, changes); err != nil {
		// Notification is best effort; the command has already committed.
		s.l.Errorf(ctx, "service.reservationService.unlockAndNotify: %v", err)
	}
}

func promotionChanges(e models.WaitlistEntry, seatID int64) []models.Change {
	return []models.Change{
		{
			Type:     models.ChangeWaitlistLeft,
			UserID:   e.UserID,
			Priority: e.Priority,
			Reason:   models.ReasonPromoted,
		},
		{
			Type:     models.ChangeSeatAssigned,
			UserID:   e.UserID,
			SeatID:   seatID,
			Promoted: true,
		},
	}
}
