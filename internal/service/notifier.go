package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-seating/internal/models"
	repository "github.com/vogiaan1904/ticketbottle-seating/internal/repository/redis"
	pkgLog "github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
)

// Notifier receives the changes committed by one controller operation, in
// the order they were applied.
type Notifier interface {
	Notify(ctx context.Context, changes []models.Change) error
}

type NotifierFunc func(ctx context.Context, changes []models.Change) error

func (f NotifierFunc) Notify(ctx context.Context, changes []models.Change) error {
	return f(ctx, changes)
}

func NopNotifier() Notifier {
	return NotifierFunc(func(context.Context, []models.Change) error { return nil })
}

type multiNotifier []Notifier

// NewNotifiers fans changes out to every non-nil notifier. All of them are
// called even when one fails.
func NewNotifiers(ns ...Notifier) Notifier {
	var out multiNotifier
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (m multiNotifier) Notify(ctx context.Context, changes []models.Change) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, changes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type eventNotifier struct {
	venue string
	prod  producer.Producer
	tSvc  TicketService
	l     pkgLog.Logger
}

// NewEventNotifier publishes seat and waitlist events to Kafka. Every seat
// assignment carries a freshly signed ticket.
func NewEventNotifier(venue string, prod producer.Producer, tSvc TicketService, l pkgLog.Logger) Notifier {
	return &eventNotifier{
		venue: venue,
		prod:  prod,
		tSvc:  tSvc,
		l:     l,
	}
}

func (n *eventNotifier) Notify(ctx context.Context, changes []models.Change) error {
	var errs []error
	for _, c := range changes {
		if err := n.publish(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("%s for user %d: %w", c.Type, c.UserID, err))
		}
	}
	return errors.Join(errs...)
}

func (n *eventNotifier) publish(ctx context.Context, c models.Change) error {
	if c.IsAssignment() {
		return n.publishAssignment(ctx, c)
	}

	switch c.Type {
	case models.ChangeSeatReleased:
		return n.prod.PublishSeatReleased(ctx, kafka.SeatReleasedEvent{
			Venue:  n.venue,
			UserID: c.UserID,
			SeatID: c.SeatID,
			Reason: c.Reason,
		})
	case models.ChangeWaitlistJoined, models.ChangeWaitlistLeft, models.ChangePriorityUpdated:
		return n.prod.PublishWaitlistUpdated(ctx, kafka.WaitlistUpdatedEvent{
			Venue:    n.venue,
			UserID:   c.UserID,
			Priority: c.Priority,
			Action:   string(c.Type),
			Reason:   c.Reason,
		})
	default:
		// seats_added has no event of its own; the promotions it causes do.
		return nil
	}
}

func (n *eventNotifier) publishAssignment(ctx context.Context, c models.Change) error {
	tkn, err := n.tSvc.IssueTicket(ctx, n.venue, c.UserID, c.SeatID)
	if err != nil {
		return err
	}
	return n.prod.PublishSeatAssigned(ctx, kafka.SeatAssignedEvent{
		Venue:       n.venue,
		UserID:      c.UserID,
		SeatID:      c.SeatID,
		Promoted:    c.Promoted,
		TicketToken: tkn,
	})
}

type projectionNotifier struct {
	venue string
	repo  repository.ProjectionRepository
}

// NewProjectionNotifier mirrors changes into the Redis read model.
func NewProjectionNotifier(venue string, repo repository.ProjectionRepository) Notifier {
	return &projectionNotifier{
		venue: venue,
		repo:  repo,
	}
}

func (n *projectionNotifier) Notify(ctx context.Context, changes []models.Change) error {
	if err := n.repo.Apply(ctx, n.venue, changes); err != nil {
		return fmt.Errorf("failed to update projection: %w", err)
	}
	return nil
}
