package command

import (
	"errors"
	"fmt"

	"github.com/vogiaan1904/ticketbottle-seating/internal/models"
	"github.com/vogiaan1904/ticketbottle-seating/internal/service"
)

const (
	msgInvalidSeatCount = "Invalid input. Please provide a valid number of seats."
	msgInvalidUserRange = "Invalid input. Please provide a valid range of users."
	msgNoReservations   = "No reservations to print."
	msgTerminated       = "Program Terminated!!"
)

func reservedLine(r models.Reservation) string {
	return fmt.Sprintf("User %d reserved seat %d", r.UserID, r.SeatID)
}

func promotionLines(lines []string, ps []models.Reservation) []string {
	for _, p := range ps {
		lines = append(lines, reservedLine(p))
	}
	return lines
}

func presentInitialize(out *service.InitializeOutput) []string {
	return promotionLines([]string{
		fmt.Sprintf("%d Seats are made available for reservation", out.SeatCount),
	}, out.Promotions)
}

func presentAvailable(out *service.AvailabilityOutput) []string {
	return []string{fmt.Sprintf("Total Seats Available: %d, Waitlist: %d", out.AvailableSeats, out.WaitlistLength)}
}

func presentReserve(out *service.ReserveOutput) []string {
	if out.Waitlisted {
		return []string{fmt.Sprintf("User %d is added to the waiting list", out.UserID)}
	}
	return []string{reservedLine(models.Reservation{UserID: out.UserID, SeatID: out.SeatID})}
}

func presentCancel(out *service.CancelOutput) []string {
	lines := []string{fmt.Sprintf("User %d canceled their reservation", out.UserID)}
	if out.Promotion != nil {
		lines = append(lines, reservedLine(*out.Promotion))
	}
	return lines
}

func presentExitWaitlist(out *service.CancelWaitlistOutput) []string {
	return []string{fmt.Sprintf("User %d is removed from the waiting list", out.UserID)}
}

func presentUpdatePriority(out *service.UpdatePriorityOutput) []string {
	if out.AlreadySeated {
		return []string{fmt.Sprintf("User %d already has a seat", out.UserID)}
	}
	return []string{fmt.Sprintf("User %d priority has been updated to %d", out.UserID, out.Priority)}
}

func presentAddSeats(out *service.AddSeatsOutput) []string {
	return promotionLines([]string{
		fmt.Sprintf("Additional %d Seats are made available for reservation", out.Added),
	}, out.Promotions)
}

func presentReservations(rs []models.Reservation) []string {
	if len(rs) == 0 {
		return []string{msgNoReservations}
	}
	lines := make([]string, len(rs))
	for i, r := range rs {
		lines[i] = fmt.Sprintf("Seat %d, User %d", r.SeatID, r.UserID)
	}
	return lines
}

func presentReleaseSeats(out *service.ReleaseSeatsOutput) []string {
	return promotionLines([]string{
		fmt.Sprintf("Reservations of the Users in the range [%d, %d] are released", out.LowUserID, out.HighUserID),
	}, out.Promotions)
}

// presentError renders a rejected command. Every service error has a line;
// anything else is reported verbatim.
func presentError(cmd Command, err error) string {
	switch {
	case errors.Is(err, service.ErrUserAlreadyReserved):
		return fmt.Sprintf("User %d already has a reservation", cmd.Args[0])
	case errors.Is(err, service.ErrUserAlreadyWaiting):
		return fmt.Sprintf("User %d is already in the waiting list", cmd.Args[0])
	case errors.Is(err, service.ErrReservationNotFound):
		return fmt.Sprintf("User %d has no reservation to cancel", cmd.Args[1])
	case errors.Is(err, service.ErrSeatMismatch):
		return fmt.Sprintf("User %d has no reservation for seat %d to cancel", cmd.Args[1], cmd.Args[0])
	case errors.Is(err, service.ErrNotWaiting) && cmd.Name == UpdatePriority:
		return fmt.Sprintf("User %d priority is not updated", cmd.Args[0])
	case errors.Is(err, service.ErrNotWaiting):
		return fmt.Sprintf("User %d is not in waitlist", cmd.Args[0])
	case errors.Is(err, service.ErrInvalidSeatCount):
		return msgInvalidSeatCount
	case errors.Is(err, service.ErrInvalidUserRange):
		return msgInvalidUserRange
	case errors.Is(err, service.ErrAlreadyInitialized):
		return "Seats are already initialized"
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func presentInvalid(line string) string {
	return fmt.Sprintf("Invalid command: %s", line)
}
