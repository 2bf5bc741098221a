package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vogiaan1904/ticketbottle-seating/internal/service"
	"github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
)

type Result struct {
	Command Name
	Lines   []string
	Quit    bool
}

// Executor runs one command line and renders its report. Rejected and
// malformed commands produce report lines, never errors.
type Executor interface {
	Execute(ctx context.Context, line string) Result
}

type implExecutor struct {
	svc service.ReservationService
	l   logger.Logger
}

func NewExecutor(svc service.ReservationService, l logger.Logger) Executor {
	return &implExecutor{
		svc: svc,
		l:   l,
	}
}

func (e *implExecutor) Execute(ctx context.Context, line string) Result {
	cmd, err := Parse(line)
	if err != nil {
		e.l.Warnf(ctx, "delivery.command.Execute: %v", err)
		return Result{Lines: []string{presentInvalid(strings.TrimSpace(line))}}
	}

	lines, err := e.dispatch(ctx, cmd)
	if err != nil {
		return Result{Command: cmd.Name, Lines: []string{presentError(cmd, err)}}
	}

	return Result{Command: cmd.Name, Lines: lines, Quit: cmd.Name == Quit}
}

func (e *implExecutor) dispatch(ctx context.Context, cmd Command) ([]string, error) {
	a := cmd.Args
	switch cmd.Name {
	case Initialize:
		out, err := e.svc.Initialize(ctx, a[0])
		if err != nil {
			return nil, err
		}
		return presentInitialize(out), nil
	case Available:
		out, err := e.svc.Available(ctx)
		if err != nil {
			return nil, err
		}
		return presentAvailable(out), nil
	case Reserve:
		out, err := e.svc.Reserve(ctx, a[0], a[1])
		if err != nil {
			return nil, err
		}
		return presentReserve(out), nil
	case Cancel:
		// Cancel(seat, user)
		out, err := e.svc.Cancel(ctx, a[1], a[0])
		if err != nil {
			return nil, err
		}
		return presentCancel(out), nil
	case ExitWaitlist:
		out, err := e.svc.CancelWaitlist(ctx, a[0])
		if err != nil {
			return nil, err
		}
		return presentExitWaitlist(out), nil
	case UpdatePriority:
		out, err := e.svc.UpdatePriority(ctx, a[0], a[1])
		if err != nil {
			return nil, err
		}
		return presentUpdatePriority(out), nil
	case AddSeats:
		out, err := e.svc.AddSeats(ctx, a[0])
		if err != nil {
			return nil, err
		}
		return presentAddSeats(out), nil
	case PrintReservations:
		rs, err := e.svc.Reservations(ctx)
		if err != nil {
			return nil, err
		}
		return presentReservations(rs), nil
	case ReleaseSeats:
		out, err := e.svc.ReleaseSeats(ctx, a[0], a[1])
		if err != nil {
			return nil, err
		}
		return presentReleaseSeats(out), nil
	case Quit:
		return []string{msgTerminated}, nil
	default:
		return nil, fmt.Errorf("%w: unhandled command %q", ErrMalformed, cmd.Name)
	}
}

// Run feeds every non-blank line of r to ex and writes the report lines to
// w. It stops after Quit, at end of input or when ctx is done.
func Run(ctx context.Context, ex Executor, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	bw := bufio.NewWriter(w)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		res := ex.Execute(ctx, line)
		for _, l := range res.Lines {
			if _, err := fmt.Fprintln(bw, l); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		}
		if res.Quit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}

	return bw.Flush()
}
