package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformed = errors.New("malformed command")

type Name string

const (
	Initialize        Name = "Initialize"
	Available         Name = "Available"
	Reserve           Name = "Reserve"
	Cancel            Name = "Cancel"
	ExitWaitlist      Name = "ExitWaitlist"
	UpdatePriority    Name = "UpdatePriority"
	AddSeats          Name = "AddSeats"
	PrintReservations Name = "PrintReservations"
	ReleaseSeats      Name = "ReleaseSeats"
	Quit              Name = "Quit"
)

// arity is the number of integer arguments each command takes.
var arity = map[Name]int{
	Initialize:        1,
	Available:         0,
	Reserve:           2,
	Cancel:            2,
	ExitWaitlist:      1,
	UpdatePriority:    2,
	AddSeats:          1,
	PrintReservations: 0,
	ReleaseSeats:      2,
	Quit:              0,
}

type Command struct {
	Name Name
	Args []int64
	Raw  string
}

// Parse reads one line of the form Name(arg, ...). Surrounding whitespace
// and whitespace around arguments are ignored.
func Parse(line string) (Command, error) {
	raw := strings.TrimSpace(line)
	open := strings.IndexByte(raw, '(')
	if open <= 0 || !strings.HasSuffix(raw, ")") {
		return Command{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}

	name := Name(strings.TrimSpace(raw[:open]))
	want, ok := arity[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: unknown command %q", ErrMalformed, name)
	}

	body := strings.TrimSpace(raw[open+1 : len(raw)-1])
	var args []int64
	if body != "" {
		for _, part := range strings.Split(body, ",") {
			n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return Command{}, fmt.Errorf("%w: argument %q: %v", ErrMalformed, part, err)
			}
			args = append(args, n)
		}
	}
	if len(args) != want {
		return Command{}, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrMalformed, name, want, len(args))
	}

	return Command{Name: name, Args: args, Raw: raw}, nil
}
