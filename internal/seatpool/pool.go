// Package seatpool keeps the free seats of a venue in a min-heap so the
// lowest numbered seat is always handed out first.
package seatpool

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	ErrEmpty              = errors.New("no free seats")
	ErrInvariantViolation = errors.New("seat already free")
	ErrInvalidSeat        = errors.New("invalid seat id")
)

type seatHeap []int64

func (h seatHeap) Len() int           { return len(h) }
func (h seatHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h seatHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *seatHeap) Push(x any) {
	*h = append(*h, x.(int64))
}

func (h *seatHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

type Pool struct {
	seats seatHeap
	free  map[int64]struct{}
}

// New returns a pool holding seats 1..k.
func New(k int64) *Pool {
	p := &Pool{
		seats: seatHeap{},
		free:  make(map[int64]struct{}),
	}
	if k > 0 {
		_ = p.AddRange(1, k)
	}
	return p
}

func (p *Pool) Len() int { return len(p.seats) }

func (p *Pool) Contains(seat int64) bool {
	_, ok := p.free[seat]
	return ok
}

// AddRange frees seats from..to inclusive and rebuilds the heap in linear time.
func (p *Pool) AddRange(from, to int64) error {
	// to must stay below MaxInt64 so the s <= to loops terminate.
	if from < 1 || to < from || to == math.MaxInt64 {
		return fmt.Errorf("%w: range [%d, %d]", ErrInvalidSeat, from, to)
	}
	for s := from; s <= to; s++ {
		if p.Contains(s) {
			return fmt.Errorf("%w: %d", ErrInvariantViolation, s)
		}
	}

	p.seats = slices.Grow(p.seats, int(to-from+1))
	for s := from; s <= to; s++ {
		p.seats = append(p.seats, s)
		p.free[s] = struct{}{}
	}
	heap.Init(&p.seats)
	return nil
}

// Insert returns a single seat to the pool.
func (p *Pool) Insert(seat int64) error {
	if seat < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	}
	if p.Contains(seat) {
		return fmt.Errorf("%w: %d", ErrInvariantViolation, seat)
	}
	heap.Push(&p.seats, seat)
	p.free[seat] = struct{}{}
	return nil
}

// ExtractMin removes and returns the lowest free seat.
func (p *Pool) ExtractMin() (int64, error) {
	if len(p.seats) == 0 {
		return 0, ErrEmpty
	}
	seat := heap.Pop(&p.seats).(int64)
	delete(p.free, seat)
	return seat, nil
}

func (p *Pool) PeekMin() (int64, error) {
	if len(p.seats) == 0 {
		return 0, ErrEmpty
	}
	return p.seats[0], nil
}

// Seats returns the free seats in ascending order.
func (p *Pool) Seats() []int64 {
	out := slices.Clone(p.seats)
	slices.Sort(out)
	return out
}
