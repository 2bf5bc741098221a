package seatpool

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestPoolExtractsLowestFirst(t *testing.T) {
	p := New(3)
	for want := int64(1); want <= 3; want++ {
		got, err := p.ExtractMin()
		if err != nil {
			t.Fatalf("ExtractMin: %v", err)
		}
		if got != want {
			t.Errorf("expected seat %d, got %d", want, got)
		}
	}
	if _, err := p.ExtractMin(); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := p.PeekMin(); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty from PeekMin, got %v", err)
	}
}

func TestPoolInsertKeepsHeapOrder(t *testing.T) {
	p := New(0)
	for _, s := range []int64{9, 4, 7, 1, 8, 2} {
		if err := p.Insert(s); err != nil {
			t.Fatalf("Insert(%d): %v", s, err)
		}
	}
	if top, _ := p.PeekMin(); top != 1 {
		t.Errorf("PeekMin = %d, want 1", top)
	}
	if p.Len() != 6 {
		t.Errorf("PeekMin changed length: %d", p.Len())
	}

	var got []int64
	for p.Len() > 0 {
		s, _ := p.ExtractMin()
		got = append(got, s)
	}
	if want := []int64{1, 2, 4, 7, 8, 9}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPoolRejectsDuplicateSeat(t *testing.T) {
	p := New(2)
	if err := p.Insert(2); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("expected ErrInvariantViolation, got %v", err)
	}
	if err := p.AddRange(2, 4); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("expected ErrInvariantViolation for overlapping range, got %v", err)
	}
	if p.Len() != 2 {
		t.Errorf("rejected inserts changed the pool: len=%d", p.Len())
	}
	if err := p.Insert(0); !errors.Is(err, ErrInvalidSeat) {
		t.Errorf("expected ErrInvalidSeat, got %v", err)
	}
}

func TestPoolAddRangeAfterExtraction(t *testing.T) {
	p := New(2)
	if _, err := p.ExtractMin(); err != nil {
		t.Fatal(err)
	}
	if err := p.AddRange(3, 5); err != nil {
		t.Fatal(err)
	}
	if got, want := p.Seats(), []int64{2, 3, 4, 5}; !slices.Equal(got, want) {
		t.Errorf("Seats() = %v, want %v", got, want)
	}
	if !p.Contains(4) || p.Contains(1) {
		t.Error("Contains disagrees with pool contents")
	}
}

func TestPoolAddRangeRejectsBadBounds(t *testing.T) {
	tests := []struct {
		name     string
		from, to int64
	}{
		{"zero start", 0, 3},
		{"inverted", 5, 4},
		{"ends at max int64", math.MaxInt64 - 1, math.MaxInt64},
		{"single max int64", math.MaxInt64, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(1)
			if err := p.AddRange(tt.from, tt.to); !errors.Is(err, ErrInvalidSeat) {
				t.Fatalf("AddRange(%d, %d) = %v, want ErrInvalidSeat", tt.from, tt.to, err)
			}
			if p.Len() != 1 {
				t.Errorf("rejected range changed the pool: len=%d", p.Len())
			}
		})
	}
}
