// Package waitlist orders users waiting for a seat by priority, highest
// first, breaking ties by arrival order.
package waitlist

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/vogiaan1904/ticketbottle-seating/internal/models"
)

var (
	ErrEmpty         = errors.New("waitlist is empty")
	ErrNotFound      = errors.New("user not in waitlist")
	ErrDuplicateUser = errors.New("user already in waitlist")
)

type item struct {
	userID   int64
	priority int64
	arrival  uint64
	index    int
}

type entryHeap []*item

func (h entryHeap) Len() int { return len(h) }

// Less reports whether i outranks j.
func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].arrival < h[j].arrival
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	it := x.(*item)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1 // for safety
	*h = old[0 : n-1]
	return it
}

type Queue struct {
	entries entryHeap
	arrival uint64
}

func New() *Queue {
	return &Queue{entries: entryHeap{}}
}

func (q *Queue) Len() int { return len(q.entries) }

// Insert queues a user behind every entry of equal or higher priority.
func (q *Queue) Insert(userID, priority int64) error {
	if q.find(userID) != nil {
		return fmt.Errorf("%w: %d", ErrDuplicateUser, userID)
	}
	q.arrival++
	heap.Push(&q.entries, &item{
		userID:   userID,
		priority: priority,
		arrival:  q.arrival,
	})
	return nil
}

// ExtractTop removes and returns the highest ranked entry.
func (q *Queue) ExtractTop() (models.WaitlistEntry, error) {
	if len(q.entries) == 0 {
		return models.WaitlistEntry{}, ErrEmpty
	}
	it := heap.Pop(&q.entries).(*item)
	return it.entry(), nil
}

func (q *Queue) PeekTop() (models.WaitlistEntry, error) {
	if len(q.entries) == 0 {
		return models.WaitlistEntry{}, ErrEmpty
	}
	return q.entries[0].entry(), nil
}

func (q *Queue) Contains(userID int64) bool {
	return q.find(userID) != nil
}

// Priority returns the current priority of a waiting user.
func (q *Queue) Priority(userID int64) (int64, error) {
	it := q.find(userID)
	if it == nil {
		return 0, fmt.Errorf("%w: %d", ErrNotFound, userID)
	}
	return it.priority, nil
}

// RemoveUser takes a user out of the queue wherever it sits. Locating the
// entry is a linear scan.
func (q *Queue) RemoveUser(userID int64) (models.WaitlistEntry, error) {
	it := q.find(userID)
	if it == nil {
		return models.WaitlistEntry{}, fmt.Errorf("%w: %d", ErrNotFound, userID)
	}
	heap.Remove(&q.entries, it.index)
	return it.entry(), nil
}

// RemoveRange drops every user with lo <= id <= hi and rebuilds the heap.
// Survivors keep their arrival order.
func (q *Queue) RemoveRange(lo, hi int64) []models.WaitlistEntry {
	var removed []models.WaitlistEntry
	kept := q.entries[:0]
	for _, it := range q.entries {
		if it.userID >= lo && it.userID <= hi {
			removed = append(removed, it.entry())
			continue
		}
		kept = append(kept, it)
	}
	for i := len(kept); i < len(q.entries); i++ {
		q.entries[i] = nil
	}
	q.entries = kept
	for i, it := range q.entries {
		it.index = i
	}
	heap.Init(&q.entries)
	return removed
}

// Entries returns the waiting users in promotion order.
func (q *Queue) Entries() []models.WaitlistEntry {
	cp := make(entryHeap, len(q.entries))
	for i, it := range q.entries {
		c := *it
		cp[i] = &c
	}
	out := make([]models.WaitlistEntry, 0, len(cp))
	for cp.Len() > 0 {
		out = append(out, heap.Pop(&cp).(*item).entry())
	}
	return out
}

func (q *Queue) find(userID int64) *item {
	for _, it := range q.entries {
		if it.userID == userID {
			return it
		}
	}
	return nil
}

func (it *item) entry() models.WaitlistEntry {
	return models.WaitlistEntry{
		UserID:   it.userID,
		Priority: it.priority,
	}
}
