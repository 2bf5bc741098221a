package index

import (
	"errors"
	"math/bits"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestTreeInsertFindDelete(t *testing.T) {
	tree := New[int64, int64]()
	if err := tree.Insert(10, 1); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := tree.Insert(20, 2); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	seat, err := tree.Find(10)
	if err != nil || seat != 1 {
		t.Errorf("Find(10) = %d, %v; want 1, nil", seat, err)
	}

	if err := tree.Insert(10, 3); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
	if seat, _ := tree.Find(10); seat != 1 {
		t.Errorf("duplicate insert overwrote value: got %d", seat)
	}

	seat, err = tree.Delete(10)
	if err != nil || seat != 1 {
		t.Errorf("Delete(10) = %d, %v; want 1, nil", seat, err)
	}
	if _, err := tree.Find(10); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected key 10 to be gone, got %v", err)
	}
	if _, err := tree.Delete(10); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound on second delete, got %v", err)
	}
	if tree.Len() != 1 {
		t.Errorf("expected len 1, got %d", tree.Len())
	}
}

func TestTreeAscendIsOrderedAndRestartable(t *testing.T) {
	tree := New[int64, int64]()
	for _, k := range []int64{50, 20, 80, 10, 30, 70, 90, 60} {
		if err := tree.Insert(k, k*10); err != nil {
			t.Fatal(err)
		}
	}

	want := []int64{10, 20, 30, 50, 60, 70, 80, 90}
	for pass := 0; pass < 2; pass++ {
		var got []int64
		for k, v := range tree.Ascend() {
			if v != k*10 {
				t.Errorf("key %d carries value %d", k, v)
			}
			got = append(got, k)
		}
		if !slices.Equal(got, want) {
			t.Errorf("pass %d: got %v, want %v", pass, got, want)
		}
	}

	// early stop
	n := 0
	for range tree.Ascend() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("expected to stop after 3, got %d", n)
	}
}

func TestTreeRange(t *testing.T) {
	tree := New[int64, int64]()
	for k := int64(1); k <= 20; k += 2 {
		if err := tree.Insert(k, k); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		lo, hi int64
		want   []int64
	}{
		{"inner", 4, 11, []int64{5, 7, 9, 11}},
		{"exact bounds", 5, 9, []int64{5, 7, 9}},
		{"below all", -10, 0, nil},
		{"above all", 21, 40, nil},
		{"covers all", 0, 100, []int64{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}},
		{"inverted", 9, 5, nil},
		{"single", 13, 13, []int64{13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int64
			for k := range tree.Range(tt.lo, tt.hi) {
				got = append(got, k)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Range(%d, %d) = %v, want %v", tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestTreeStaysBalancedUnderInterleavedOps(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))
	tree := New[int64, int64]()
	present := map[int64]int64{}

	for i := 0; i < 5000; i++ {
		k := rng.Int64N(800)
		if rng.IntN(3) == 0 {
			_, err := tree.Delete(k)
			if _, ok := present[k]; ok {
				if err != nil {
					t.Fatalf("Delete(%d): %v", k, err)
				}
				delete(present, k)
			} else if !errors.Is(err, ErrKeyNotFound) {
				t.Fatalf("Delete(%d) of absent key: %v", k, err)
			}
		} else {
			err := tree.Insert(k, int64(i))
			if _, ok := present[k]; ok {
				if !errors.Is(err, ErrDuplicateKey) {
					t.Fatalf("Insert(%d) of present key: %v", k, err)
				}
			} else {
				if err != nil {
					t.Fatalf("Insert(%d): %v", k, err)
				}
				present[k] = int64(i)
			}
		}

		if i%50 == 0 {
			if err := tree.Validate(); err != nil {
				t.Fatalf("after op %d: %v", i, err)
			}
		}
	}

	if err := tree.Validate(); err != nil {
		t.Fatal(err)
	}
	if tree.Len() != len(present) {
		t.Fatalf("len %d, want %d", tree.Len(), len(present))
	}
	limit := 2 * bits.Len(uint(tree.Len()+1))
	if h := tree.Height(); h > limit {
		t.Errorf("height %d exceeds 2*log2(n+1) = %d", h, limit)
	}
	for k, v := range present {
		got, err := tree.Find(k)
		if err != nil || got != v {
			t.Errorf("Find(%d) = %d, %v; want %d", k, got, err, v)
		}
	}
}

func TestTreeDrainToEmpty(t *testing.T) {
	tree := New[int64, string]()
	keys := []int64{8, 4, 12, 2, 6, 10, 14, 1, 3, 5, 7, 9, 11, 13, 15}
	for _, k := range keys {
		if err := tree.Insert(k, "x"); err != nil {
			t.Fatal(err)
		}
	}
	// Sequential deletes from the low end exercise every sibling case.
	for _, k := range []int64{1, 2, 3, 4, 5, 6, 7, 8, 15, 14, 13, 12, 11, 10, 9} {
		if _, err := tree.Delete(k); err != nil {
			t.Fatalf("Delete(%d): %v", k, err)
		}
		if err := tree.Validate(); err != nil {
			t.Fatalf("after deleting %d: %v", k, err)
		}
	}
	if tree.Len() != 0 || tree.Height() != 0 {
		t.Errorf("expected empty tree, len=%d height=%d", tree.Len(), tree.Height())
	}
	if _, _, ok := tree.Min(); ok {
		t.Error("Min on empty tree reported a key")
	}
}
