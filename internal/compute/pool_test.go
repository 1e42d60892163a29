package compute

import (
	"sync"
	"testing"
)

func TestPoolForCoversRange(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		n       int
	}{
		{"empty", 4, 0},
		{"inline", 4, 10},
		{"single worker", 1, 1000},
		{"uneven split", 3, 1001},
		{"more workers than chunks", 64, 100},
		{"default workers", 0, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.workers)
			hits := make([]int, tt.n)

			pool.For(tt.n, func(start, end int) {
				for i := start; i < end; i++ {
					hits[i]++
				}
			})

			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestPoolForDisjointRanges(t *testing.T) {
	pool := NewPool(8).WithMinChunk(4)

	var mu sync.Mutex
	var ranges [][2]int
	pool.For(100, func(start, end int) {
		mu.Lock()
		ranges = append(ranges, [2]int{start, end})
		mu.Unlock()
	})

	if len(ranges) > 8 {
		t.Errorf("expected at most 8 ranges, got %d", len(ranges))
	}

	total := 0
	for _, r := range ranges {
		if r[0] >= r[1] {
			t.Errorf("empty range %v", r)
		}
		total += r[1] - r[0]
	}
	if total != 100 {
		t.Errorf("ranges cover %d items, want 100", total)
	}
}

func TestPoolEach(t *testing.T) {
	pool := NewPool(4)
	out := make([]int, 257)

	pool.Each(len(out), func(i int) {
		out[i] = i * i
	})

	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestNewPoolDefaults(t *testing.T) {
	if NewPool(0).Workers() < 1 {
		t.Error("default pool has no workers")
	}
	if NewPool(-3).Workers() < 1 {
		t.Error("negative worker count not replaced")
	}
	if got := NewPool(5).Workers(); got != 5 {
		t.Errorf("Workers() = %d, want 5", got)
	}
}

func BenchmarkPoolFor(b *testing.B) {
	pool := NewPool(0)
	out := make([]float64, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.For(len(out), func(start, end int) {
			for j := start; j < end; j++ {
				out[j] += 1
			}
		})
	}
}
