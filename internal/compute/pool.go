package compute

import (
	"runtime"
	"sync"
)

// DefaultMinChunk is the smallest range worth handing to a separate goroutine.
const DefaultMinChunk = 16

type Pool struct {
	workers  int
	minChunk int
}

// NewPool returns a pool with the given number of workers. A non-positive
// count selects runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		workers:  workers,
		minChunk: DefaultMinChunk,
	}
}

// WithMinChunk sets the inline threshold. Ranges of at most minChunk items
// run on the calling goroutine.
func (p *Pool) WithMinChunk(minChunk int) *Pool {
	if minChunk < 1 {
		minChunk = 1
	}
	p.minChunk = minChunk
	return p
}

func (p *Pool) Workers() int { return p.workers }

// For executes fn over [0, n) split into at most Workers() disjoint ranges and
// blocks until all of them have returned.
func (p *Pool) For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n <= p.minChunk || p.workers <= 1 {
		fn(0, n)
		return
	}

	workers := p.workers
	if n/p.minChunk < workers {
		workers = n / p.minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// Each runs fn once per index in [0, n) using For.
func (p *Pool) Each(n int, fn func(i int)) {
	p.For(n, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
