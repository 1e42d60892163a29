// Package compute provides the fork-join worker pool used by the parallel
// integration path.
//
// A [Pool] splits an index range into disjoint contiguous chunks and runs
// each chunk on its own goroutine, returning only after every chunk is done:
//
//	pool := compute.NewPool(0) // runtime.NumCPU() workers
//	pool.For(len(bodies), func(start, end int) {
//	    for i := start; i < end; i++ {
//	        out[i] = work(i)
//	    }
//	})
//
// Callers own the output slots; the pool never shares state between chunks,
// so writes partitioned by index need no locking.
package compute
