package segmentation

import (
	"sync/atomic"
	"testing"
)

func TestWorkerPool_ProcessesAllJobs(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Close()

	var counter int64
	const jobs = 100
	for i := 0; i < jobs; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}
	pool.Wait()

	if got := atomic.LoadInt64(&counter); got != jobs {
		t.Errorf("Expected %d jobs processed, got %d", jobs, got)
	}
}

func TestWorkerPool_DefaultsWorkerCount(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.workers <= 0 {
		t.Errorf("Expected a positive default worker count, got %d", pool.workers)
	}
}

func TestWorkerPool_StartIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Start()
	defer pool.Close()

	done := make(chan struct{})
	pool.Submit(func() { close(done) })
	<-done
}
