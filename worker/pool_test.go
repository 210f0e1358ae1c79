package worker

import (
	"sync/atomic"
	"testing"

	"lightbake/arena"
)

type countingTask struct {
	ran *int32
}

func (t *countingTask) Perform(tb Toolbox) {
	atomic.AddInt32(t.ran, 1)
}

func TestPoolLiveness(t *testing.T) {
	heap := arena.New(1 << 20)
	const n = 500
	pool := NewPool(heap, 4, 16, n, func(workerID int) Toolbox { return workerID })

	var ran int32
	tasks := make([]*countingTask, n)
	for i := range tasks {
		tasks[i] = &countingTask{ran: &ran}
		pool.Enqueue(tasks[i])
	}

	pool.Begin()
	pool.Join()

	if int(ran) != n {
		t.Errorf("expected every task to run exactly once, ran count = %d, want %d", ran, n)
	}
	completed := pool.Completed()
	if len(completed) != n {
		t.Errorf("expected %d completed tasks, got %d", n, len(completed))
	}
}

func TestSeedForIsDeterministicPerWorker(t *testing.T) {
	if SeedFor(0) == SeedFor(1) {
		t.Error("expected distinct seeds for distinct worker ids")
	}
	if SeedFor(3) != 2654435761+374761393*3 {
		t.Errorf("unexpected seed formula result: %d", SeedFor(3))
	}
}
