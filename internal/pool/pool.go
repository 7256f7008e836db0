// Package pool implements the fixed-size worker pool that both directory
// traversal and file searching run on. It generalizes the teacher's
// directory-walking worker loop (a condvar-guarded growable queue with a
// pending counter) to arbitrary units of work, so the same pool can
// absorb directory tasks that spawn more directory tasks as they run
// and, independently, one task per discovered file.
package pool

import (
	"runtime"
	"sync"

	"github.com/mlathara/axgrep/internal/stats"
)

// Task is a unit of work handed to a pool worker. It receives the
// worker's own Stats handle so counters can be updated without
// contention, and may call Pool.Submit to enqueue more work (as
// directory traversal does when it discovers a subdirectory).
type Task func(workerStats *stats.Stats)

// Pool runs Tasks on a fixed number of goroutines. Work can be enqueued
// before Run starts or from inside a running Task; Run returns once the
// queue is empty and no task is in flight.
type Pool struct {
	workers int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Task
	pending int
	done    bool
}

// New returns a Pool with the given number of workers. A workers value
// <= 0 defaults to runtime.NumCPU().
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{workers: workers}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Submit enqueues a task. Safe to call before Run, or from within a
// Task running on one of this pool's own workers.
func (p *Pool) Submit(t Task) {
	p.mu.Lock()
	p.queue = append(p.queue, t)
	p.pending++
	p.mu.Unlock()
	p.cond.Signal()
}

func (p *Pool) dequeue() (Task, bool) {
	p.mu.Lock()
	for len(p.queue) == 0 && !p.done {
		p.cond.Wait()
	}
	if p.done && len(p.queue) == 0 {
		p.mu.Unlock()
		return nil, false
	}
	t := p.queue[0]
	p.queue = p.queue[1:]
	p.mu.Unlock()
	return t, true
}

func (p *Pool) finish() {
	p.mu.Lock()
	p.pending--
	if p.pending == 0 && len(p.queue) == 0 {
		p.done = true
		p.cond.Broadcast()
	}
	p.mu.Unlock()
}

// Run starts the worker goroutines, runs every submitted (and
// subsequently self-submitted) task to completion, merges each
// worker's Stats into a single total, and returns it. Run blocks until
// the pool is fully quiescent.
func (p *Pool) Run() *stats.Stats {
	total := stats.New()

	p.mu.Lock()
	empty := len(p.queue) == 0
	p.mu.Unlock()
	if empty {
		return total
	}

	var wg sync.WaitGroup
	workerStats := make([]*stats.Stats, p.workers)
	for i := range workerStats {
		workerStats[i] = stats.New()
	}

	for i := range p.workers {
		wg.Add(1)
		go func(ws *stats.Stats) {
			defer wg.Done()
			for {
				task, ok := p.dequeue()
				if !ok {
					return
				}
				task(ws)
				p.finish()
			}
		}(workerStats[i])
	}
	wg.Wait()

	for _, ws := range workerStats {
		total.Merge(ws)
	}
	return total
}
