// Package schedule runs delayed work on a single goroutine.
//
// A Scheduler keeps a virtual clock and an ordered queue of tasks. Nothing
// runs on its own: a driver advances the clock, either against wall time
// (the terminal UI) or instantly (tests and scripted runs). Tasks due at the
// same instant run in the order they were scheduled.
package schedule

import (
	"container/heap"
	"errors"
	"time"
)

// ErrRunaway is returned when RunUntilIdle exceeds its task budget.
var ErrRunaway = errors.New("schedule: task budget exhausted")

type task struct {
	name string
	due  time.Duration
	seq  uint64
	run  func()
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].seq < q[j].seq
	}
	return q[i].due < q[j].due
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// Scheduler orders delayed tasks on a virtual clock.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue taskQueue
	ran   int
}

// New returns a Scheduler with its clock at zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now reports the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once the clock has advanced by d.
func (s *Scheduler) After(d time.Duration, name string, fn func()) {
	if d < 0 {
		d = 0
	}
	s.seq++
	heap.Push(&s.queue, &task{name: name, due: s.now + d, seq: s.seq, run: fn})
}

// Next reports when the earliest pending task is due.
func (s *Scheduler) Next() (time.Duration, bool) {
	if len(s.queue) == 0 {
		return 0, false
	}
	return s.queue[0].due, true
}

// Pending lists the names of queued tasks, earliest first.
func (s *Scheduler) Pending() []string {
	sorted := make(taskQueue, len(s.queue))
	copy(sorted, s.queue)
	names := make([]string, 0, len(sorted))
	for sorted.Len() > 0 {
		names = append(names, heap.Pop(&sorted).(*task).name)
	}
	return names
}

// Ran reports how many tasks have run so far.
func (s *Scheduler) Ran() int {
	return s.ran
}

// RunNext moves the clock to the earliest task and runs it.
func (s *Scheduler) RunNext() bool {
	if len(s.queue) == 0 {
		return false
	}
	t := heap.Pop(&s.queue).(*task)
	if t.due > s.now {
		s.now = t.due
	}
	s.ran++
	t.run()
	return true
}

// AdvanceTo runs every task due at or before t, including tasks scheduled
// by those tasks, and leaves the clock at t. It returns the number of tasks run.
func (s *Scheduler) AdvanceTo(t time.Duration) int {
	n := 0
	for len(s.queue) > 0 && s.queue[0].due <= t {
		s.RunNext()
		n++
	}
	if t > s.now {
		s.now = t
	}
	return n
}

// Advance moves the clock forward by d.
func (s *Scheduler) Advance(d time.Duration) int {
	return s.AdvanceTo(s.now + d)
}

// RunUntilIdle runs tasks until the queue is empty. At most limit tasks run;
// a non-positive limit means no limit.
func (s *Scheduler) RunUntilIdle(limit int) (int, error) {
	n := 0
	for len(s.queue) > 0 {
		if limit > 0 && n >= limit {
			return n, ErrRunaway
		}
		s.RunNext()
		n++
	}
	return n, nil
}
