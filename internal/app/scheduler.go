package app

import (
    "sync"
    "time"

    "github.com/benbjohnson/clock"
)

// Task is a handle on a scheduled continuation.
type Task struct {
    id    uint64
    sched *Scheduler
}

// Stop cancels the task. It reports false if the task already fired or was
// stopped before.
func (t Task) Stop() bool {
    if t.sched == nil {
        return false
    }
    return t.sched.stop(t.id)
}

// Scheduler runs callbacks after a delay without blocking the caller. Every
// outstanding callback can be cancelled at once.
type Scheduler struct {
    clock clock.Clock

    mu      sync.Mutex
    next    uint64
    pending map[uint64]*clock.Timer
}

// NewScheduler returns a scheduler driven by c, or by the wall clock when c is nil.
func NewScheduler(c clock.Clock) *Scheduler {
    if c == nil {
        c = clock.New()
    }
    return &Scheduler{clock: c, pending: make(map[uint64]*clock.Timer)}
}

// After runs fn once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) Task {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.next++
    id := s.next
    s.pending[id] = s.clock.AfterFunc(d, func() {
        s.mu.Lock()
        _, live := s.pending[id]
        delete(s.pending, id)
        s.mu.Unlock()
        if live {
            fn()
        }
    })
    return Task{id: id, sched: s}
}

// CancelAll stops every outstanding task and returns how many were stopped.
func (s *Scheduler) CancelAll() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    n := 0
    for id, t := range s.pending {
        t.Stop()
        delete(s.pending, id)
        n++
    }
    return n
}

// Pending returns the number of tasks that have neither fired nor been stopped.
func (s *Scheduler) Pending() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return len(s.pending)
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

func (s *Scheduler) stop(id uint64) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    t, ok := s.pending[id]
    if !ok {
        return false
    }
    delete(s.pending, id)
    t.Stop()
    return true
}
