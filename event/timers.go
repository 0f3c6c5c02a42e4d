package event

import (
	"slices"
	"sync"
	"time"
)

// Scheduler runs a callback after a delay. The returned function cancels
// the callback if it has not run yet and reports whether it did so.
//
// Callbacks must be delivered on the goroutine that feeds native events to
// the manager; the manager does no locking of its own.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// loopTimer is a pending LoopScheduler callback.
type loopTimer struct {
	id      int
	fn      func()
	dueTime time.Time
	cleared bool
}

// LoopScheduler keeps timers in a list and runs the due ones whenever
// Process is called. It suits hosts that already have a frame or event
// loop, and tests that want to drive time by hand through Advance.
type LoopScheduler struct {
	mu     sync.Mutex
	timers map[int]*loopTimer
	nextID int
	now    time.Time
	// real clock unless Advance was called
	manual bool
}

// NewLoopScheduler creates a scheduler reading the wall clock.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{timers: make(map[int]*loopTimer), nextID: 1}
}

// NewManualScheduler creates a scheduler whose clock only moves through
// Advance.
func NewManualScheduler() *LoopScheduler {
	s := NewLoopScheduler()
	s.manual = true
	s.now = time.Unix(0, 0)
	return s
}

func (s *LoopScheduler) clock() time.Time {
	if s.manual {
		return s.now
	}
	return time.Now()
}

// AfterFunc schedules fn to run d from now.
func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	t := &loopTimer{id: id, fn: fn, dueTime: s.clock().Add(d)}
	s.timers[id] = t

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.timers[id]; !ok {
			return false
		}
		t.cleared = true
		delete(s.timers, id)
		return true
	}
}

// Process runs every due timer in due order and returns how many ran.
func (s *LoopScheduler) Process() int {
	s.mu.Lock()
	now := s.clock()
	var due []*loopTimer
	for _, t := range s.timers {
		if !t.cleared && !now.Before(t.dueTime) {
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	slices.SortFunc(due, func(a, b *loopTimer) int {
		if c := a.dueTime.Compare(b.dueTime); c != 0 {
			return c
		}
		return a.id - b.id
	})

	ran := 0
	for _, t := range due {
		s.mu.Lock()
		// cleared by an earlier callback in this batch
		if t.cleared {
			s.mu.Unlock()
			continue
		}
		delete(s.timers, t.id)
		s.mu.Unlock()

		t.fn()
		ran++
	}
	return ran
}

// Advance moves a manual clock forward by d and processes due timers. On a
// wall-clock scheduler it only processes.
func (s *LoopScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	if s.manual {
		s.now = s.now.Add(d)
	}
	s.mu.Unlock()
	return s.Process()
}

// Pending returns the number of timers not yet run.
func (s *LoopScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// NextDue returns the delay until the next timer fires, or -1 if none is
// pending.
func (s *LoopScheduler) NextDue() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.timers) == 0 {
		return -1
	}
	now := s.clock()
	next := time.Duration(-1)
	for _, t := range s.timers {
		d := t.dueTime.Sub(now)
		if d <= 0 {
			return 0
		}
		if next < 0 || d < next {
			next = d
		}
	}
	return next
}

// AsyncScheduler runs callbacks on real timers and hands them to Post,
// which must move them onto the goroutine that owns the manager.
type AsyncScheduler struct {
	Post func(fn func())
}

// AfterFunc schedules fn with time.AfterFunc. It panics if Post is nil,
// since fn would otherwise run on the timer goroutine.
func (s AsyncScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	if s.Post == nil {
		panic("event: AsyncScheduler has no Post hook")
	}
	t := time.AfterFunc(d, func() { s.Post(fn) })
	return t.Stop
}

// namedTimers owns the manager's named one-shot timers. Setting a name
// cancels whatever was armed under it. Callbacks that arrive after their
// name was cleared or re-armed are dropped, which covers schedulers that
// cannot recall a callback already in flight.
type namedTimers struct {
	sched Scheduler
	gen   uint64
	armed map[string]armedTimer
}

type armedTimer struct {
	gen  uint64
	stop func() bool
}

func newNamedTimers(sched Scheduler) *namedTimers {
	return &namedTimers{sched: sched, armed: make(map[string]armedTimer)}
}

func (t *namedTimers) set(name string, d time.Duration, fn func()) {
	t.clear(name)
	t.gen++
	gen := t.gen
	stop := t.sched.AfterFunc(d, func() {
		if a, ok := t.armed[name]; !ok || a.gen != gen {
			return
		}
		delete(t.armed, name)
		fn()
	})
	t.armed[name] = armedTimer{gen: gen, stop: stop}
}

func (t *namedTimers) clear(name string) {
	if a, ok := t.armed[name]; ok {
		a.stop()
		delete(t.armed, name)
	}
}

func (t *namedTimers) has(name string) bool {
	_, ok := t.armed[name]
	return ok
}

func (t *namedTimers) clearAll() {
	for name := range t.armed {
		t.clear(name)
	}
}
