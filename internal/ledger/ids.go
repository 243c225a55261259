package ledger

import (
	"sync"
	"time"

	"budget/internal/core"
)

// Clock supplies the current time. Today's calendar date is taken in the
// clock's location.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the local wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// IDGenerator mints transaction ids unique within a session.
type IDGenerator interface {
	NextID() int64
	// Observe tells the generator about an id already in use.
	Observe(id int64)
}

// Sequence issues millisecond timestamps as ids, bumping past the last
// issued or observed id so two ids minted in the same instant never collide.
type Sequence struct {
	mu    sync.Mutex
	clock Clock
	last  int64
}

func NewSequence(clock Clock) *Sequence {
	if clock == nil {
		clock = SystemClock
	}
	return &Sequence{clock: clock}
}

func (s *Sequence) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.clock.Now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

func (s *Sequence) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.last {
		s.last = id
	}
}

func today(c Clock) core.Date {
	return core.DateOf(c.Now())
}
