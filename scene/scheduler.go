package scene

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// FrameID identifies a requested frame callback.
type FrameID uint64

// FrameScheduler runs frame callbacks cooperatively on the render thread.
// RequestFrame, CancelFrame and RunFrame belong to the render thread; Post
// may be called from any goroutine to hand work back to it.
type FrameScheduler struct {
	mu      sync.Mutex
	nextID  FrameID
	pending map[FrameID]func()
	posted  []func()
	frames  uint64
	logger  zerolog.Logger
}

// NewFrameScheduler creates an idle scheduler.
func NewFrameScheduler(logger zerolog.Logger) *FrameScheduler {
	return &FrameScheduler{
		pending: make(map[FrameID]func()),
		logger:  logger,
	}
}

// RequestFrame schedules fn for the next RunFrame.
func (s *FrameScheduler) RequestFrame(fn func()) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.pending[s.nextID] = fn
	return s.nextID
}

// CancelFrame drops a pending callback. Unknown ids are ignored.
func (s *FrameScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// Post queues fn to run at the start of the next RunFrame.
func (s *FrameScheduler) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

// Pending returns the number of frame callbacks waiting to run.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Frames returns how many frames have run.
func (s *FrameScheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// RunFrame drains posted work, then runs the frame callbacks requested
// before the call, in request order. Callbacks requested while the frame
// runs wait for the next one. A callback cancelled mid-frame does not run.
func (s *FrameScheduler) RunFrame() {
	s.mu.Lock()
	posted := s.posted
	s.posted = nil
	ids := make([]FrameID, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	s.frames++
	s.mu.Unlock()

	for _, fn := range posted {
		s.run(fn)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s.mu.Lock()
		fn, ok := s.pending[id]
		delete(s.pending, id)
		s.mu.Unlock()
		if ok {
			s.run(fn)
		}
	}
}

func (s *FrameScheduler) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("Frame callback panicked")
		}
	}()
	fn()
}
