package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"privateai/internal/models"
)

// DefaultDebounce is the flush delay applied to bursts of mutations.
const DefaultDebounce = 150 * time.Millisecond

// Saver coalesces save requests. Every mutation marks it dirty with a
// fresh snapshot; bursts within the debounce window collapse into a
// single write carrying the latest snapshot. Close flushes whatever is
// still pending, so the last enqueued write always completes.
type Saver struct {
	store *Store
	delay time.Duration

	snapshots chan []*models.Session
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewSaver starts the background flush loop.
func NewSaver(store *Store, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	s := &Saver{
		store:     store,
		delay:     delay,
		snapshots: make(chan []*models.Session, 1),
		stop:      make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// MarkDirty records the latest collection snapshot and schedules a
// flush. The snapshot must be a deep copy; the saver keeps it beyond
// the call. Newer snapshots supersede queued ones: last write wins.
func (s *Saver) MarkDirty(snapshot []*models.Session) {
	for {
		select {
		case s.snapshots <- snapshot:
			return
		default:
		}
		// Queue full: discard the superseded snapshot and retry.
		select {
		case <-s.snapshots:
		default:
		}
	}
}

// Close flushes any pending snapshot and stops the loop. Safe to call
// more than once.
func (s *Saver) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

func (s *Saver) loop() {
	defer s.wg.Done()

	var pending []*models.Session
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case snap := <-s.snapshots:
			pending = snap
			if timer == nil {
				timer = time.NewTimer(s.delay)
				timerC = timer.C
			}
			// A running timer is left alone so the burst coalesces
			// into the already-scheduled flush.

		case <-timerC:
			timer = nil
			timerC = nil
			s.flush(pending)
			pending = nil

		case <-s.stop:
			if timer != nil {
				timer.Stop()
			}
			select {
			case snap := <-s.snapshots:
				pending = snap
			default:
			}
			if pending != nil {
				s.flush(pending)
			}
			return
		}
	}
}

func (s *Saver) flush(sessions []*models.Session) {
	if err := s.store.Save(sessions); err != nil {
		log.Warn().Err(err).Msg("Failed to flush sessions to disk")
	}
}
