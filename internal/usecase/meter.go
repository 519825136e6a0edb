package usecase

import (
	"sync"
	"time"

	"github.com/raihanetx/banglatoenglish/internal/ports"
)

// volumeMeter samples the live capture amplitude on a fixed cadence and
// forwards it to the UI. It is a cancellable periodic task tied to one
// recording cycle; stop always emits a final zero level.
type volumeMeter struct {
	rec      ports.Recording
	events   ports.EventSink
	interval time.Duration

	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

func newVolumeMeter(rec ports.Recording, events ports.EventSink, interval time.Duration) *volumeMeter {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &volumeMeter{
		rec:      rec,
		events:   events,
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (m *volumeMeter) start() {
	go m.run()
}

func (m *volumeMeter) run() {
	defer close(m.stopped)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.events.VolumeLevel(m.rec.Level())
		}
	}
}

// stop cancels the sampling loop, waits for it to drain, and resets the
// UI level to zero. Safe to call more than once.
func (m *volumeMeter) stop() {
	m.stopOnce.Do(func() {
		close(m.done)
		<-m.stopped
		m.events.VolumeLevel(0)
	})
}
