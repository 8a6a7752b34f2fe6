package speech

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"objdetect/internal/logger"
	"objdetect/internal/model"
)

// DefaultQueueSize bounds pending announcements when none is configured.
const DefaultQueueSize = 16

// Stats counts announcement jobs by outcome.
type Stats struct {
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
}

// Announcer turns detection counts into speech on a background worker.
// Only one utterance runs at a time.
type Announcer struct {
	engine Engine
	logger *logger.Logger

	queue chan string
	wg    sync.WaitGroup

	// speakMu is held for the whole of every Say call.
	speakMu sync.Mutex

	closeMu sync.RWMutex
	closed  bool

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewAnnouncer starts the worker. A nil engine yields an announcer that
// never speaks.
func NewAnnouncer(engine Engine, queueSize int, logger *logger.Logger) *Announcer {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	a := &Announcer{
		engine: engine,
		logger: logger,
		queue:  make(chan string, queueSize),
	}

	a.wg.Add(1)
	go a.worker()

	if engine == nil {
		logger.Warning("Speech engine unavailable - announcements disabled")
	}
	return a
}

// Available reports whether a speech engine is attached.
func (a *Announcer) Available() bool {
	return a.engine != nil
}

// Announce queues a spoken summary of counts and returns immediately.
// Classes are spoken in the given order.
func (a *Announcer) Announce(counts model.DetectionCounts, order []string, enabled bool) {
	if !enabled || a.engine == nil || len(counts) == 0 {
		return
	}
	text := BuildAnnouncement(counts, order)

	a.closeMu.RLock()
	defer a.closeMu.RUnlock()
	if a.closed {
		return
	}

	select {
	case a.queue <- text:
		a.submitted.Add(1)
	default:
		a.dropped.Add(1)
		a.logger.Warning("Speech queue full - skipping announcement %q", text)
	}
}

// BuildAnnouncement formats counts as "Detected: 1 person, 2 cars". Classes
// follow order; any counted class missing from order comes last,
// alphabetically.
func BuildAnnouncement(counts model.DetectionCounts, order []string) string {
	parts := make([]string, 0, len(counts))
	said := make(map[string]bool, len(counts))
	add := func(name string) {
		n, ok := counts[name]
		if !ok || said[name] {
			return
		}
		said[name] = true
		if n > 1 {
			parts = append(parts, fmt.Sprintf("%d %ss", n, name))
		} else {
			parts = append(parts, fmt.Sprintf("%d %s", n, name))
		}
	}
	for _, name := range order {
		add(name)
	}
	for _, name := range counts.Names() {
		add(name)
	}
	return "Detected: " + strings.Join(parts, ", ")
}

func (a *Announcer) worker() {
	defer a.wg.Done()
	for text := range a.queue {
		if err := a.speak(text); err != nil {
			a.failed.Add(1)
			a.logger.Error("Speech error: %v", err)
			continue
		}
		a.completed.Add(1)
	}
}

func (a *Announcer) speak(text string) (err error) {
	a.speakMu.Lock()
	defer a.speakMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = &model.SpeechError{Text: text, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := a.engine.Say(context.Background(), text); err != nil {
		return &model.SpeechError{Text: text, Err: err}
	}
	return nil
}

// Stats returns a snapshot of job counters.
func (a *Announcer) Stats() Stats {
	return Stats{
		Submitted: a.submitted.Load(),
		Completed: a.completed.Load(),
		Failed:    a.failed.Load(),
		Dropped:   a.dropped.Load(),
	}
}

// Close stops accepting announcements and waits for queued ones to finish.
func (a *Announcer) Close() {
	a.closeMu.Lock()
	if a.closed {
		a.closeMu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.closeMu.Unlock()

	a.wg.Wait()
	st := a.Stats()
	a.logger.Info("Speech worker stopped (submitted=%d completed=%d failed=%d dropped=%d)",
		st.Submitted, st.Completed, st.Failed, st.Dropped)
	if st.Dropped > 0 {
		a.logger.Warning("Speech queue dropped %d announcement(s) while full", st.Dropped)
	}
}
