package capability

import (
	"log/slog"
	"sync"
)

// Notifier delivers user-facing messages without blocking the caller.
type Notifier interface {
	// Notify submits message for deferred delivery and reports whether it
	// was accepted. It never waits for delivery.
	Notify(message string) bool
}

// NotifierFunc adapts a function to [Notifier]. The function runs on the
// caller's goroutine, so it must not block.
type NotifierFunc func(message string) bool

// Notify calls f.
func (f NotifierFunc) Notify(message string) bool { return f(message) }

// DefaultQueueSize is the task capacity of a [QueueNotifier].
const DefaultQueueSize = 16

// QueueNotifier runs each notification as a one-shot task on a single worker
// goroutine. There is no ordering guarantee relative to the submitter.
type QueueNotifier struct {
	tasks chan string
	sink  func(string)
	log   *slog.Logger
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewQueueNotifier starts a notifier delivering messages to sink. A nil sink
// logs each message at info level.
func NewQueueNotifier(size int, sink func(string), logger *slog.Logger) *QueueNotifier {
	if size <= 0 {
		size = DefaultQueueSize
	}

	if logger == nil {
		logger = slog.Default()
	}

	if sink == nil {
		sink = func(msg string) { logger.Info("notification", "message", msg) }
	}

	q := &QueueNotifier{
		tasks: make(chan string, size),
		sink:  sink,
		log:   logger,
	}

	q.wg.Add(1)
	go q.loop()

	return q
}

func (q *QueueNotifier) loop() {
	defer q.wg.Done()

	for msg := range q.tasks {
		q.sink(msg)
	}
}

// Notify queues message. It is dropped when the queue is full or closed.
func (q *QueueNotifier) Notify(message string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.log.Warn("notification dropped after close", "message", message)
		return false
	}

	select {
	case q.tasks <- message:
		return true
	default:
		q.log.Warn("notification queue full", "message", message)
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to be delivered.
func (q *QueueNotifier) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}

	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
}
