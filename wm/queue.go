package wm

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/outofforest/mass"
)

const (
	publishBatchSize = 100
	maxReadChunkSize = 32
)

// Config stores queue configuration.
type Config struct {
	// Capacity is the number of task records allocated at once.
	Capacity uint64
}

// New creates new task queue.
func New(config Config) *Queue {
	head := &Task{}
	return &Queue{
		massTask:       mass.New[Task](config.Capacity),
		tail:           &head.Next,
		availableCount: lo.ToPtr[uint64](0),
	}
}

// Queue is the single-producer task queue between the window manager and the renderer.
// Tasks become visible to readers at the end of frame or when batch is full.
type Queue struct {
	massTask       *mass.Mass[Task]
	tail           **Task
	availableCount *uint64
	count          uint64
}

// Push copies the task into the queue.
func (q *Queue) Push(task Task) {
	item := q.massTask.New()
	*item = task
	item.Next = nil

	*q.tail = item
	q.tail = &item.Next

	q.count++

	if q.count == publishBatchSize || task.Type == EndFrame {
		q.Flush()
	}
}

// Flush makes all the pushed tasks visible to readers.
func (q *Queue) Flush() {
	if q.count == 0 {
		return
	}
	atomic.AddUint64(q.availableCount, q.count)
	q.count = 0
}

// NewReader creates new queue reader. Readers must be created before the first task is pushed.
func (q *Queue) NewReader() *Reader {
	return &Reader{
		head:           q.tail,
		availableCount: q.availableCount,
		processedCount: lo.ToPtr[uint64](0),
	}
}

// Reader reads tasks from the queue.
type Reader struct {
	head           **Task
	availableCount *uint64
	processedCount *uint64

	currentProcessedCount uint64
}

// Count waits until tasks are available and returns the number of tasks which might be read.
func (qr *Reader) Count(ctx context.Context) (uint64, error) {
	atomic.StoreUint64(qr.processedCount, qr.currentProcessedCount)
	for {
		available := atomic.LoadUint64(qr.availableCount)
		if toProcess := available - qr.currentProcessedCount; toProcess > 0 {
			return min(toProcess, maxReadChunkSize), nil
		}

		select {
		case <-ctx.Done():
			return 0, errors.WithStack(ctx.Err())
		case <-time.After(100 * time.Microsecond):
		}
	}
}

// Read reads next task from the queue.
func (qr *Reader) Read() *Task {
	h := *qr.head
	qr.head = &h.Next
	qr.currentProcessedCount++
	return h
}

// Acknowledge acknowledges processing of previously read tasks.
func (qr *Reader) Acknowledge() {
	atomic.StoreUint64(qr.processedCount, qr.currentProcessedCount)
}

// Processed returns the number of tasks acknowledged by the reader.
func (qr *Reader) Processed() uint64 {
	return atomic.LoadUint64(qr.processedCount)
}
