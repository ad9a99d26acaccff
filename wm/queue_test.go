package wm

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/category5/types"
)

func TestTasksAreInvisibleUntilEndOfFrame(t *testing.T) {
	requireT := require.New(t)

	q := New(Config{Capacity: 8})
	r := q.NewReader()

	q.Push(Task{Type: BeginFrame, Frame: 1})
	q.Push(Task{Type: Configure, Window: types.WindowID(5), Rect: types.Rect{Width: 10, Height: 20}})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	count, err := r.Count(ctx)
	requireT.True(errors.Is(err, context.DeadlineExceeded))
	requireT.Zero(count)

	q.Push(Task{Type: EndFrame, Frame: 1})

	count, err = r.Count(context.Background())
	requireT.NoError(err)
	requireT.EqualValues(3, count)

	task := r.Read()
	requireT.Equal(BeginFrame, task.Type)
	requireT.EqualValues(1, task.Frame)

	task = r.Read()
	requireT.Equal(Configure, task.Type)
	requireT.Equal(types.WindowID(5), task.Window)
	requireT.Equal(types.Rect{Width: 10, Height: 20}, task.Rect)

	task = r.Read()
	requireT.Equal(EndFrame, task.Type)
	requireT.Nil(task.Next)

	requireT.Zero(r.Processed())
	r.Acknowledge()
	requireT.EqualValues(3, r.Processed())
}

func TestFullBatchIsPublished(t *testing.T) {
	requireT := require.New(t)

	q := New(Config{Capacity: 16})
	r := q.NewReader()

	for i := range publishBatchSize {
		q.Push(Task{Type: Restack, Frame: uint64(i)})
	}

	var read uint64
	for read < publishBatchSize {
		count, err := r.Count(context.Background())
		requireT.NoError(err)
		requireT.LessOrEqual(count, uint64(maxReadChunkSize))
		for range count {
			requireT.Equal(read, r.Read().Frame)
			read++
		}
	}
}

func TestFlush(t *testing.T) {
	requireT := require.New(t)

	q := New(Config{Capacity: 8})
	r := q.NewReader()

	q.Flush()
	q.Push(Task{Type: ResetCursor})
	q.Flush()

	count, err := r.Count(context.Background())
	requireT.NoError(err)
	requireT.EqualValues(1, count)
	requireT.Equal(ResetCursor, r.Read().Type)
}

func TestConcurrentReader(t *testing.T) {
	requireT := require.New(t)

	const frames = 50

	q := New(Config{Capacity: 8})
	r := q.NewReader()

	done := make(chan []uint64)
	go func() {
		var seen []uint64
		for {
			count, err := r.Count(context.Background())
			if err != nil {
				close(done)
				return
			}
			for range count {
				task := r.Read()
				if task.Type == EndFrame {
					seen = append(seen, task.Frame)
				}
			}
			r.Acknowledge()
			if len(seen) == frames {
				done <- seen
				return
			}
		}
	}()

	for i := range uint64(frames) {
		q.Push(Task{Type: BeginFrame, Frame: i})
		q.Push(Task{Type: EndFrame, Frame: i})
	}

	seen := <-done
	requireT.Len(seen, frames)
	for i, frame := range seen {
		requireT.EqualValues(i, frame)
	}
}

func TestTaskTypeString(t *testing.T) {
	requireT := require.New(t)

	requireT.Equal("restack", Restack.String())
	requireT.Equal("none", TaskType(200).String())
}
