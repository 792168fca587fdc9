package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	queue "github.com/cabe-arena/arena/internal/adapters/mq/queue"
	"github.com/cabe-arena/arena/internal/domain/model"
	"github.com/cabe-arena/arena/internal/domain/skill"
	. "github.com/smartystreets/goconvey/convey"
)

func testSubmission(id string) queue.Submission {
	return model.Submission{
		ID:            id,
		UserID:        "user-1",
		Skill:         skill.FullstackDev,
		TaskType:      model.TaskPractice,
		BasePoints:    50,
		MaxPoints:     200,
		ProofStrength: model.ProofSolid,
		ProofText:     "wired up the queue and drained it",
		SubmittedAt:   time.Now().UTC(),
	}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a new in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		ctx := context.Background()

		Convey("When enqueuing a submission", func() {
			ok := q.Enqueue(ctx, testSubmission("sub-1"))

			Convey("Then the submission is accepted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When dequeuing", func() {
			sub := testSubmission("sub-2")
			So(q.Enqueue(ctx, sub), ShouldBeTrue)

			out := q.Dequeue(ctx)

			Convey("Then the submission flows through in order", func() {
				select {
				case got := <-out:
					So(got.ID, ShouldEqual, "sub-2")
				case <-time.After(time.Second):
					So("timeout", ShouldBeEmpty)
				}
			})
		})

		Convey("When the queue is full", func() {
			small := queue.NewInMemoryQueue(queue.WithCapacity(2))
			So(small.Enqueue(ctx, testSubmission("sub-1")), ShouldBeTrue)
			So(small.Enqueue(ctx, testSubmission("sub-2")), ShouldBeTrue)

			Convey("Then further enqueues report backpressure", func() {
				So(small.Enqueue(ctx, testSubmission("sub-3")), ShouldBeFalse)
				So(small.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects new submissions", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, testSubmission("sub-4")), ShouldBeFalse)
			})

			Convey("And closing twice returns the sentinel", func() {
				So(errors.Is(q.Close(), queue.ErrClosed), ShouldBeTrue)
			})

			Convey("And the dequeue channel drains then closes", func() {
				out := q.Dequeue(ctx)
				select {
				case _, open := <-out:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					So("timeout", ShouldBeEmpty)
				}
			})
		})

		Convey("When buffered submissions remain at close", func() {
			So(q.Enqueue(ctx, testSubmission("sub-5")), ShouldBeTrue)
			So(q.Enqueue(ctx, testSubmission("sub-6")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			out := q.Dequeue(ctx)

			Convey("Then the buffer drains before the channel closes", func() {
				var ids []string
				for got := range out {
					ids = append(ids, got.ID)
				}
				So(ids, ShouldResemble, []string{"sub-5", "sub-6"})
			})
		})

		Convey("When the dequeue context is cancelled", func() {
			cancelCtx, cancel := context.WithCancel(context.Background())
			out := q.Dequeue(cancelCtx)
			cancel()

			So(q.Enqueue(ctx, testSubmission("sub-7")), ShouldBeTrue)

			Convey("Then the consumer channel closes", func() {
				select {
				case _, open := <-out:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					So("timeout", ShouldBeEmpty)
				}
			})
		})
	})
}
