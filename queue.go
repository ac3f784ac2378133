package agent

// Job is one unit of queued work. It must call done exactly once when it
// finishes, or never to hold the queue open (a held balloon does this).
type Job func(done func())

// Queue runs jobs one at a time in FIFO order and calls onEmpty whenever
// it runs out of work.
type Queue struct {
	pending []Job
	active  bool
	gen     uint64
	onEmpty func()
	debug   bool
}

// NewQueue creates an idle queue. onEmpty may be nil.
func NewQueue(onEmpty func()) *Queue {
	return &Queue{onEmpty: onEmpty}
}

// Enqueue appends job and starts it immediately when the queue is idle.
func (q *Queue) Enqueue(job Job) {
	q.pending = append(q.pending, job)
	if len(q.pending) == 1 && !q.active {
		q.advance()
	}
}

// Clear discards pending jobs without running them. The active job, if
// any, keeps running and its done callback still advances the queue.
func (q *Queue) Clear() {
	clear(q.pending)
	q.pending = q.pending[:0]
}

// Release ends the active job as though it had called done. The job's own
// done becomes a no-op. It does nothing when no job is running.
func (q *Queue) Release() {
	if !q.active {
		return
	}
	q.gen++
	q.active = false
	q.advance()
}

// Len returns the number of jobs waiting behind the active one.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Active reports whether a job is currently running.
func (q *Queue) Active() bool {
	return q.active
}

func (q *Queue) advance() {
	if len(q.pending) == 0 {
		if q.onEmpty != nil {
			q.onEmpty()
		}
		return
	}

	job := q.pending[0]
	copy(q.pending, q.pending[1:])
	q.pending[len(q.pending)-1] = nil
	q.pending = q.pending[:len(q.pending)-1]
	q.active = true

	job(q.completion())
}

// completion returns a single-shot done callback for the job being started.
// A done that fires after its job was released is ignored.
func (q *Queue) completion() func() {
	q.gen++
	gen := q.gen
	return func() {
		if gen != q.gen || !q.active {
			if q.debug {
				debugf("queue: stale or repeated job completion, ignoring")
			}
			return
		}
		q.active = false
		q.advance()
	}
}
