package dispatcher

import (
	"sync"

	"github.com/google/uuid"
)

// JobType is the punishment a queued Job asks the host to carry out.
type JobType uint8

const (
	JobTypeKick JobType = iota
	JobTypeTempMute
)

// Job is one punishment request queued for a dispatcher worker.
type Job struct {
	Type           JobType
	PlayerId       uuid.UUID
	Reason         string
	DurationMs     int64
	DetectionNanos int64
}

func NewKickJob(playerId uuid.UUID, reason string, detectionNanos int64) Job {
	return Job{Type: JobTypeKick, PlayerId: playerId, Reason: reason, DetectionNanos: detectionNanos}
}

func NewTempMuteJob(playerId uuid.UUID, reason string, durationMs, detectionNanos int64) Job {
	return Job{Type: JobTypeTempMute, PlayerId: playerId, Reason: reason, DurationMs: durationMs, DetectionNanos: detectionNanos}
}

// JobQueue is a fixed-capacity ring-buffer job queue. Capacity is
// rounded up to the next power of two so wraparound is a mask instead
// of a modulo. Unlike its single-producer/single-consumer ancestor, this
// one is guarded by a mutex: the engine's ingest goroutines are
// concurrent producers, and several worker goroutines drain it at once.
type JobQueue struct {
	mu   sync.Mutex
	jobs []Job
	mask uint32
	head uint32
	tail uint32
}

// NewJobQueue creates a queue with at least size capacity.
func NewJobQueue(size uint32) *JobQueue {
	if size == 0 {
		size = 1
	}
	// One slot always stays empty to tell a full queue from an empty one,
	// so size jobs need size+1 slots.
	slots := size + 1
	if slots&(slots-1) != 0 {
		slots = nextPowerOf2(slots)
	}
	return &JobQueue{
		jobs: make([]Job, slots),
		mask: slots - 1,
	}
}

// Enqueue appends job, returning false if the queue is full.
func (q *JobQueue) Enqueue(job Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	nextHead := (q.head + 1) & q.mask
	if nextHead == q.tail {
		return false
	}
	q.jobs[q.head] = job
	q.head = nextHead
	return true
}

// Dequeue removes and returns the oldest job, or false if empty.
func (q *JobQueue) Dequeue() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.tail == q.head {
		return Job{}, false
	}
	job := q.jobs[q.tail]
	q.tail = (q.tail + 1) & q.mask
	return job, true
}

func nextPowerOf2(n uint32) uint32 {
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}
