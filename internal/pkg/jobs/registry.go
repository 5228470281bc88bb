package jobs

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// descriptorTTL is how long a finished or stale descriptor survives
// after its last update before lazy eviction.
const descriptorTTL = time.Hour

var (
	ErrNotFound     = errors.New("job not found")
	ErrUnauthorized = errors.New("job belongs to another owner")
)

// Descriptor is the pollable state of one background job. Jobs are not
// persisted; a process restart means the caller retries.
type Descriptor struct {
	JobID     string      `json:"job_id"`
	OwnerID   string      `json:"-"`
	Status    Status      `json:"status"`
	Progress  int         `json:"progress"`
	Stage     string      `json:"stage,omitempty"`
	Message   string      `json:"message,omitempty"`
	Result    interface{} `json:"result,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Progress is the callback a job function uses to report staged progress.
// pct is clamped to [0,100].
type Progress func(pct int, stage, message string)

// Fn is the unit of background work. The returned value becomes the
// descriptor result; a non-nil error marks the job failed.
type Fn func(ctx context.Context, report Progress) (interface{}, error)

// Registry is a thread-safe in-process job map. Workers run as detached
// goroutines; cancellation is not supported, jobs run to completion.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Descriptor
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Descriptor),
		now:     time.Now,
	}
}

// Submit registers a descriptor and spawns a worker goroutine for fn.
// The returned job id is opaque 128-bit hex.
func (r *Registry) Submit(ownerID string, fn Fn) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	now := r.now()

	r.mu.Lock()
	r.sweepLocked(now)
	r.entries[id] = &Descriptor{
		JobID:     id,
		OwnerID:   ownerID,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.mu.Unlock()

	go r.run(id, fn)
	return id
}

// Get returns a snapshot of the descriptor. Requesters may only read
// their own jobs.
func (r *Registry) Get(jobID, requesterID string) (Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(r.now())

	d, ok := r.entries[jobID]
	if !ok {
		return Descriptor{}, ErrNotFound
	}
	if d.OwnerID != requesterID {
		return Descriptor{}, ErrUnauthorized
	}
	return *d, nil
}

func (r *Registry) run(id string, fn Fn) {
	r.update(id, func(d *Descriptor) {
		d.Status = StatusRunning
	})

	report := func(pct int, stage, message string) {
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		r.update(id, func(d *Descriptor) {
			d.Progress = pct
			d.Stage = stage
			d.Message = message
		})
	}

	result, err := fn(context.Background(), report)
	if err != nil {
		slog.Warn("background job failed", "job_id", id, "err", err)
		r.update(id, func(d *Descriptor) {
			d.Status = StatusFailed
			d.Message = err.Error()
		})
		return
	}
	r.update(id, func(d *Descriptor) {
		d.Status = StatusDone
		d.Progress = 100
		d.Result = result
	})
}

func (r *Registry) update(id string, mutate func(*Descriptor)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.entries[id]
	if !ok {
		return
	}
	mutate(d)
	d.UpdatedAt = r.now()
}

// sweepLocked evicts descriptors idle past the TTL. Caller holds the lock.
func (r *Registry) sweepLocked(now time.Time) {
	for id, d := range r.entries {
		if now.Sub(d.UpdatedAt) > descriptorTTL {
			delete(r.entries, id)
		}
	}
}
