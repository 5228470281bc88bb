package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForStatus(t *testing.T, r *Registry, id, owner string, want Status) Descriptor {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		d, err := r.Get(id, owner)
		require.NoError(t, err)
		if d.Status == want {
			return d
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", id, want)
	return Descriptor{}
}

func TestRegistry_SubmitAndComplete(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	id := r.Submit("user-1", func(ctx context.Context, report Progress) (interface{}, error) {
		report(50, "halfway", "processing")
		return map[string]int{"sent": 3}, nil
	})
	require.Len(t, id, 32)

	d := waitForStatus(t, r, id, "user-1", StatusDone)
	assert.Equal(t, 100, d.Progress)
	assert.Equal(t, map[string]int{"sent": 3}, d.Result)
}

func TestRegistry_FailedJobKeepsMessage(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	id := r.Submit("user-1", func(ctx context.Context, report Progress) (interface{}, error) {
		return nil, errors.New("remote refused")
	})

	d := waitForStatus(t, r, id, "user-1", StatusFailed)
	assert.Equal(t, "remote refused", d.Message)
}

func TestRegistry_OwnerScope(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	id := r.Submit("owner", func(ctx context.Context, report Progress) (interface{}, error) {
		return nil, nil
	})

	_, err := r.Get(id, "intruder")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = r.Get("deadbeefdeadbeefdeadbeefdeadbeef", "owner")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_TTLEviction(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	id := r.Submit("owner", func(ctx context.Context, report Progress) (interface{}, error) {
		return nil, nil
	})
	waitForStatus(t, r, id, "owner", StatusDone)

	// Shift the clock past the TTL; the next access evicts the entry.
	r.now = func() time.Time { return time.Now().Add(descriptorTTL + time.Minute) }
	_, err := r.Get(id, "owner")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_ProgressClamped(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	id := r.Submit("owner", func(ctx context.Context, report Progress) (interface{}, error) {
		report(250, "stage", "too much")
		return nil, nil
	})

	d := waitForStatus(t, r, id, "owner", StatusDone)
	assert.Equal(t, 100, d.Progress)
}
