package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Txrmarcos/offuscate-relay/models"
)

func pendingAged(now time.Time, ages ...time.Duration) []models.QueuedDonation {
	items := make([]models.QueuedDonation, 0, len(ages))
	for i, age := range ages {
		items = append(items, models.QueuedDonation{
			ID:        fmt.Sprintf("donation-%d", i),
			Status:    models.StatusPending,
			Timestamp: now.Add(-age),
		})
	}
	return items
}

func TestShouldRun(t *testing.T) {
	now := time.Now()
	s := New(2, 5*time.Minute)

	tests := []struct {
		name    string
		pending []models.QueuedDonation
		want    bool
	}{
		{name: "empty queue", pending: nil, want: false},
		{name: "one young item", pending: pendingAged(now, time.Minute), want: false},
		{name: "two young items meet size threshold", pending: pendingAged(now, time.Minute, time.Minute), want: true},
		{name: "one old item meets age threshold", pending: pendingAged(now, 6*time.Minute), want: true},
		{name: "exactly at age threshold", pending: pendingAged(now, 5*time.Minute), want: true},
		{name: "just under age threshold", pending: pendingAged(now, 5*time.Minute-time.Second), want: false},
		{name: "oldest of several counts", pending: pendingAged(now, 6*time.Minute), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ShouldRun(tt.pending, now))
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(0, 0)
	assert.Equal(t, DefaultMinBatchSize, s.MinBatchSize())
	assert.Equal(t, DefaultMaxQueueAge, s.MaxQueueAge())
}

func TestQueueAge(t *testing.T) {
	now := time.Now()
	s := New(2, 5*time.Minute)

	assert.Equal(t, time.Duration(0), s.QueueAge(nil, now))

	pending := pendingAged(now, time.Minute, 3*time.Minute, 2*time.Minute)
	assert.Equal(t, 3*time.Minute, s.QueueAge(pending, now))
}

func TestSelectBatch_Permutation(t *testing.T) {
	now := time.Now()
	s := New(2, 5*time.Minute)

	for _, n := range []int{1, 2, 10, 100, 1000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			pending := make([]models.QueuedDonation, 0, n)
			for i := 0; i < n; i++ {
				pending = append(pending, models.QueuedDonation{
					ID:        fmt.Sprintf("id-%d", i),
					Timestamp: now.Add(time.Duration(i) * time.Second),
				})
			}

			batch := s.SelectBatch(pending)
			require.Len(t, batch, n, "batch must drain the full pending set")

			seen := make(map[string]bool, n)
			for _, d := range batch {
				require.False(t, seen[d.ID], "duplicate item %s in batch", d.ID)
				seen[d.ID] = true
			}
			for _, d := range pending {
				assert.True(t, seen[d.ID], "item %s dropped from batch", d.ID)
			}
		})
	}
}

func TestSelectBatch_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	s := New(2, 5*time.Minute)

	pending := pendingAged(now, time.Minute, 2*time.Minute, 3*time.Minute)
	original := make([]models.QueuedDonation, len(pending))
	copy(original, pending)

	s.SelectBatch(pending)

	assert.Equal(t, original, pending)
}

func TestSelectBatch_Shuffles(t *testing.T) {
	// With 20 items the identity permutation has probability 1/20!; seeing
	// it in all of 5 attempts means the shuffle is broken.
	now := time.Now()
	s := New(2, 5*time.Minute)

	const n = 20
	pending := make([]models.QueuedDonation, 0, n)
	for i := 0; i < n; i++ {
		pending = append(pending, models.QueuedDonation{ID: fmt.Sprintf("id-%d", i), Timestamp: now})
	}

	identity := 0
	for attempt := 0; attempt < 5; attempt++ {
		batch := s.SelectBatch(pending)
		same := true
		for i := range batch {
			if batch[i].ID != pending[i].ID {
				same = false
				break
			}
		}
		if same {
			identity++
		}
	}

	assert.Less(t, identity, 5, "shuffle returned enqueue order every time")
}
