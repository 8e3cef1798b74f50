// Package scheduler decides when a batch of queued donations should run and
// in what order its items are submitted.
//
// Two triggers exist: a size threshold, which grows the anonymity set per
// batch, and an age threshold, which bounds worst-case latency for a lone
// donor. Once triggered, the whole pending set is drained in one batch and
// submitted in a uniformly shuffled order so that submission order carries
// no information about enqueue order.
//
// The scheduler holds no state; both operations are pure functions of the
// queue snapshot and the clock.
package scheduler

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/Txrmarcos/offuscate-relay/models"
)

// Defaults chosen to balance anonymity-set size against donor latency.
const (
	DefaultMinBatchSize = 2
	DefaultMaxQueueAge  = 5 * time.Minute
)

// Scheduler evaluates batch triggers against configured thresholds.
type Scheduler struct {
	minBatchSize int
	maxQueueAge  time.Duration
}

// New constructs a Scheduler. Non-positive arguments fall back to the
// defaults.
func New(minBatchSize int, maxQueueAge time.Duration) *Scheduler {
	if minBatchSize <= 0 {
		minBatchSize = DefaultMinBatchSize
	}
	if maxQueueAge <= 0 {
		maxQueueAge = DefaultMaxQueueAge
	}
	return &Scheduler{minBatchSize: minBatchSize, maxQueueAge: maxQueueAge}
}

// MinBatchSize returns the configured size threshold.
func (s *Scheduler) MinBatchSize() int { return s.minBatchSize }

// MaxQueueAge returns the configured age threshold.
func (s *Scheduler) MaxQueueAge() time.Duration { return s.maxQueueAge }

// ShouldRun reports whether a batch should run now: true iff the pending
// count reaches the size threshold or the oldest pending item has waited
// longer than the age threshold.
func (s *Scheduler) ShouldRun(pending []models.QueuedDonation, now time.Time) bool {
	if len(pending) == 0 {
		return false
	}
	if len(pending) >= s.minBatchSize {
		return true
	}
	return now.Sub(oldestTimestamp(pending)) >= s.maxQueueAge
}

// QueueAge returns how long the oldest pending item has been waiting, or
// zero when the queue is empty.
func (s *Scheduler) QueueAge(pending []models.QueuedDonation, now time.Time) time.Duration {
	if len(pending) == 0 {
		return 0
	}
	return now.Sub(oldestTimestamp(pending))
}

// SelectBatch drains the full pending set — no partial batches — and
// returns it as a fresh slice in a uniformly shuffled order. The input
// slice is not modified.
//
// The shuffle is a Fisher-Yates permutation driven by crypto/rand: batch
// submission order is a privacy boundary, so a seedable PRNG is not enough.
func (s *Scheduler) SelectBatch(pending []models.QueuedDonation) []models.QueuedDonation {
	batch := make([]models.QueuedDonation, len(pending))
	copy(batch, pending)

	for i := len(batch) - 1; i > 0; i-- {
		j := secureIntn(i + 1)
		batch[i], batch[j] = batch[j], batch[i]
	}

	return batch
}

func oldestTimestamp(pending []models.QueuedDonation) time.Time {
	oldest := pending[0].Timestamp
	for _, d := range pending[1:] {
		if d.Timestamp.Before(oldest) {
			oldest = d.Timestamp
		}
	}
	return oldest
}

// secureIntn returns a uniform random int in [0, n) from crypto/rand.
func secureIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failure means the platform randomness source is
		// broken; there is no safe fallback for a privacy shuffle
		panic("scheduler: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}
