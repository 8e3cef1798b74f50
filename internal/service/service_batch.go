package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/relayer"
	"github.com/Txrmarcos/offuscate-relay/internal/scheduler"
	"github.com/Txrmarcos/offuscate-relay/internal/store"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// recentCompletedLimit caps the operator view of recent completions.
const recentCompletedLimit = 10

// batchService is the concrete implementation of BatchService. It fronts
// the relayer processor for manual triggers and assembles the scheduler
// status view.
type batchService struct {
	processor *relayer.Processor
	queue     store.DonationQueueRepository
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

func NewBatchService(processor *relayer.Processor, queue store.DonationQueueRepository, sched *scheduler.Scheduler, logger *logger.Logger) BatchService {
	return &batchService{
		processor: processor,
		queue:     queue,
		scheduler: sched,
		logger:    logger,
	}
}

// RunBatch triggers one processing run. An empty queue or an unmet trigger
// threshold is a normal outcome, reported in the response body rather than
// as an error; lock contention and funding failures propagate as errors for
// transport-level mapping.
func (s *batchService) RunBatch(ctx context.Context, force bool) (models.ProcessBatchResponse, error) {
	log := logger.FromContext(ctx)

	outcome, err := s.processor.Process(ctx, force)
	if err != nil {
		if errors.Is(err, relayer.ErrNothingToProcess) {
			pending, listErr := s.queue.ListByStatus(ctx, models.StatusPending)
			if listErr != nil {
				return models.ProcessBatchResponse{}, fmt.Errorf("listing pending donations: %w", listErr)
			}
			// A skipped run is not a failure: nothing was attempted, so
			// there is nothing to report as broken.
			return models.ProcessBatchResponse{
				Success:         true,
				Pending:         len(pending),
				QueueAgeSeconds: int64(s.scheduler.QueueAge(pending, time.Now().UTC()) / time.Second),
			}, nil
		}

		log.Err(err).
			Str("func", "batchService.RunBatch").
			Bool("force", force).
			Msg("batch run failed")
		return models.ProcessBatchResponse{Error: err.Error()}, err
	}

	return models.ProcessBatchResponse{
		Success:   true,
		Processed: outcome.Processed,
		Failed:    outcome.Failed,
		Results:   outcome.Results,
	}, nil
}

func (s *batchService) BatchStatus(ctx context.Context, includeRecent bool) (models.BatchStatusResponse, error) {
	pending, err := s.queue.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return models.BatchStatusResponse{}, fmt.Errorf("listing pending donations: %w", err)
	}

	processing, err := s.queue.ListByStatus(ctx, models.StatusProcessing)
	if err != nil {
		return models.BatchStatusResponse{}, fmt.Errorf("listing processing donations: %w", err)
	}

	state, err := s.queue.QueueState(ctx)
	if err != nil {
		return models.BatchStatusResponse{}, fmt.Errorf("queue state: %w", err)
	}

	now := time.Now().UTC()
	status := models.BatchStatusResponse{
		Pending:         len(pending),
		Processing:      len(processing),
		MinBatchSize:    s.scheduler.MinBatchSize(),
		QueueAgeSeconds: int64(s.scheduler.QueueAge(pending, now) / time.Second),
		ShouldProcess:   s.scheduler.ShouldRun(pending, now),
		LastProcessed:   state.LastProcessed,
		TotalProcessed:  state.TotalProcessed,
		TotalFailed:     state.TotalFailed,
	}

	if includeRecent {
		recent, listErr := s.queue.ListRecentCompleted(ctx, recentCompletedLimit)
		if listErr != nil {
			return models.BatchStatusResponse{}, fmt.Errorf("listing recent completions: %w", listErr)
		}
		for _, d := range recent {
			status.RecentCompleted = append(status.RecentCompleted, donationStatusView(d))
		}
	}

	return status, nil
}
