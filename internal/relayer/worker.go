package relayer

import (
	"context"
	"errors"
	"time"

	"github.com/Txrmarcos/offuscate-relay/internal/logger"
)

// Worker polls the queue on a fixed tick and runs a batch whenever the
// scheduler's trigger conditions are met. It implements workers.Worker.
type Worker struct {
	processor    *Processor
	tickInterval time.Duration
	logger       *logger.Logger

	ctx context.Context
}

func NewWorker(ctx context.Context, processor *Processor, tickInterval time.Duration, log *logger.Logger) *Worker {
	if tickInterval <= 0 {
		tickInterval = 30 * time.Second
	}

	return &Worker{
		processor:    processor,
		tickInterval: tickInterval,
		logger:       log,
		ctx:          ctx,
	}
}

func (w *Worker) Run() {
	go w.loop()
}

func (w *Worker) loop() {
	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.logger.Info().
		Str("func", "Worker.loop").
		Dur("tick_interval", w.tickInterval).
		Msg("relayer worker started")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info().
				Str("func", "Worker.loop").
				Msg("relayer worker stopped")
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *Worker) tick() {
	ctx := logger.NewContext(w.ctx, w.logger)

	outcome, err := w.processor.Process(ctx, false)
	switch {
	case err == nil:
		w.logger.Info().
			Str("func", "Worker.tick").
			Int("processed", outcome.Processed).
			Int("failed", outcome.Failed).
			Msg("scheduled batch completed")
	case errors.Is(err, ErrNothingToProcess), errors.Is(err, ErrBatchInProgress):
		// quiet tick
	default:
		w.logger.Err(err).
			Str("func", "Worker.tick").
			Msg("scheduled batch failed")
	}
}
