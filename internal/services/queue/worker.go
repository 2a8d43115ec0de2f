package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phambaophuc/image-transform/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

var ErrJobNotFound = errors.New("job not found")

const jobKeyPrefix = "job:"

func (q *QueueService) StartWorker(ctx context.Context, workerID int) error {
	msgs, err := q.channel.Consume(
		q.queueName,                        // queue
		fmt.Sprintf("worker-%d", workerID), // consumer
		false,                              // auto-ack
		false,                              // exclusive
		false,                              // no-local
		false,                              // no-wait
		nil,                                // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("Worker started", zap.Int("worker_id", workerID))

	go func() {
		for {
			select {
			case <-ctx.Done():
				q.logger.Info("Worker stopping", zap.Int("worker_id", workerID))
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn("Message channel closed", zap.Int("worker_id", workerID))
					return
				}

				q.processMessage(ctx, msg, workerID)
			}
		}
	}()

	return nil
}

func (q *QueueService) processMessage(ctx context.Context, msg amqp.Delivery, workerID int) {
	job, err := q.handle(ctx, msg.Body, workerID)
	if err != nil {
		q.logger.Error("Failed to unmarshal job",
			zap.Error(err),
			zap.Int("worker_id", workerID))
		msg.Nack(false, false) // malformed messages are dropped
		return
	}

	if err := msg.Ack(false); err != nil {
		q.logger.Error("Failed to ack message",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

// handle runs one job body to completion and records its final state. The
// returned error is only set when the body cannot be decoded.
func (q *QueueService) handle(ctx context.Context, body []byte, workerID int) (*models.ProcessingJob, error) {
	var job models.ProcessingJob
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, err
	}

	q.logger.Info("Processing job",
		zap.String("job_id", job.ID),
		zap.String("modifiers", job.Modifiers.Key()),
		zap.Int("worker_id", workerID))

	job.Status = models.StatusProcessing
	q.storeJobResult(ctx, &job)

	result, err := q.processJob(ctx, &job)
	if err != nil {
		job.Status = models.StatusFailed
		job.Error = err.Error()
		q.logger.Error("Job processing failed",
			zap.String("job_id", job.ID),
			zap.Error(err))
	} else {
		job.Status = models.StatusCompleted
		job.Result = result
		q.logger.Info("Job completed successfully",
			zap.String("job_id", job.ID))
	}

	q.storeJobResult(ctx, &job)
	return &job, nil
}

// storeJobResult records the job under its id so clients can poll it.
func (q *QueueService) storeJobResult(ctx context.Context, job *models.ProcessingJob) {
	data, err := json.Marshal(job)
	if err != nil {
		q.logger.Error("Failed to marshal job", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	if err := q.store.SetCache(ctx, jobKeyPrefix+job.ID, data); err != nil {
		q.logger.Warn("Failed to store job state",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

// GetJob returns the last recorded state of a job.
func (q *QueueService) GetJob(ctx context.Context, id string) (*models.ProcessingJob, error) {
	data, err := q.store.GetFromCache(ctx, jobKeyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}
	if data == nil {
		return nil, ErrJobNotFound
	}

	var job models.ProcessingJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}
