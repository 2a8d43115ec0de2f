package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/phambaophuc/image-transform/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// NewJob builds a pending job record. Modifiers must already be validated.
func NewJob(imageURL string, m geometry.Modifiers) *models.ProcessingJob {
	return &models.ProcessingJob{
		ID:        uuid.NewString(),
		ImageURL:  imageURL,
		Modifiers: m,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
}

func (q *QueueService) PublishJob(ctx context.Context, job *models.ProcessingJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    job.ID,
			Body:         jobBytes,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.storeJobResult(ctx, job)
	q.logger.Info("Job published to queue", zap.String("job_id", job.ID))
	return nil
}
