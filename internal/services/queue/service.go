package queue

import (
	"context"
	"fmt"

	"github.com/phambaophuc/image-transform/internal/config"
	"github.com/phambaophuc/image-transform/internal/services/pipeline"
	"github.com/phambaophuc/image-transform/pkg/utils"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ResultStore is the part of the storage service a worker needs.
type ResultStore interface {
	GetFromCache(ctx context.Context, cacheKey string) ([]byte, error)
	SetCache(ctx context.Context, cacheKey string, data []byte) error
	SaveFile(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

// Fetcher downloads a job's source image.
type Fetcher func(ctx context.Context, imageURL string, maxSize int64) ([]byte, string, error)

type QueueService struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	logger    *zap.Logger
	queueName string
	pipeline  *pipeline.Pipeline
	store     ResultStore
	fetch     Fetcher
	maxSize   int64
}

func NewQueueService(
	cfg config.RabbitMQConfig,
	pipe *pipeline.Pipeline,
	store ResultStore,
	maxSize int64,
	logger *zap.Logger,
) (*QueueService, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queueName := cfg.Queue
	if queueName == "" {
		queueName = "image_transform"
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// one unacked message per consumer
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	q := newQueueService(pipe, store, maxSize, logger)
	q.conn = conn
	q.channel = channel
	q.queueName = queueName
	return q, nil
}

func newQueueService(pipe *pipeline.Pipeline, store ResultStore, maxSize int64, logger *zap.Logger) *QueueService {
	return &QueueService{
		logger:   logger,
		pipeline: pipe,
		store:    store,
		fetch:    utils.DownloadImage,
		maxSize:  maxSize,
	}
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
