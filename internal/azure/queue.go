// Package azure publishes notification events to Azure Queue Storage.
package azure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"

	"meudinheiro/internal/amqp"
	"meudinheiro/internal/core"
	"meudinheiro/internal/log"
)

const errCodeQueueExists = "QueueAlreadyExists"

// QueueConfig selects the storage account. AccountName and AccountKey are
// only used for http endpoints (Azurite); https endpoints authenticate
// with the default Azure credential chain.
type QueueConfig struct {
	ServiceURL  string
	QueueName   string
	AccountName string
	AccountKey  string
}

// enqueuer is the part of azqueue.QueueClient the publisher needs.
type enqueuer interface {
	Create(ctx context.Context) error
	Enqueue(ctx context.Context, content string) error
}

type queueClient struct {
	client *azqueue.QueueClient
}

func (q queueClient) Create(ctx context.Context) error {
	_, err := q.client.Create(ctx, nil)
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.ErrorCode == errCodeQueueExists {
		return nil
	}
	return err
}

func (q queueClient) Enqueue(ctx context.Context, content string) error {
	_, err := q.client.EnqueueMessage(ctx, content, nil)
	return err
}

// QueuePublisher sends each notification as a JSON message, using the same
// body as the AMQP publisher.
type QueuePublisher struct {
	queueName string
	queue     enqueuer
	logger    *log.Logger

	mu      sync.Mutex
	created bool
}

// NewQueuePublisher builds the queue client. The queue itself is created
// lazily on first publish. A nil logger uses the default configuration.
func NewQueuePublisher(cfg QueueConfig, logger *log.Logger) (*QueuePublisher, error) {
	if cfg.ServiceURL == "" {
		return nil, errors.New("azure queue service URL is required")
	}
	if cfg.QueueName == "" {
		return nil, errors.New("azure queue name is required")
	}

	var (
		service *azqueue.ServiceClient
		err     error
	)
	if strings.HasPrefix(cfg.ServiceURL, "http://") {
		cred, credErr := azqueue.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
		if credErr != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", credErr)
		}
		service, err = azqueue.NewServiceClientWithSharedKeyCredential(cfg.ServiceURL, cred, nil)
	} else {
		cred, credErr := azidentity.NewDefaultAzureCredential(nil)
		if credErr != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", credErr)
		}
		service, err = azqueue.NewServiceClient(cfg.ServiceURL, cred, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create queue client: %w", err)
	}

	return newQueuePublisher(cfg.QueueName, queueClient{client: service.NewQueueClient(cfg.QueueName)}, logger), nil
}

func newQueuePublisher(name string, q enqueuer, logger *log.Logger) *QueuePublisher {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &QueuePublisher{
		queueName: name,
		queue:     q,
		logger:    logger.WithComponent(log.ComponentAzureQueue),
	}
}

// ensureQueue creates the queue until one attempt succeeds.
func (p *QueuePublisher) ensureQueue(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.created {
		return nil
	}
	if err := p.queue.Create(ctx); err != nil {
		return fmt.Errorf("create queue %s: %w", p.queueName, err)
	}
	p.created = true
	p.logger.InfoContext(ctx, "Azure queue ready", "queue", p.queueName)
	return nil
}

// PublishNotification implements notify.Publisher.
func (p *QueuePublisher) PublishNotification(ctx context.Context, n core.Notification) error {
	if err := p.ensureQueue(ctx); err != nil {
		return err
	}

	body, err := amqp.NewNotificationMessage(n).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := p.queue.Enqueue(ctx, string(body)); err != nil {
		return fmt.Errorf("enqueue notification %s: %w", n.ID, err)
	}

	p.logger.DebugContext(ctx, "Enqueued notification message",
		log.FieldEntity, "notification",
		log.FieldEntityID, n.ID,
		"queue", p.queueName)
	return nil
}
