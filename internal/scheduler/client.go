package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// importUniqueTTL bounds how long a queued or running import blocks another.
const importUniqueTTL = 6 * time.Hour

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueImport queues a bulk property import. Only one import may be queued
// or running at a time; a second request is a Conflict.
func (c *Client) EnqueueImport(ctx context.Context, payload PropertyImportPayload) (string, error) {
	if c == nil || c.client == nil {
		return "", apperr.Unavailable("task queue not configured")
	}

	task, err := NewPropertyImportTask(payload)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.Unique(importUniqueTTL),
		asynq.MaxRetry(0),
		asynq.Timeout(importUniqueTTL),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return "", apperr.Conflict("a property import is already queued or running")
	}
	if err != nil {
		return "", fmt.Errorf("enqueue property import: %w", err)
	}
	return info.ID, nil
}

func (c *Client) EnqueueNotification(ctx context.Context, payload NotificationSendPayload) error {
	if c == nil || c.client == nil {
		return apperr.Unavailable("task queue not configured")
	}

	task, err := NewNotificationSendTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(5))
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
