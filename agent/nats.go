package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"usaha-chatbot/config"
)

type NatsClient struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

func NewNats(cfg *config.Config) (*NatsClient, error) {
	nc, err := nats.Connect(cfg.Nats.ConnStr())
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	return &NatsClient{
		conn: nc,
		js:   js,
	}, nil
}

func (c *NatsClient) Close() {
	c.conn.Close()
}

// Subscribe pulls change events off a subject until the context is cancelled,
// handing each message to the pool. Fetch timeouts are normal idle behaviour.
func (c *NatsClient) Subscribe(ctx context.Context, subject string, pool *WorkerPool) error {
	durable := strings.ReplaceAll(subject+".agent", ".", "-")
	subscription, err := c.js.PullSubscribe(subject, durable, nats.ManualAck())
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			if err := subscription.Unsubscribe(); err != nil {
				slog.Warn("failed to unsubscribe from subject", "subject", subject, "error", err)
			}

			return nil
		default:
			msgs, err := subscription.Fetch(4, nats.MaxWait(200*time.Millisecond))
			if err != nil && !errors.Is(err, nats.ErrTimeout) {
				return err
			}
			if len(msgs) == 0 {
				continue
			}

			for _, msg := range msgs {
				pool.Submit(ctx, msg)
			}
		}
	}
}
