package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"upload-pipeline/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Processor runs one pipeline invocation per creation event.
type Processor interface {
	Process(ctx context.Context, event models.CreationEvent) models.ProcessResult
}

// Consumer feeds bucket creation notifications from a durable queue into the
// pipeline. Every delivery is acked once processed: a failed invocation is
// terminal for that trigger, and redelivery is the bucket's responsibility,
// not ours.
type Consumer struct {
	url       string
	queueName string
	pipe      Processor
}

func NewConsumer(url, queueName string, pipe Processor) *Consumer {
	return &Consumer{url: url, queueName: queueName, pipe: pipe}
}

// decodeEvent parses a bucket-notification body. An event with no usable
// records is an error so the caller can drop it.
func decodeEvent(body []byte) (models.CreationEvent, error) {
	var event models.CreationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return models.CreationEvent{}, fmt.Errorf("failed to parse event: %w", err)
	}
	if len(event.Records) == 0 {
		return models.CreationEvent{}, fmt.Errorf("event has no records")
	}
	return event, nil
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	event, err := decodeEvent(d.Body)
	if err != nil {
		// Unusable body: ack it away so it doesn't loop forever.
		log.Printf("[%s] dropping malformed event: %v", c.queueName, err)
		d.Ack(false)
		return
	}

	result := c.pipe.Process(ctx, event)
	log.Printf("[%s] processed fileId=%s status=%s message=%s", c.queueName, result.FileID, result.Status, result.Message)
	d.Ack(false)
}

// Start consumes the queue until ctx is cancelled, recreating the connection
// and channel when they drop.
func (c *Consumer) Start(ctx context.Context) error {
	var conn *amqp.Connection
	var ch *amqp.Channel
	defer func() {
		if ch != nil {
			ch.Close()
		}
		if conn != nil {
			conn.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] shutting down...", c.queueName)
			return nil
		default:
		}

		if ch == nil || ch.IsClosed() {
			if conn != nil {
				conn.Close()
			}
			var err error
			conn, err = NewRabbitMQClient(c.url)
			if err != nil {
				log.Printf("[%s] failed to connect to RabbitMQ: %v", c.queueName, err)
				time.Sleep(5 * time.Second)
				continue
			}
			ch, err = NewChannel(conn)
			if err != nil {
				log.Printf("[%s] failed to create channel: %v", c.queueName, err)
				time.Sleep(5 * time.Second)
				continue
			}
			if _, err := DeclareQueue(ch, c.queueName); err != nil {
				log.Printf("[%s] %v", c.queueName, err)
				ch.Close()
				ch = nil
				time.Sleep(5 * time.Second)
				continue
			}
			log.Printf("[%s] channel created", c.queueName)
		}

		msgs, err := NewQueueConsumer(ch, c.queueName)
		if err != nil {
			log.Printf("[%s] failed to start consumer: %v", c.queueName, err)
			ch.Close()
			ch = nil
			time.Sleep(5 * time.Second)
			continue
		}

		log.Printf("[%s] worker started, waiting for messages...", c.queueName)

		channelClosed := false
		for !channelClosed {
			select {
			case <-ctx.Done():
				log.Printf("[%s] shutting down...", c.queueName)
				return nil
			case d, ok := <-msgs:
				if !ok {
					log.Printf("[%s] channel closed, will recreate", c.queueName)
					ch = nil
					channelClosed = true
					time.Sleep(2 * time.Second)
					break
				}
				c.handleDelivery(ctx, d)
			}
		}
	}
}
