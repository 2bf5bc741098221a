package consumer

import (
	"context"
	"sync"

	"github.com/IBM/sarama"
	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/command"
	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
)

// Consumer executes command lines arriving on the commands topic and
// publishes each report as a command result event.
type Consumer struct {
	consGr sarama.ConsumerGroup
	ex     command.Executor
	prod   producer.Producer
	venue  string
	l      logger.Logger
	wg     sync.WaitGroup
}

func NewConsumer(
	consGr sarama.ConsumerGroup,
	ex command.Executor,
	prod producer.Producer,
	venue string,
	l logger.Logger,
) *Consumer {
	return &Consumer{
		consGr: consGr,
		ex:     ex,
		prod:   prod,
		venue:  venue,
		l:      l,
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	switch msg.Topic {
	case kafka.TopicCommands:
		return c.HandleCommand(ctx, msg)
	default:
		c.l.Warnf(ctx, "Unknown topic: %s", msg.Topic)
		return nil
	}
}

// Start consumes until ctx is cancelled. Consume returns on every rebalance,
// so it is called in a loop.
func (c *Consumer) Start(ctx context.Context) error {
	topics := []string{kafka.TopicCommands}
	c.wg.Go(func() {
		for {
			if err := c.consGr.Consume(ctx, topics, c); err != nil {
				c.l.Errorf(ctx, "delivery.kafka.consumer.Start: %v", err)
			}

			if ctx.Err() != nil {
				c.l.Infof(ctx, "delivery.kafka.consumer.Start: %v", ctx.Err())
				return
			}
		}
	})

	c.wg.Go(func() {
		for err := range c.consGr.Errors() {
			c.l.Errorf(ctx, "delivery.kafka.consumer.Start: %v", err)
		}
	})

	c.l.Infof(ctx, "Consumer is consuming topics: %v", topics)
	return nil
}

func (c *Consumer) Close() error {
	if err := c.consGr.Close(); err != nil {
		return err
	}

	c.wg.Wait()
	return nil
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	c.l.Debug(context.Background(), "Consumer group session started")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	c.l.Debug(context.Background(), "Consumer group session ended")
	return nil
}

func (c *Consumer) ConsumeClaim(ss sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}

			// A command that cannot be reported is still marked: replaying it
			// would apply it twice.
			if err := c.processMessage(ss.Context(), message); err != nil {
				c.l.Errorw(ss.Context(), "Failed to process message",
					"topic", message.Topic,
					"offset", message.Offset,
					"error", err,
				)
			}

			ss.MarkMessage(message, "")

		case <-ss.Context().Done():
			return nil
		}
	}
}
