package consumer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"
	"github.com/vogiaan1904/ticketbottle-seating/internal/delivery/kafka"
)

// HandleCommand accepts either a CommandEvent JSON document or a bare
// command line as the message value.
func (c *Consumer) HandleCommand(ctx context.Context, message *sarama.ConsumerMessage) error {
	line, err := decodeCommand(message.Value)
	if err != nil {
		c.l.Warnf(ctx, "delivery.kafka.consumer.HandleCommand: %v", err)
		return err
	}

	c.l.Debugw(ctx, "Command consumed", "command", line, "offset", message.Offset)

	res := c.ex.Execute(ctx, line)

	if err := c.prod.PublishCommandResult(ctx, kafka.CommandResultEvent{
		Venue:   c.venue,
		Command: line,
		Lines:   res.Lines,
	}); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandleCommand: %v", err)
		return err
	}

	return nil
}

func decodeCommand(val []byte) (string, error) {
	trimmed := bytes.TrimSpace(val)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty command message")
	}

	if trimmed[0] == '{' {
		var e kafka.CommandEvent
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return "", fmt.Errorf("invalid command event: %w", err)
		}
		line := strings.TrimSpace(e.Command)
		if line == "" {
			return "", fmt.Errorf("command event without command")
		}
		return line, nil
	}

	return string(trimmed), nil
}
