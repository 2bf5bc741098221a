package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	kafka "github.com/vogiaan1904/ticketbottle-seating/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-seating/pkg/logger"
	"github.com/vogiaan1904/ticketbottle-seating/pkg/util"
)

type Producer interface {
	PublishSeatAssigned(ctx context.Context, event kafka.SeatAssignedEvent) error
	PublishSeatReleased(ctx context.Context, event kafka.SeatReleasedEvent) error
	PublishWaitlistUpdated(ctx context.Context, event kafka.WaitlistUpdatedEvent) error
	PublishCommandResult(ctx context.Context, event kafka.CommandResultEvent) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishSeatAssigned(ctx context.Context, event kafka.SeatAssignedEvent) error {
	event.MessageID = uuid.New().String()
	event.Timestamp = time.Now()
	return p.send(ctx, kafka.TopicSeatAssigned, event.Venue, event.MessageID, event)
}

func (p *implProducer) PublishSeatReleased(ctx context.Context, event kafka.SeatReleasedEvent) error {
	event.MessageID = uuid.New().String()
	event.Timestamp = time.Now()
	return p.send(ctx, kafka.TopicSeatReleased, event.Venue, event.MessageID, event)
}

func (p *implProducer) PublishWaitlistUpdated(ctx context.Context, event kafka.WaitlistUpdatedEvent) error {
	event.MessageID = uuid.New().String()
	event.Timestamp = time.Now()
	return p.send(ctx, kafka.TopicWaitlistUpdated, event.Venue, event.MessageID, event)
}

func (p *implProducer) PublishCommandResult(ctx context.Context, event kafka.CommandResultEvent) error {
	event.MessageID = uuid.New().String()
	event.Timestamp = time.Now()
	return p.send(ctx, kafka.TopicCommandResult, event.Venue, event.MessageID, event)
}

func (p *implProducer) send(ctx context.Context, topic, key, msgID string, event any) error {
	val, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.send: %v", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key), // Partition by venue for ordering
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("message_id"),
				Value: []byte(msgID),
			},
			{
				Key:   []byte("timestamp"),
				Value: []byte(util.TimeToISO8601Str(time.Now().UTC())),
			},
		},
	}

	if _, _, err := p.prod.SendMessage(msg); err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.send: topic=%s: %v", topic, err)
		return err
	}

	return nil
}

func (p *implProducer) Close() error {
	if err := p.prod.Close(); err != nil {
		return err
	}

	return nil
}
