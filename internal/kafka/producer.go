package kafka

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Topics published by the backend.
const (
	TopicOrderEvents = "order_events"
	TopicAuditLogs   = "audit_logs"
)

type Producer interface {
	SendMessage(ctx context.Context, topic string, key []byte, value []byte) error
	Close() error
}

// WriterProducer publishes through a shared kafka-go writer.
type WriterProducer struct {
	writer *kafka.Writer
}

func NewWriterProducer(brokers []string) *WriterProducer {
	return &WriterProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 100 * time.Millisecond,
		},
	}
}

func (p *WriterProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

func (p *WriterProducer) Close() error {
	return p.writer.Close()
}

// ConsoleProducer prints messages instead of publishing them. Used for
// local development without a broker.
type ConsoleProducer struct{}

func NewConsoleProducer() Producer {
	log.Println("Initialized console Kafka producer")
	return &ConsoleProducer{}
}

func (p *ConsoleProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	select {
	case <-time.After(50 * time.Millisecond):
		fmt.Printf("\n--- KAFKA_PRODUCER (CONSOLE) ---\n")
		fmt.Printf("Topic: %s\n", topic)
		fmt.Printf("Key: %s\n", string(key))
		fmt.Printf("Value: %s\n", string(value))
		fmt.Printf("--- END KAFKA ---\n")
		return nil
	case <-ctx.Done():
		log.Printf("KAFKA_PRODUCER (CANCELLED): Topic=[%s], Key=[%s]", topic, string(key))
		return ctx.Err()
	}
}

func (p *ConsoleProducer) Close() error {
	log.Println("Closing console Kafka producer")
	return nil
}
