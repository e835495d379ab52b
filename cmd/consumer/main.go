package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	defaultBrokers = "localhost:9092"
	topic          = "order_events"
	groupID        = "order-events-consumer-group"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = defaultBrokers
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(brokers, ","),
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Printf("Error closing Kafka reader: %v", err)
		}
	}()

	log.Printf("Consumer connected to topic '%s' on brokers %s", topic, brokers)

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutdown signal received, stopping consumer.")
			return
		default:
			m, err := r.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Error reading message: %v", err)
				time.Sleep(5 * time.Second)
				continue
			}

			fmt.Printf("\n--- ORDER_EVENT ---\n")
			fmt.Printf("Timestamp: %s\n", m.Time.Format(time.RFC3339))
			fmt.Printf("Partition: %d\n", m.Partition)
			fmt.Printf("Offset:    %d\n", m.Offset)
			fmt.Printf("Key:       %s\n", string(m.Key))
			fmt.Printf("Value:     %s\n", string(m.Value))
			fmt.Println("--- END EVENT ---")
		}
	}
}
