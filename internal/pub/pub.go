package pub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const TransactionEventsTopic = "bank.transaction.events"

// EventPublisher is what the usecases see; the kafka writer below is the
// production implementation. Publishing is best-effort from the caller's
// point of view: the ledger commit has already happened by the time an
// event goes out.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *TransactionEvent) error
}

type TransactionEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"` // transaction.completed, transfer.completed, ...
	UserID          int64     `json:"user_id"`
	TransactionID   int64     `json:"transaction_id"`
	TransactionType string    `json:"transaction_type"` // deposit, withdraw, transfer_out, ...
	ReceiptCode     string    `json:"receipt_code"`
	AccountID       int64     `json:"account_id"`
	CounterpartyID  *int64    `json:"counterparty_account_id,omitempty"`
	AmountCents     int64     `json:"amount_cents"`
	Timestamp       time.Time `json:"timestamp"`
}

type KafkaEventPublisher struct {
	writer *kafka.Writer
}

func NewKafkaEventPublisher(brokers []string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    TransactionEventsTopic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaEventPublisher) PublishTransactionEvent(ctx context.Context, event *TransactionEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.Timestamp = time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ReceiptCode),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Printf("[TransactionEvent] Published: %s account=%d receipt=%s",
		event.EventType, event.AccountID, event.ReceiptCode)
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

var _ EventPublisher = (*KafkaEventPublisher)(nil)
