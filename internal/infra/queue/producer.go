package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SaleEventPayload is published every time a sale is created or changes status.
type SaleEventPayload struct {
	Event          string    `json:"event"` // sale.pending, sale.realized, ...
	SaleID         string    `json:"sale_id"`
	ClientID       string    `json:"client_id"`
	ClientName     string    `json:"client_name"`
	ClientPhone    string    `json:"client_phone"`
	ClientEmail    string    `json:"client_email"`
	Product        string    `json:"product"`
	Value          string    `json:"value"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	ExternalSaleID string    `json:"external_sale_id,omitempty"`
	Origin         string    `json:"origin"` // WEBHOOK_SALES, EXPIRATION_WORKER
	OccurredAt     time.Time `json:"occurred_at"`
}

type QueueProducerInterface interface {
	PublishSaleEvent(ctx context.Context, payload SaleEventPayload) error
}

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishSaleEvent(ctx context.Context, payload SaleEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         payload.Event,
			MessageId:    payload.SaleID,
			Timestamp:    payload.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
