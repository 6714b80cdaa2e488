package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Deliverer fans a sale event out to the subscribed outbound webhooks.
type Deliverer interface {
	DeliverSaleEvent(ctx context.Context, payload SaleEventPayload) error
}

// Consumer is the subset of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel   Consumer
	Deliverer Deliverer
}

func NewWorker(ch Consumer, deliverer Deliverer) *Worker {
	return &Worker{
		Channel:   ch,
		Deliverer: deliverer,
	}
}

// Start consumes queueName until ctx is cancelled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[WORKER] encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de entregas fechado")
			}
			w.handle(ctx, d)
		}
	}
}

// Acknowledger is implemented by amqp.Delivery.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	w.process(ctx, d.Body, &d)
}

func (w *Worker) process(ctx context.Context, body []byte, ack Acknowledger) {
	var payload SaleEventPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Event == "" {
		log.Printf("❌ [WORKER] payload inválido: %v", err)
		// Malformed messages go straight to the DLQ.
		ack.Nack(false, false)
		return
	}

	if err := w.Deliverer.DeliverSaleEvent(ctx, payload); err != nil {
		log.Printf("❌ [WORKER] falha ao entregar %s da venda %s: %v", payload.Event, payload.SaleID, err)
		ack.Nack(false, false)
		return
	}

	log.Printf("✅ [WORKER] %s entregue (venda %s)", payload.Event, payload.SaleID)
	ack.Ack(false)
}
