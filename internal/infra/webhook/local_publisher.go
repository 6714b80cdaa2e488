package webhook

import (
	"context"
	"log"
	"sync"

	"github.com/xavierca1/ligue-salesdesk/internal/infra/queue"
)

// LocalPublisher stands in for the broker when none is configured: events are delivered
// in-process on a background goroutine.
type LocalPublisher struct {
	Deliverer queue.Deliverer
	wg        sync.WaitGroup
}

func NewLocalPublisher(d queue.Deliverer) *LocalPublisher {
	return &LocalPublisher{Deliverer: d}
}

func (p *LocalPublisher) PublishSaleEvent(ctx context.Context, payload queue.SaleEventPayload) error {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.Deliverer.DeliverSaleEvent(context.WithoutCancel(ctx), payload); err != nil {
			log.Printf("❌ [DISPATCH] entrega local de %s falhou: %v", payload.Event, err)
		}
	}()
	return nil
}

// Wait blocks until every in-flight delivery has finished.
func (p *LocalPublisher) Wait() {
	p.wg.Wait()
}
