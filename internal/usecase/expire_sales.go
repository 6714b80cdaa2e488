package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const originExpiration = "EXPIRATION_WORKER"

// ExpireSalesUseCase marks pending sales older than a TTL as lost and announces each one.
type ExpireSalesUseCase struct {
	Sales    entity.SaleRepositoryInterface
	Clients  entity.ClientRepositoryInterface
	Producer QueueProducerInterface
}

func NewExpireSalesUseCase(sales entity.SaleRepositoryInterface, clients entity.ClientRepositoryInterface, producer QueueProducerInterface) *ExpireSalesUseCase {
	return &ExpireSalesUseCase{Sales: sales, Clients: clients, Producer: producer}
}

func (uc *ExpireSalesUseCase) Execute(ctx context.Context, ttl time.Duration) (int, error) {
	expired, err := uc.Sales.ExpirePending(ctx, time.Now().Add(-ttl))
	if err != nil {
		return 0, persistence("expire pending sales", err)
	}

	for _, sale := range expired {
		log.Printf("⏱️ [EXPIRATION] venda %s (cliente %s) pendente há %s, marcada como lost",
			sale.ID, sale.ClientID, time.Since(sale.CreatedAt).Round(time.Minute))

		if uc.Producer == nil {
			continue
		}
		client, err := uc.Clients.FindByID(ctx, sale.ClientID)
		if err != nil {
			log.Printf("⚠️ [EXPIRATION] cliente %s não carregado: %v", sale.ClientID, err)
		}
		payload := saleEventPayload(client, sale, entity.SaleStatusPending, originExpiration)
		if err := uc.Producer.PublishSaleEvent(ctx, payload); err != nil {
			log.Printf("⚠️ [EXPIRATION] evento da venda %s não publicado: %v", sale.ID, err)
		}
	}
	return len(expired), nil
}
