package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-salesdesk/internal/infra/http/middleware"
)

// SaleExpirer is implemented by usecase.ExpireSalesUseCase.
type SaleExpirer interface {
	Execute(ctx context.Context, ttl time.Duration) (int, error)
}

type SaleExpirationWorker struct {
	expirer      SaleExpirer
	ttl          time.Duration
	tickInterval time.Duration
}

func NewSaleExpirationWorker(expirer SaleExpirer, ttl, tick time.Duration) *SaleExpirationWorker {
	if tick <= 0 {
		tick = time.Minute
	}
	return &SaleExpirationWorker{
		expirer:      expirer,
		ttl:          ttl,
		tickInterval: tick,
	}
}

// Start blocks until ctx is cancelled. A zero TTL disables the worker.
func (w *SaleExpirationWorker) Start(ctx context.Context) {
	if w.ttl <= 0 {
		log.Println("🕒 Sale Expiration Worker desativado (SALE_PENDING_TTL=0)")
		return
	}
	log.Printf("🕒 Sale Expiration Worker iniciado (janela %s)", w.ttl)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Sale Expiration Worker encerrado")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SaleExpirationWorker) runOnce(ctx context.Context) {
	n, err := w.expirer.Execute(ctx, w.ttl)
	if err != nil {
		log.Printf("❌ Erro ao expirar vendas pendentes: %v", err)
		return
	}
	if n > 0 {
		middleware.RecordSalesExpired(n)
		log.Printf("✅ %d venda(s) pendente(s) marcadas como lost", n)
	}
}
