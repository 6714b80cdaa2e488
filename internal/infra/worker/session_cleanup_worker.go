package worker

import (
	"context"
	"log"
	"time"
)

type ExpiredSessionPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionCleanupWorker deletes expired sessions periodically.
type SessionCleanupWorker struct {
	purger   ExpiredSessionPurger
	interval time.Duration
}

func NewSessionCleanupWorker(purger ExpiredSessionPurger, interval time.Duration) *SessionCleanupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionCleanupWorker{purger: purger, interval: interval}
}

func (w *SessionCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := w.purger.DeleteExpired(ctx)
			if err != nil {
				log.Printf("❌ Erro ao limpar sessões expiradas: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("🧹 %d sessão(ões) expirada(s) removida(s)", n)
			}
		}
	}
}
