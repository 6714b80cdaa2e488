package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/queue"
)

const (
	HeaderEvent     = "X-Salesdesk-Event"
	HeaderSignature = "X-Salesdesk-Signature"
	HeaderDelivery  = "X-Salesdesk-Delivery"

	// Response bodies beyond this are not kept in the delivery log.
	maxErrorBody = 512
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dispatcher posts events to the configured outbound webhooks and records every attempt.
type Dispatcher struct {
	Webhooks   entity.WebhookRepositoryInterface
	Deliveries entity.WebhookEventRepositoryInterface
	Client     HTTPDoer
}

func NewDispatcher(webhooks entity.WebhookRepositoryInterface, deliveries entity.WebhookEventRepositoryInterface, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		Webhooks:   webhooks,
		Deliveries: deliveries,
		Client:     &http.Client{Timeout: timeout},
	}
}

// DeliverSaleEvent sends payload to every active webhook subscribed to its event. Failed
// deliveries are logged rows, not errors; only a failure to load the webhooks is returned.
func (d *Dispatcher) DeliverSaleEvent(ctx context.Context, payload queue.SaleEventPayload) error {
	hooks, err := d.Webhooks.ListActiveByEvent(ctx, payload.Event)
	if err != nil {
		return fmt.Errorf("listar webhooks de %s: %w", payload.Event, err)
	}
	if len(hooks) == 0 {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	for _, w := range hooks {
		ev := d.deliver(ctx, w, payload.Event, body)
		if ev.Status == entity.DeliveryFailed {
			log.Printf("⚠️ [DISPATCH] %s para %s falhou: %s", payload.Event, w.URL, deref(ev.Error))
		}
	}
	return nil
}

// Trigger delivers one event to one webhook and returns the recorded attempt.
func (d *Dispatcher) Trigger(ctx context.Context, w *entity.Webhook, event string, payload any) (*entity.WebhookEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	ev := d.deliver(ctx, w, event, body)
	return ev, nil
}

func (d *Dispatcher) deliver(ctx context.Context, w *entity.Webhook, event string, body []byte) *entity.WebhookEvent {
	ev := &entity.WebhookEvent{
		ID:        uuid.New().String(),
		WebhookID: w.ID,
		Event:     event,
		Payload:   json.RawMessage(body),
		CreatedAt: time.Now(),
	}

	code, err := d.post(ctx, w, ev.ID, event, body)
	if code != 0 {
		ev.ResponseCode = &code
	}
	if err != nil {
		msg := err.Error()
		ev.Error = &msg
		ev.Status = entity.DeliveryFailed
	} else {
		ev.Status = entity.DeliverySuccess
	}
	middleware.RecordWebhookDelivery(event, string(ev.Status))

	// The attempt already happened; record it even if the caller has gone away.
	if err := d.Deliveries.Create(context.WithoutCancel(ctx), ev); err != nil {
		log.Printf("❌ [DISPATCH] falha ao registrar entrega %s: %v", ev.ID, err)
	}
	return ev
}

func (d *Dispatcher) post(ctx context.Context, w *entity.Webhook, deliveryID, event string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "salesdesk-webhooks/1.0")
	req.Header.Set(HeaderEvent, event)
	req.Header.Set(HeaderDelivery, deliveryID)
	if w.Secret != "" {
		req.Header.Set(HeaderSignature, Sign(w.Secret, body))
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Sign returns the signature header value: "sha256=" + hex(HMAC-SHA256(secret, body)).
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches body under secret.
func Verify(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
