// Package webhook delivers domain events to the endpoints registered on a
// thread. Deliveries are best-effort, at-most-once, and isolated from one
// another: a failing endpoint never aborts the others or the mutation that
// triggered the dispatch.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/forumkit/forumkit/internal/metrics"
	"github.com/forumkit/forumkit/internal/model"
	"github.com/forumkit/forumkit/internal/store"
)

// SignatureHeader carries the hex HMAC-SHA256 of the exact request body,
// keyed with the webhook's secret, when one is configured.
const SignatureHeader = "X-Webhook-Signature"

// Envelope is the wire format POSTed to every endpoint.
type Envelope struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Result records one delivery attempt. Either Status or Err is set.
type Result struct {
	WebhookID int64
	Success   bool
	Status    int
	Err       error
}

type Dispatcher struct {
	store  store.Store
	client *http.Client
}

// NewDispatcher builds a dispatcher with a bounded per-delivery timeout so a
// slow endpoint cannot stall the fan-out indefinitely.
func NewDispatcher(st store.Store, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		store:  st,
		client: &http.Client{Timeout: timeout},
	}
}

// Dispatch loads the thread's webhooks and delivers the event to each of
// them concurrently, returning once every delivery has finished. Failures
// are logged and counted, never returned: callers that must not couple
// their latency to third-party endpoints run Dispatch in its own goroutine,
// after the triggering mutation has committed.
func (d *Dispatcher) Dispatch(ctx context.Context, threadID int64, eventType string, payload any) {
	hooks, err := d.store.ListWebhooks(ctx, threadID)
	if err != nil {
		log.Printf("webhook: listing webhooks for thread %d: %v", threadID, err)
		return
	}
	if len(hooks) == 0 {
		return
	}
	metrics.WebhookDispatches.WithLabelValues(eventType).Inc()

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("webhook: encoding %s payload for thread %d: %v", eventType, threadID, err)
		return
	}
	// Serialized once up front: these exact bytes are what gets signed.
	body, err := json.Marshal(Envelope{Event: eventType, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		log.Printf("webhook: encoding %s envelope for thread %d: %v", eventType, threadID, err)
		return
	}

	results := make([]Result, len(hooks))
	var wg sync.WaitGroup
	for i, hook := range hooks {
		wg.Add(1)
		go func(i int, hook model.Webhook) {
			defer wg.Done()
			results[i] = d.deliver(ctx, hook, body)
		}(i, hook)
	}
	wg.Wait()

	var failed int
	for _, res := range results {
		if res.Success {
			metrics.WebhookDeliveries.WithLabelValues("ok").Inc()
			continue
		}
		failed++
		if res.Err != nil {
			metrics.WebhookDeliveries.WithLabelValues("error").Inc()
			log.Printf("webhook: delivery %d for thread %d (%s) failed: %v", res.WebhookID, threadID, eventType, res.Err)
		} else {
			metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
			log.Printf("webhook: delivery %d for thread %d (%s) returned status %d", res.WebhookID, threadID, eventType, res.Status)
		}
	}
	if failed > 0 {
		log.Printf("webhook: thread %d event %s: %d/%d deliveries failed", threadID, eventType, failed, len(hooks))
	}
}

func (d *Dispatcher) deliver(ctx context.Context, hook model.Webhook, body []byte) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		return Result{WebhookID: hook.ID, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if hook.APIKey != "" {
		req.Header.Set(SignatureHeader, Sign(hook.APIKey, body))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{WebhookID: hook.ID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{WebhookID: hook.ID, Status: resp.StatusCode}
	}
	if err := d.store.MarkWebhookTriggered(ctx, hook.ID); err != nil {
		return Result{WebhookID: hook.ID, Err: fmt.Errorf("marking triggered: %w", err)}
	}
	return Result{WebhookID: hook.ID, Success: true, Status: resp.StatusCode}
}

// Sign computes the hex HMAC-SHA256 of body under the given secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
