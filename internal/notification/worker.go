package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/store"
)

// NotificationSender delivers one encrypted push message to a browser endpoint.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender delivers through the configured VAPID push service.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// StatusEvent is queued whenever an exit request changes status through the portal.
// TenantID may be empty, in which case the journal is consulted.
type StatusEvent struct {
	RequestID string
	TenantID  string
	Status    model.ExitStatus
}

// Payload is the JSON body delivered to the tenant's browser.
type Payload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// NewPayload builds the notification text for a status change.
func NewPayload(ev StatusEvent) Payload {
	return Payload{
		Title:     "Exit request update",
		Body:      fmt.Sprintf("Your exit request %s is now %s.", ev.RequestID, ev.Status),
		RequestID: ev.RequestID,
		Status:    string(ev.Status),
	}
}

// WorkerPool drains queued status events on a fixed number of goroutines.
type WorkerPool struct {
	size    int
	jobs    chan StatusEvent
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
	log     *zap.Logger
}

// NewWorkerPool creates a new worker pool with a buffered queue.
func NewWorkerPool(size, queueSize int, st store.Store, webpushOptions *webpush.Options, log *zap.Logger) *WorkerPool {
	if queueSize < size {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan StatusEvent, queueSize),
		store:   st,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log,
	}
}

// Start runs the workers until ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug("notification worker started", zap.Int("worker", id))
	for {
		select {
		case ev := <-wp.jobs:
			wp.notify(ctx, ev)
		case <-ctx.Done():
			wp.log.Debug("notification worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues an event without blocking. It reports false when the queue is full.
func (wp *WorkerPool) Dispatch(ev StatusEvent) bool {
	select {
	case wp.jobs <- ev:
		return true
	default:
		wp.log.Warn("notification queue full, dropping event", zap.String("request_id", ev.RequestID))
		return false
	}
}

// WithSender replaces the push backend.
func (wp *WorkerPool) WithSender(s NotificationSender) *WorkerPool {
	wp.sender = s
	return wp
}

// Jobs exposes the queue to tests.
func (wp *WorkerPool) Jobs() chan StatusEvent {
	return wp.jobs
}

// notify resolves the tenant for an event and pushes to each of their subscriptions.
func (wp *WorkerPool) notify(ctx context.Context, ev StatusEvent) {
	tenantID := ev.TenantID
	if tenantID == "" {
		var err error
		tenantID, err = wp.store.TenantForRequest(ctx, ev.RequestID)
		if errors.Is(err, store.ErrNotFound) {
			wp.log.Debug("request not submitted through the portal, skipping push", zap.String("request_id", ev.RequestID))
			return
		}
		if err != nil {
			wp.log.Warn("tenant lookup failed", zap.String("request_id", ev.RequestID), zap.Error(err))
			return
		}
	}

	subscriptions, err := wp.store.SubscriptionsForTenant(ctx, tenantID)
	if err != nil {
		wp.log.Warn("subscription lookup failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(NewPayload(ev))
	if err != nil {
		wp.log.Error("failed to encode push payload", zap.Error(err))
		return
	}

	wp.log.Info("sending status notifications",
		zap.String("request_id", ev.RequestID),
		zap.String("tenant_id", tenantID),
		zap.Int("subscriptions", len(subscriptions)))
	for _, sub := range subscriptions {
		wp.deliver(ctx, sub, payload)
	}
}

// deliver pushes payload to one subscription and forgets it when the push
// service reports it gone.
func (wp *WorkerPool) deliver(ctx context.Context, sub model.PushSubscription, payload []byte) {
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, target, wp.webpush)
	if err != nil {
		wp.log.Warn("push delivery failed", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.log.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Warn("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}
