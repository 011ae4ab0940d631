package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog/log"

	"fixpoint-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Subscriptions is the part of the subscription store the workers need.
type Subscriptions interface {
	ListForFixpoint(ctx context.Context, fixpointID int64) ([]model.PushSubscription, error)
	Delete(ctx context.Context, fixpointID int64, endpoint string) error
}

// Assignment is one quote handed to one fixpoint.
type Assignment struct {
	QuoteID    int64
	FixpointID int64
}

// Payload is the JSON body pushed to the browser.
type Payload struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	QuoteID int64  `json:"quote_id"`
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Assignment
	subs    Subscriptions
	webpush *webpush.Options
	sender  NotificationSender
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool. The queue holds a few jobs per
// worker; Dispatch drops jobs once it is full.
func NewWorkerPool(size int, subs Subscriptions, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Assignment, size*16),
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines. They exit when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log.Debug().Int("worker", id).Msg("notification worker started")
	for {
		select {
		case job := <-wp.jobs:
			log.Debug().Int("worker", id).Int64("quote_id", job.QuoteID).Int64("fixpoint_id", job.FixpointID).Msg("processing assignment")
			wp.notifyFixpoint(ctx, job)
		case <-ctx.Done():
			log.Debug().Int("worker", id).Msg("notification worker shutting down")
			return
		}
	}
}

// Dispatch queues a job without blocking. It reports false when the queue is
// full and the job was dropped.
func (wp *WorkerPool) Dispatch(job Assignment) bool {
	select {
	case wp.jobs <- job:
		return true
	default:
		log.Warn().Int64("quote_id", job.QuoteID).Int64("fixpoint_id", job.FixpointID).Msg("notification queue full, dropping job")
		return false
	}
}

// NotifyAssignment queues a push to every subscription of the fixpoint a
// quote was assigned to.
func (wp *WorkerPool) NotifyAssignment(quoteID, fixpointID int64) {
	wp.Dispatch(Assignment{QuoteID: quoteID, FixpointID: fixpointID})
}

func (wp *WorkerPool) notifyFixpoint(ctx context.Context, job Assignment) {
	subscriptions, err := wp.subs.ListForFixpoint(ctx, job.FixpointID)
	if err != nil {
		log.Error().Err(err).Int64("fixpoint_id", job.FixpointID).Msg("error fetching subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(Payload{
		Title:   "New quote assigned",
		Body:    fmt.Sprintf("Quote #%d has been assigned to your shop.", job.QuoteID),
		QuoteID: job.QuoteID,
	})
	if err != nil {
		log.Error().Err(err).Msg("error encoding notification payload")
		return
	}

	log.Info().Int("count", len(subscriptions)).Int64("fixpoint_id", job.FixpointID).Msg("sending notifications")
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("error sending notification")
		return
	}
	defer resp.Body.Close()

	// Expired subscription.
	if resp.StatusCode == http.StatusGone {
		log.Info().Str("endpoint", sub.Endpoint).Msg("subscription expired, deleting")
		if err := wp.subs.Delete(ctx, sub.FixpointID, sub.Endpoint); err != nil {
			log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("failed to delete expired subscription")
		}
	}
}
