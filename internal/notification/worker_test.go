package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"fixpoint-backend/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// fakeSubscriptions is an in-memory Subscriptions.
type fakeSubscriptions struct {
	mu      sync.Mutex
	byOwner map[int64][]model.PushSubscription
	deleted []string
	listErr error
}

func (f *fakeSubscriptions) ListForFixpoint(_ context.Context, fixpointID int64) ([]model.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byOwner[fixpointID], nil
}

func (f *fakeSubscriptions) Delete(_ context.Context, _ int64, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, endpoint)
	return nil
}

func (f *fakeSubscriptions) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func okResponse(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, &fakeSubscriptions{}, &webpush.Options{})

	assert.True(t, wp.Dispatch(Assignment{QuoteID: 5, FixpointID: 9}))

	select {
	case job := <-wp.jobs:
		assert.Equal(t, Assignment{QuoteID: 5, FixpointID: 9}, job)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchDropsWhenFull(t *testing.T) {
	wp := NewWorkerPool(1, &fakeSubscriptions{}, &webpush.Options{})

	for i := 0; i < cap(wp.jobs); i++ {
		require.True(t, wp.Dispatch(Assignment{QuoteID: int64(i), FixpointID: 1}))
	}

	done := make(chan bool)
	go func() { done <- wp.Dispatch(Assignment{QuoteID: 999, FixpointID: 1}) }()

	select {
	case queued := <-done:
		assert.False(t, queued)
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}

func TestWorkerPool_SendsToEverySubscription(t *testing.T) {
	defer goleak.VerifyNone(t)

	subs := &fakeSubscriptions{byOwner: map[int64][]model.PushSubscription{
		7: {
			{Endpoint: "https://push.example/a", P256DH: "ka", Auth: "aa", FixpointID: 7},
			{Endpoint: "https://push.example/b", P256DH: "kb", Auth: "ab", FixpointID: 7},
		},
	}}
	wp := NewWorkerPool(2, subs, &webpush.Options{TTL: 60})

	var (
		mu        sync.Mutex
		endpoints []string
		wg        sync.WaitGroup
	)
	wg.Add(2)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			var p Payload
			assert.NoError(t, json.Unmarshal(payload, &p))
			assert.Equal(t, int64(42), p.QuoteID)
			assert.Contains(t, p.Body, "#42")
			assert.Equal(t, 60, options.TTL)

			mu.Lock()
			endpoints = append(endpoints, sub.Endpoint)
			mu.Unlock()
			return okResponse(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	wp.Start(ctx)

	wp.NotifyAssignment(42, 7)
	wg.Wait()

	cancel()
	wp.Wait()

	assert.ElementsMatch(t, []string{"https://push.example/a", "https://push.example/b"}, endpoints)
	assert.Empty(t, subs.Deleted())
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	defer goleak.VerifyNone(t)

	subs := &fakeSubscriptions{byOwner: map[int64][]model.PushSubscription{
		3: {{Endpoint: "https://push.example/expired", P256DH: "k", Auth: "a", FixpointID: 3}},
	}}
	wp := NewWorkerPool(1, subs, &webpush.Options{})
	wp.sender = &mockSender{
		SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			return okResponse(http.StatusGone), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	wp.Start(ctx)
	wp.NotifyAssignment(1, 3)

	assert.Eventually(t, func() bool {
		return len(subs.Deleted()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"https://push.example/expired"}, subs.Deleted())

	cancel()
	wp.Wait()
}

func TestWorkerPool_SkipsOnLookupError(t *testing.T) {
	defer goleak.VerifyNone(t)

	subs := &fakeSubscriptions{listErr: errors.New("database is locked")}
	wp := NewWorkerPool(1, subs, &webpush.Options{})

	var calls int
	wp.sender = &mockSender{
		SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			calls++
			return okResponse(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	wp.Start(ctx)
	wp.NotifyAssignment(1, 3)

	assert.Eventually(t, func() bool { return len(wp.jobs) == 0 }, time.Second, 10*time.Millisecond)
	cancel()
	wp.Wait()

	assert.Zero(t, calls)
}
