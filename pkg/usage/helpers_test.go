package usage_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/reviewsystem/pkg/limits"
	"github.com/dmitrymomot/reviewsystem/pkg/subscription"
)

var errNetwork = errors.New("connection refused")

type fakeSource struct {
	mu        sync.Mutex
	sub       subscription.Subscription
	usage     subscription.UsageSnapshot
	subErr    error
	usageErr  error
	subCalls  atomic.Int32
	usageCall atomic.Int32
}

func newFakeSource(plan string, counts map[string]int64) *fakeSource {
	return &fakeSource{
		sub:   subscription.Subscription{Plan: plan, Status: "active"},
		usage: subscription.NewUsageSnapshot(counts),
	}
}

func (f *fakeSource) CurrentSubscription(context.Context) (subscription.Subscription, error) {
	f.subCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sub, f.subErr
}

func (f *fakeSource) CurrentUsage(context.Context) (subscription.UsageSnapshot, error) {
	f.usageCall.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usage.Clone(), f.usageErr
}

func (f *fakeSource) setUsage(counts map[string]int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usage = subscription.NewUsageSnapshot(counts)
}

func (f *fakeSource) setSubErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subErr = err
}

func (f *fakeSource) fetches() int {
	return int(f.subCalls.Load())
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu           sync.Mutex
	limitReached []limits.Quota
	warnings     []limits.Quota
}

func (n *recordingNotifier) LimitReached(_ context.Context, q limits.Quota) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.limitReached = append(n.limitReached, q)
}

func (n *recordingNotifier) Warning(_ context.Context, q limits.Quota) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings = append(n.warnings, q)
}

func (n *recordingNotifier) total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.limitReached) + len(n.warnings)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
