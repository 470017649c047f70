package qr

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource hands out empty frames and counts Close calls.
type fakeSource struct {
	mu     sync.Mutex
	frames int
	closes int32
}

func (f *fakeSource) NextFrame(ctx context.Context) ([]byte, int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	return make([]byte, 4), 2, 2, nil
}

func (f *fakeSource) Close() error {
	atomic.AddInt32(&f.closes, 1)
	return nil
}

func (f *fakeSource) closeCount() int32 { return atomic.LoadInt32(&f.closes) }

// decodeAfter yields a payload once n frames have been seen.
type decodeAfter struct {
	n       int
	payload string
	seen    int
}

func (d *decodeAfter) Decode(frame []byte, w, h int) (string, bool) {
	d.seen++
	if d.seen >= d.n {
		return d.payload, true
	}
	return "", false
}

// neverDecode never finds a payload.
type neverDecode struct{ attempts int32 }

func (d *neverDecode) Decode(frame []byte, w, h int) (string, bool) {
	atomic.AddInt32(&d.attempts, 1)
	return "", false
}

func TestSessionStopsOnFirstPayload(t *testing.T) {
	src := &fakeSource{}
	dec := &decodeAfter{n: 3, payload: "QR-2024-001"}
	s := NewSession(src, dec, time.Millisecond)

	go s.Run(context.Background())

	payload, err := s.Wait()
	require.NoError(t, err)
	assert.Equal(t, "QR-2024-001", payload)

	// No decode attempts after resolution, and the device is released
	// exactly once.
	assert.Eventually(t, func() bool { return src.closeCount() == 1 }, time.Second, time.Millisecond)
	attempts := dec.seen
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, attempts, dec.seen)
}

func TestSessionCancelClosesSourceOnce(t *testing.T) {
	src := &fakeSource{}
	dec := &neverDecode{}
	s := NewSession(src, dec, time.Millisecond)

	go s.Run(context.Background())
	time.Sleep(5 * time.Millisecond)

	s.Cancel()
	s.Cancel() // idempotent

	_, err := s.Wait()
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Eventually(t, func() bool { return src.closeCount() == 1 }, time.Second, time.Millisecond)
}

func TestSessionManualEntry(t *testing.T) {
	src := &fakeSource{}
	dec := &neverDecode{}
	s := NewSession(src, dec, time.Millisecond)

	go s.Run(context.Background())
	s.SubmitManual("QR-2024-002")

	payload, err := s.Wait()
	require.NoError(t, err)
	assert.Equal(t, "QR-2024-002", payload)
	assert.Eventually(t, func() bool { return src.closeCount() == 1 }, time.Second, time.Millisecond)
}

func TestSessionContextCancellation(t *testing.T) {
	src := &fakeSource{}
	dec := &neverDecode{}
	s := NewSession(src, dec, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}

	_, err := s.Wait()
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, int32(1), src.closeCount())
}
