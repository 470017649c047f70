// Package qr drives a scan session against a pluggable frame decoder.
// The decoder itself is an external concern; this package owns the
// polling loop, the manual-entry fallback, and resource teardown.
//
// This is a library surface for scanning clients. Nothing in the HTTP
// daemon imports it; scanned payloads reach the server as plain code
// strings.
package qr

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Decoder consumes one video frame and reports a decoded payload, if any.
type Decoder interface {
	Decode(frame []byte, width, height int) (string, bool)
}

// FrameSource produces frames from a capture device. Close releases the
// device lock and must be safe to call more than once.
type FrameSource interface {
	NextFrame(ctx context.Context) (frame []byte, width, height int, err error)
	Close() error
}

// ErrCancelled is returned by Wait when the session was cancelled
// before any payload was produced.
var ErrCancelled = errors.New("scan session cancelled")

// Session polls frames until the decoder finds a payload, the caller
// submits one manually, or the session is cancelled. Whatever ends the
// session, the frame source is closed exactly once.
type Session struct {
	decoder  Decoder
	source   FrameSource
	interval time.Duration

	once    sync.Once
	result  chan string
	done    chan struct{}
	closeMu sync.Mutex
	closed  bool
}

// NewSession creates a session over the given source and decoder.
// interval is the frame polling period; zero means a sensible default.
func NewSession(source FrameSource, decoder Decoder, interval time.Duration) *Session {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Session{
		decoder:  decoder,
		source:   source,
		interval: interval,
		result:   make(chan string, 1),
		done:     make(chan struct{}),
	}
}

// Run polls the frame source until the session resolves. It returns
// when a payload is found, manual entry resolves the session, or ctx is
// cancelled. Decode attempts stop immediately on resolution.
func (s *Session) Run(ctx context.Context) {
	defer s.teardown()

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.cancel()
			return
		case <-s.done:
			return
		case <-timer.C:
		}

		frame, w, h, err := s.source.NextFrame(ctx)
		if err != nil {
			// Losing the device ends the session; the caller falls
			// back to manual entry.
			log.Printf("Frame capture failed, stopping scan: %v", err)
			s.cancel()
			return
		}

		// Drop the frame if the session resolved while it was captured.
		select {
		case <-s.done:
			return
		default:
		}

		if payload, ok := s.decoder.Decode(frame, w, h); ok {
			s.resolve(payload)
			return
		}
		timer.Reset(s.interval)
	}
}

// SubmitManual resolves the session with a hand-typed code. Downstream
// handling is identical to a decoded payload.
func (s *Session) SubmitManual(code string) {
	s.resolve(code)
}

// Cancel stops the session and is idempotent. No further frames are
// fetched once it returns; a decode already in flight may still finish,
// and its result is discarded.
func (s *Session) Cancel() {
	s.cancel()
	s.teardown()
}

// Wait blocks until the session resolves and returns the payload, or
// ErrCancelled.
func (s *Session) Wait() (string, error) {
	<-s.done
	select {
	case payload := <-s.result:
		return payload, nil
	default:
		return "", ErrCancelled
	}
}

func (s *Session) resolve(payload string) {
	s.once.Do(func() {
		s.result <- payload
		close(s.done)
	})
	s.teardown()
}

func (s *Session) cancel() {
	s.once.Do(func() {
		close(s.done)
	})
}

// teardown closes the capture source exactly once.
func (s *Session) teardown() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if err := s.source.Close(); err != nil {
		log.Printf("Error closing frame source: %v", err)
	}
}
