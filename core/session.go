// Package optimization drives one molecular-optimization run against the
// agent pipeline: it submits the request, consumes the event stream, and
// owns the observable run state.
package optimization

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/EmilioVenegas/hacknation-Falcon270/core/sse"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const defaultEndpoint = "http://localhost:8000/api/run-crew"

// Session runs one optimization at a time. Starting a new run cancels any
// run still in flight and rebuilds the state from scratch; there is no
// cross-run accumulation. State is mutated only by the run loop and
// exposed to observers as deep-copied snapshots.
type Session struct {
	endpoint   string
	httpClient *http.Client
	machine    *stateMachine

	// runMu serializes whole runs; mu guards the cancel handle so Cancel
	// and a starting run do not race.
	runMu sync.Mutex
	mu    sync.Mutex

	cancelRun context.CancelFunc
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		endpoint: defaultEndpoint,
		machine:  newStateMachine(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current run state.
func (s *Session) Snapshot() State {
	return s.machine.snapshot()
}

// Cancel stops the active run, if any, and marks it cancelled. Calling it
// with no run in flight, or more than once, has no effect.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancelRun
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	// Mark the phase before releasing the transport so the run loop does
	// not mistake the closure for a silent stream end.
	s.machine.cancel()
	cancel()
}

// Run submits the request and blocks until the run settles. The returned
// error reports request validation and transport-level failures; a run
// the pipeline itself aborts returns nil with the failure recorded in the
// state. Whichever way the loop exits, the transport is released and the
// phase leaves running.
func (s *Session) Run(ctx context.Context, request Request, opts ...RunOption) error {
	options := runOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	emit := callbackEmitter{options: options}

	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid run request: %w", err)
	}

	// Tear down any active run, then wait for its loop to drain before
	// touching shared state.
	s.Cancel()
	s.runMu.Lock()
	defer s.runMu.Unlock()

	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "optimization run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.String("run.goal", string(request.Goal)),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancelRun = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.cancelRun = nil
		s.mu.Unlock()
	}()

	if !s.machine.start(runID) {
		return errors.New("run already in progress")
	}
	lastPhase := PhaseIdle
	s.publishState(emit, &lastPhase)

	stream, err := sse.Open(runCtx, s.endpoint, request, s.httpClient)
	if err != nil {
		err = fmt.Errorf("error opening run stream: %w", err)
		span.RecordError(err)
		s.machine.fail(err.Error())
		s.publishState(emit, &lastPhase)
		return err
	}
	defer stream.Cancel()
	defer s.settle(runCtx, emit, &lastPhase)

	var idleTimedOut atomic.Bool
	var watchdog *time.Timer
	if options.idleTimeout > 0 {
		watchdog = time.AfterFunc(options.idleTimeout, func() {
			idleTimedOut.Store(true)
			stream.Cancel()
		})
		defer watchdog.Stop()
	}

	var buffer sse.FrameBuffer
	for chunk, err := range stream.Chunks(runCtx) {
		if err != nil {
			err = fmt.Errorf("error reading run stream: %w", err)
			span.RecordError(err)
			s.machine.fail(err.Error())
			s.publishState(emit, &lastPhase)
			return err
		}
		if watchdog != nil {
			watchdog.Reset(options.idleTimeout)
		}

		for _, frame := range buffer.Append(chunk) {
			event, parseErr := sse.ParseFrame(frame)
			if parseErr != nil {
				framesDropped.Add(runCtx, 1)
				logger.WarnContext(runCtx, "dropping undecodable frame", "error", parseErr)
				continue
			}

			applied, terminal := s.machine.apply(event)
			if !applied {
				continue
			}
			eventsApplied.Add(runCtx, 1)
			emit.event(event)
			s.publishState(emit, &lastPhase)
			if terminal {
				// The first terminal-capable event ends the run; release
				// the transport and stop before any trailing frames.
				stream.Cancel()
				return nil
			}
		}
	}

	if idleTimedOut.Load() {
		err := fmt.Errorf("no stream data within %s", options.idleTimeout)
		span.RecordError(err)
		s.machine.fail(err.Error())
		s.publishState(emit, &lastPhase)
		return err
	}

	return nil
}

// settle forces the phase out of running when the loop exits without a
// terminal event, and publishes the final snapshot.
func (s *Session) settle(ctx context.Context, emit callbackEmitter, lastPhase *Phase) {
	if s.machine.finishSilently() {
		logger.WarnContext(ctx, "stream closed without a terminal event, treating as clean completion")
	}
	s.publishState(emit, lastPhase)
}

// publishState pushes a fresh snapshot to observers, announcing the phase
// first when it changed.
func (s *Session) publishState(emit callbackEmitter, lastPhase *Phase) {
	snapshot := s.machine.snapshot()
	if snapshot.Phase != *lastPhase {
		*lastPhase = snapshot.Phase
		emit.phase(snapshot.Phase)
	}
	emit.snapshot(snapshot)
}
