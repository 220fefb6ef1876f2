package optimization

import (
	"net/http"
	"time"

	"github.com/EmilioVenegas/hacknation-Falcon270/core/events"
)

type SessionOption func(*Session)

// WithEndpoint points the session at a different run-submission endpoint.
func WithEndpoint(endpoint string) SessionOption {
	return func(s *Session) { s.endpoint = endpoint }
}

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(client *http.Client) SessionOption {
	return func(s *Session) { s.httpClient = client }
}

type runOptions struct {
	onThought  func(events.AgentThought)
	onReport   func(events.FinalReport)
	onRunError func(message string)
	onUnknown  func(events.Unknown)
	onPhase    func(Phase)
	onSnapshot func(State)

	idleTimeout time.Duration
}

type RunOption func(*runOptions)

// WithThoughtCallback fires for every agent thought appended to the log.
func WithThoughtCallback(callback func(events.AgentThought)) RunOption {
	return func(o *runOptions) { o.onThought = callback }
}

// WithReportCallback fires when the final report arrives.
func WithReportCallback(callback func(events.FinalReport)) RunOption {
	return func(o *runOptions) { o.onReport = callback }
}

// WithErrorCallback fires when the pipeline reports a run failure.
func WithErrorCallback(callback func(message string)) RunOption {
	return func(o *runOptions) { o.onRunError = callback }
}

// WithUnknownEventCallback fires for payloads this client cannot
// classify. Diagnostic only; unknown events never fail a run.
func WithUnknownEventCallback(callback func(events.Unknown)) RunOption {
	return func(o *runOptions) { o.onUnknown = callback }
}

// WithPhaseCallback fires on every phase transition, the transition into
// running included.
func WithPhaseCallback(callback func(Phase)) RunOption {
	return func(o *runOptions) { o.onPhase = callback }
}

// WithSnapshotCallback fires with a fresh state snapshot after every
// applied event and once more when the run settles.
func WithSnapshotCallback(callback func(State)) RunOption {
	return func(o *runOptions) { o.onSnapshot = callback }
}

// WithIdleTimeout fails the run when no stream data arrives within d.
// Zero disables the watchdog.
func WithIdleTimeout(d time.Duration) RunOption {
	return func(o *runOptions) { o.idleTimeout = d }
}
