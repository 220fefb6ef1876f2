package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const eventStreamContentType = "text/event-stream"

const readBufferSize = 4096

// Open submits a run request and returns the live stream. The payload is
// JSON-encoded into the POST body. A response that is not 200, does not
// declare an event-stream body, or has no body at all fails immediately
// with the connection released.
func Open(ctx context.Context, endpoint string, payload any, client *http.Client) (*Stream, error) {
	ctx, span := tracer.Start(ctx, "open run stream")
	defer span.End()
	span.SetAttributes(attribute.String("request.url", endpoint))

	body, err := json.Marshal(payload)
	if err != nil {
		err = fmt.Errorf("error marshalling run request: %w", err)
		span.RecordError(err)
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(streamCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		cancel()
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", eventStreamContentType)

	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)}
	}

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		return nil, err
	}
	if contentType := resp.Header.Get("Content-Type"); !strings.HasPrefix(contentType, eventStreamContentType) {
		resp.Body.Close()
		cancel()
		err := fmt.Errorf("unexpected content type %q, want %s", contentType, eventStreamContentType)
		span.RecordError(err)
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		cancel()
		err := errors.New("response carries no body")
		span.RecordError(err)
		return nil, err
	}

	return &Stream{ctx: streamCtx, cancel: cancel, response: resp}, nil
}

// Stream is one live run stream. It is consumed by a single reader via
// Chunks and released by Cancel (or by Chunks draining the body).
type Stream struct {
	ctx      context.Context
	cancel   context.CancelFunc
	response *http.Response

	closeOnce sync.Once
}

// Cancel releases the network connection so no further chunks are
// delivered. Safe to call repeatedly and after the stream has already
// drained.
func (s *Stream) Cancel() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.response.Body.Close()
	})
}

// Chunks yields successive raw text chunks until the stream closes,
// fails, or is cancelled. The final yield carries the read error, if any;
// a cancelled stream ends without one. The stream is released when the
// iteration stops, whichever way it stops.
func (s *Stream) Chunks(ctx context.Context) func(func(string, error) bool) {
	return func(yield func(string, error) bool) {
		defer s.Cancel()

		buf := make([]byte, readBufferSize)
		for {
			if ctx.Err() != nil || s.ctx.Err() != nil {
				return
			}

			n, err := s.response.Body.Read(buf)
			if n > 0 {
				if !yield(string(buf[:n]), nil) {
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil || s.ctx.Err() != nil {
					return
				}
				yield("", fmt.Errorf("error reading streamed response: %w", err))
				return
			}
		}
	}
}
