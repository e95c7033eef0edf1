package mywaifulist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single request from connection to the last body byte
const DefaultTimeout = 20 * time.Second

// RawResult is the status code and body of a completed exchange, whatever the status
type RawResult struct {
	StatusCode int
	Body       string
}

// IsSuccess reports whether the status code is 2xx
func (r RawResult) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// executor sends GET requests on a worker pool and hands back RawResults
type executor struct {
	baseURL    string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	pool       WorkerPool
	logger     zerolog.Logger
}

type outcome struct {
	raw RawResult
	err *Error
}

// execute blocks until the request queued on the pool completes or ctx is done.
// The returned error is always a transport *Error.
func (e *executor) execute(ctx context.Context, path string) (RawResult, *Error) {
	done := make(chan outcome, 1)

	err := e.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: newTransportError(path, fmt.Errorf("request task panicked: %v", r))}
			}
		}()
		raw, err := e.roundTrip(ctx, path)
		done <- outcome{raw: raw, err: err}
	})
	if err != nil {
		if errors.Is(err, ErrPoolStopped) {
			err = fmt.Errorf("%w: %w", ErrClientClosed, err)
		}
		return RawResult{}, newTransportError(path, err)
	}

	select {
	case out := <-done:
		return out.raw, out.err
	case <-ctx.Done():
		return RawResult{}, newTransportError(path, ctx.Err())
	}
}

// roundTrip runs on a worker: build, send, buffer
func (e *executor) roundTrip(ctx context.Context, path string) (RawResult, *Error) {
	if err := ctx.Err(); err != nil {
		return RawResult{}, newTransportError(path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+path, nil)
	if err != nil {
		return RawResult{}, newTransportError(path, fmt.Errorf("failed to create request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("apikey", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return RawResult{}, newTransportError(path, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RawResult{}, newTransportError(path, fmt.Errorf("failed to read response body: %w", err))
	}

	e.logger.Debug().
		Str("request_id", requestID).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("proto", resp.Proto).
		Dur("duration", time.Since(start)).
		Msg("MyWaifuList API request completed")

	return RawResult{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
