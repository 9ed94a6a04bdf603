package relay

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
)

const (
	// DefaultTimeout bounds a single delivery when no timeout is configured
	DefaultTimeout = 30 * time.Second

	maxResponseBody    = 1024 // 1KB cap on failure detail
	unreadableResponse = "unable to read error response"
)

// Recorder receives every delivery outcome and batch status
type Recorder interface {
	RecordDelivery(ctx context.Context, outcome Outcome)
	RecordBatch(ctx context.Context, status BatchStatus, targets int)
}

type nopRecorder struct{}

func (nopRecorder) RecordDelivery(context.Context, Outcome)       {}
func (nopRecorder) RecordBatch(context.Context, BatchStatus, int) {}

// Dispatcher fans an event out to targets concurrently
type Dispatcher struct {
	client   *http.Client
	logger   zerolog.Logger
	recorder Recorder

	// inflight tracks batches started by Launch
	inflight sync.WaitGroup
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithClient replaces the HTTP client used for deliveries
func WithClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		d.client = client
	}
}

// WithTimeout sets the per-delivery timeout. Zero keeps DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.client.Timeout = timeout
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification for deliveries
func WithInsecureSkipVerify(skip bool) Option {
	return func(d *Dispatcher) {
		if !skip {
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed staging receivers
		d.client.Transport = transport
	}
}

// WithRecorder reports outcomes to r
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// NewDispatcher creates a dispatcher with its own HTTP client
func NewDispatcher(logger zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   logger.With().Str("component", "dispatcher").Logger(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// job is everything a background batch needs; it shares nothing with the request
type job struct {
	event   Event
	targets []Target
}

// Launch starts delivery of evt to targets in the background and returns at once.
// With no targets nothing is started and NoActiveTargets is returned.
func (d *Dispatcher) Launch(evt Event, targets []Target) BatchStatus {
	if len(targets) == 0 {
		d.recorder.RecordBatch(context.Background(), NoActiveTargets, 0)
		return NoActiveTargets
	}

	j := job{
		event:   evt.Clone(),
		targets: append([]Target(nil), targets...),
	}

	d.inflight.Add(1)
	go d.run(j)
	return Dispatched
}

// Wait blocks until every batch started by Launch has completed
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

func (d *Dispatcher) run(j job) {
	defer d.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Int("targets", len(j.targets)).Msg("dispatch batch panicked")
		}
	}()
	d.Dispatch(context.Background(), j.event, j.targets)
}

// Dispatch delivers evt to every target concurrently and waits for all of them.
// Failures are logged, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, evt Event, targets []Target) DispatchOutcome {
	if len(targets) == 0 {
		return DispatchOutcome{Status: NoActiveTargets}
	}

	outcomes := make([]Outcome, len(targets))
	var wg conc.WaitGroup
	for i, target := range targets {
		wg.Go(func() {
			outcomes[i] = d.deliver(ctx, evt.Clone(), target)
		})
	}
	wg.Wait()

	result := DispatchOutcome{Status: Dispatched, Outcomes: outcomes}
	d.recorder.RecordBatch(ctx, Dispatched, len(targets))
	for _, o := range outcomes {
		d.recorder.RecordDelivery(ctx, o)
		if o.Status == Success {
			d.logger.Info().
				Str("target", o.Target.Name).
				Int("status", o.StatusCode).
				Dur("duration", o.Duration).
				Msg("forwarded webhook")
			continue
		}
		d.logger.Warn().
			Str("target", o.Target.Name).
			Str("url", o.Target.URL).
			Int("status", o.StatusCode).
			Str("detail", o.Detail).
			Dur("duration", o.Duration).
			Msg("forwarding webhook failed")
	}
	return result
}

// deliver posts evt to a single target and classifies the response
func (d *Dispatcher) deliver(ctx context.Context, evt Event, target Target) Outcome {
	start := time.Now()
	fail := func(statusCode int, detail string) Outcome {
		return Outcome{
			Target:     target,
			Status:     Failure,
			StatusCode: statusCode,
			Detail:     detail,
			Duration:   time.Since(start),
		}
	}

	host, err := HostHeader(target.URL)
	if err != nil {
		return fail(0, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(evt.Body))
	if err != nil {
		return fail(0, fmt.Sprintf("creating request: %v", err))
	}
	forwardHeaders(req.Header, evt.Headers)
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Host = host

	resp, err := d.client.Do(req) //nolint:gosec // destination is an operator registered endpoint
	if err != nil {
		return fail(0, fmt.Sprintf("sending request: %v", err))
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Outcome{
			Target:     target,
			Status:     Success,
			StatusCode: resp.StatusCode,
			Duration:   time.Since(start),
		}
	}
	if readErr != nil {
		return fail(resp.StatusCode, unreadableResponse)
	}
	return fail(resp.StatusCode, fmt.Sprintf("endpoint returned error status %d: %s", resp.StatusCode, body))
}
