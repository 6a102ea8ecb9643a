package trace

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// SpanName is the name of the span covering one shown interval.
const SpanName = "loading"

// Attribute keys set on loading spans.
const (
	AttrMessage  = attribute.Key("loadingview.message")
	AttrDuration = attribute.Key("loadingview.duration_ms")
)

// Interval is one period during which the overlay was presented.
type Interval struct {
	Message   string
	StartTime time.Time
	Duration  time.Duration // zero while Active
	Active    bool
}

// Recorder turns visibility flag changes into loading spans and keeps the
// most recent intervals for display.
type Recorder struct {
	mu       sync.RWMutex
	tracer   oteltrace.Tracer
	message  string
	now      func() time.Time
	active   *Interval
	span     oteltrace.Span
	recent   []Interval // oldest first
	max      int        // max intervals to keep (default 10)
	onChange func()
}

// NewRecorder creates a recorder that starts spans on exporter's tracer.
// exporter may be nil.
func NewRecorder(exporter *OTLPExporter, message string, maxIntervals int) *Recorder {
	if maxIntervals <= 0 {
		maxIntervals = 10
	}
	return &Recorder{
		tracer:  exporter.Tracer(),
		message: message,
		now:     time.Now,
		recent:  make([]Interval, 0, maxIntervals),
		max:     maxIntervals,
	}
}

// Observe records a flag transition. It has the signature of
// ui.Modifier.OnChange so it can be assigned directly.
func (r *Recorder) Observe(from, to bool) {
	if from == to {
		return
	}
	r.mu.Lock()
	if to {
		r.start()
	} else {
		r.end()
	}
	fn := r.onChange
	r.mu.Unlock()

	// Called unlocked so the callback can read Active and Recent.
	if fn != nil {
		fn()
	}
}

// start opens an interval. Must be called with r.mu held.
func (r *Recorder) start() {
	r.end()
	now := r.now()
	r.active = &Interval{Message: r.message, StartTime: now, Active: true}
	_, r.span = r.tracer.Start(context.Background(), SpanName,
		oteltrace.WithTimestamp(now),
		oteltrace.WithAttributes(AttrMessage.String(r.message)),
	)
}

// end closes the open interval, if any. Must be called with r.mu held.
func (r *Recorder) end() {
	if r.active == nil {
		return
	}
	now := r.now()
	done := *r.active
	done.Active = false
	done.Duration = now.Sub(done.StartTime)

	r.span.SetAttributes(AttrDuration.Int64(done.Duration.Milliseconds()))
	r.span.End(oteltrace.WithTimestamp(now))
	r.active, r.span = nil, nil

	r.recent = append(r.recent, done)
	if len(r.recent) > r.max {
		r.recent = r.recent[1:]
	}
}

// Active returns the open interval, if the overlay is currently shown.
func (r *Recorder) Active() (Interval, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active == nil {
		return Interval{}, false
	}
	return *r.active, true
}

// Recent returns completed intervals, newest first.
func (r *Recorder) Recent() []Interval {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Interval, 0, len(r.recent))
	for i := len(r.recent) - 1; i >= 0; i-- {
		result = append(result, r.recent[i])
	}
	return result
}

// SetOnChange sets callback for state changes (thread-safe)
func (r *Recorder) SetOnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Close ends any open span so it is not lost on exit.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.end()
}
