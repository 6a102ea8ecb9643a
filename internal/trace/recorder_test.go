package trace

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestRecorder(t *testing.T, max int) (*Recorder, *tracetest.SpanRecorder, *time.Time) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRecorder(newExporter(provider), "Loading...", max)
	r.now = func() time.Time { return now }
	return r, sr, &now
}

func attr(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRecorder_OneSpanPerShownInterval(t *testing.T) {
	r, sr, now := newTestRecorder(t, 0)

	r.Observe(false, true)
	if got := len(sr.Started()); got != 1 {
		t.Fatalf("after show: expected 1 started span, got %d", got)
	}
	if got := len(sr.Ended()); got != 0 {
		t.Errorf("after show: expected no ended spans, got %d", got)
	}

	*now = now.Add(1500 * time.Millisecond)
	r.Observe(true, false)

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("after hide: expected 1 ended span, got %d", len(ended))
	}
	span := ended[0]
	if span.Name() != SpanName {
		t.Errorf("span name: expected %q, got %q", SpanName, span.Name())
	}
	if d := span.EndTime().Sub(span.StartTime()); d != 1500*time.Millisecond {
		t.Errorf("span duration: expected 1.5s, got %v", d)
	}
	if v, ok := attr(span.Attributes(), AttrMessage); !ok || v.AsString() != "Loading..." {
		t.Errorf("message attribute: got %v (present=%v)", v.AsString(), ok)
	}
	if v, ok := attr(span.Attributes(), AttrDuration); !ok || v.AsInt64() != 1500 {
		t.Errorf("duration attribute: got %v (present=%v)", v.AsInt64(), ok)
	}
}

func TestRecorder_IgnoresNonTransitions(t *testing.T) {
	r, sr, _ := newTestRecorder(t, 0)

	r.Observe(false, false)
	r.Observe(true, true)
	if got := len(sr.Started()); got != 0 {
		t.Errorf("expected no spans, got %d", got)
	}
	if _, ok := r.Active(); ok {
		t.Error("expected no active interval")
	}
}

func TestRecorder_ActiveInterval(t *testing.T) {
	r, _, now := newTestRecorder(t, 0)
	start := *now

	r.Observe(false, true)
	iv, ok := r.Active()
	if !ok {
		t.Fatal("expected an active interval")
	}
	if !iv.Active || !iv.StartTime.Equal(start) || iv.Message != "Loading..." {
		t.Errorf("unexpected active interval: %+v", iv)
	}

	r.Observe(true, false)
	if _, ok := r.Active(); ok {
		t.Error("expected no active interval after hide")
	}
}

func TestRecorder_RecentNewestFirstAndBounded(t *testing.T) {
	r, _, now := newTestRecorder(t, 2)

	for i := 1; i <= 3; i++ {
		r.Observe(false, true)
		*now = now.Add(time.Duration(i) * time.Second)
		r.Observe(true, false)
	}

	recent := r.Recent()
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent intervals, got %d", len(recent))
	}
	if recent[0].Duration != 3*time.Second || recent[1].Duration != 2*time.Second {
		t.Errorf("expected durations [3s 2s], got [%v %v]", recent[0].Duration, recent[1].Duration)
	}
	if recent[0].Active {
		t.Error("completed interval reported as active")
	}
}

func TestRecorder_CloseEndsOpenSpan(t *testing.T) {
	r, sr, _ := newTestRecorder(t, 0)

	r.Observe(false, true)
	r.Close()
	if got := len(sr.Ended()); got != 1 {
		t.Errorf("expected Close to end the open span, got %d ended", got)
	}
	r.Close()
	if got := len(sr.Ended()); got != 1 {
		t.Errorf("second Close should be a no-op, got %d ended", got)
	}
}

func TestRecorder_OnChange(t *testing.T) {
	r, _, _ := newTestRecorder(t, 0)
	calls := 0
	var seen []int
	r.SetOnChange(func() {
		calls++
		// The callback reads back through the public accessors.
		seen = append(seen, len(r.Recent()))
		r.Active()
	})

	r.Observe(false, true)
	r.Observe(true, true)
	r.Observe(true, false)
	if calls != 2 {
		t.Errorf("expected 2 onChange calls, got %d", calls)
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Errorf("expected recent counts [0 1] inside callback, got %v", seen)
	}
}

func TestRecorder_NilExporter(t *testing.T) {
	r := NewRecorder(nil, "x", 0)
	r.Observe(false, true)
	r.Observe(true, false)
	if got := len(r.Recent()); got != 1 {
		t.Errorf("nil exporter still records intervals: expected 1, got %d", got)
	}
}
