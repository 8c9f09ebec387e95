package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"routeScope/internal/model"
)

func TestSplitSpans(t *testing.T) {
	got, err := SplitSpans(5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Span{{From: 0, To: 2}, {From: 2, To: 4}, {From: 4, To: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("spans mismatch: %+v != %+v", got, want)
	}

	got, err = SplitSpans(0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no spans, got %+v", got)
	}
}

func TestSplitSpansInvalid(t *testing.T) {
	if _, err := SplitSpans(10, 0); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
	if _, err := SplitSpans(-1, 1); err == nil {
		t.Fatalf("expected error for negative count")
	}
}

type flakySink struct {
	failures int
	calls    int
	batches  [][]model.PoolSnapshot
}

func (s *flakySink) PutPoolSnapshots(_ context.Context, snaps []model.PoolSnapshot) error {
	s.calls++
	if s.failures > 0 {
		s.failures--
		return errors.New("connection reset")
	}
	s.batches = append(s.batches, snaps)
	return nil
}

func TestPutInBatchesRetries(t *testing.T) {
	sink := &flakySink{failures: 2}
	snaps := make([]model.PoolSnapshot, 5)

	err := PutInBatches(context.Background(), sink, snaps, WriteOptions{BatchSize: 2, MaxRetries: 2, RetryBackoff: time.Millisecond})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(sink.batches) != 3 || sink.calls != 5 {
		t.Fatalf("unexpected writes: %d batches, %d calls", len(sink.batches), sink.calls)
	}
	if len(sink.batches[2]) != 1 {
		t.Fatalf("last batch size mismatch: %d", len(sink.batches[2]))
	}
}

func TestPutInBatchesGivesUp(t *testing.T) {
	sink := &flakySink{failures: 10}
	err := PutInBatches(context.Background(), sink, make([]model.PoolSnapshot, 1), WriteOptions{BatchSize: 1, MaxRetries: 1, RetryBackoff: time.Millisecond})
	if err == nil {
		t.Fatalf("expected error")
	}
	if sink.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", sink.calls)
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, 5, time.Hour, func(context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}
