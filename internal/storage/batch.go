package storage

import (
	"context"
	"fmt"
	"time"

	"routeScope/internal/model"
)

// Span is a half-open index range [From, To).
type Span struct {
	From int
	To   int
}

// SplitSpans splits n items into consecutive spans of at most batchSize.
func SplitSpans(n, batchSize int) ([]Span, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if n < 0 {
		return nil, fmt.Errorf("item count must not be negative")
	}

	spans := make([]Span, 0, (n+batchSize-1)/batchSize)
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		spans = append(spans, Span{From: start, To: end})
	}
	return spans, nil
}

// WriteOptions controls PutInBatches.
type WriteOptions struct {
	BatchSize    int
	MaxRetries   int
	RetryBackoff time.Duration
}

// PutInBatches writes snaps to sink in batches, retrying each failed batch with
// exponential backoff.
func PutInBatches(ctx context.Context, sink SnapshotSink, snaps []model.PoolSnapshot, opts WriteOptions) error {
	spans, err := SplitSpans(len(snaps), opts.BatchSize)
	if err != nil {
		return err
	}
	for _, span := range spans {
		batch := snaps[span.From:span.To]
		err := withRetry(ctx, opts.MaxRetries, opts.RetryBackoff, func(ctx context.Context) error {
			return sink.PutPoolSnapshots(ctx, batch)
		})
		if err != nil {
			return fmt.Errorf("store batch %d-%d: %w", span.From, span.To, err)
		}
	}
	return nil
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
