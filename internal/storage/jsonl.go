package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"routeScope/internal/model"
)

const maxLineSize = 64 * 1024 * 1024

// JsonlStorage reads and appends pool snapshots as JSON lines.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutPoolSnapshots appends a batch of snapshots as JSON lines.
func (s *JsonlStorage) PutPoolSnapshots(_ context.Context, snaps []model.PoolSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, snap := range snaps {
		line, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshal pool snapshot: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write pool snapshot: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

// LoadPoolSnapshots reads every snapshot of chainID. A later line for the same pool address
// replaces an earlier one; snapshots without an address are all kept.
func (s *JsonlStorage) LoadPoolSnapshots(ctx context.Context, chainID uint64) ([]model.PoolSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	snaps, err := ReadPoolSnapshots(ctx, file)
	if err != nil {
		return nil, err
	}

	out := make([]model.PoolSnapshot, 0, len(snaps))
	index := make(map[string]int)
	for _, snap := range snaps {
		if snap.ChainID != chainID {
			continue
		}
		if snap.Address != "" {
			key := normalizeAddress(snap.Address)
			if at, ok := index[key]; ok {
				out[at] = snap
				continue
			}
			index[key] = len(out)
		}
		out = append(out, snap)
	}
	return out, nil
}

// ReadPoolSnapshots decodes pool snapshots from JSON lines.
func ReadPoolSnapshots(ctx context.Context, r io.Reader) ([]model.PoolSnapshot, error) {
	return readJSONLines[model.PoolSnapshot](ctx, r)
}

// ReadLogRecords decodes raw chain logs from JSON lines.
func ReadLogRecords(ctx context.Context, r io.Reader) ([]model.LogRecord, error) {
	return readJSONLines[model.LogRecord](ctx, r)
}

// ReadCallRecords decodes raw contract call results from JSON lines.
func ReadCallRecords(ctx context.Context, r io.Reader) ([]model.CallRecord, error) {
	return readJSONLines[model.CallRecord](ctx, r)
}

// ErrMalformedLine marks a JSON line that could not be decoded.
var ErrMalformedLine = errors.New("malformed json line")

func readJSONLines[T any](ctx context.Context, r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	var items []T
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, lineNo, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return items, nil
}
