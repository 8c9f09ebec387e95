package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"routeScope/internal/model"
)

// quoteSink encodes quotes one per line to a file or a fallback writer.
type quoteSink struct {
	buf    *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
}

// openQuoteSink truncates path, or wraps fallback when path is empty.
func openQuoteSink(path string, fallback io.Writer) (*quoteSink, error) {
	var (
		dst    = fallback
		closer io.Closer
	)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
		file, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		dst, closer = file, file
	}

	buf := bufio.NewWriter(dst)
	return &quoteSink{buf: buf, enc: json.NewEncoder(buf), closer: closer}, nil
}

func (s *quoteSink) Put(q model.Quote) error {
	if err := s.enc.Encode(q); err != nil {
		return fmt.Errorf("encode quote %d: %w", q.Rank, err)
	}
	return nil
}

// Close flushes buffered quotes and closes the file, if any. It is safe to call twice.
func (s *quoteSink) Close() error {
	if s.buf == nil {
		return nil
	}
	err := s.buf.Flush()
	s.buf = nil
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
