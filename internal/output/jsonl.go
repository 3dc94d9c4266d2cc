package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// JSONLWriter streams Records as JSON lines. It is safe for concurrent use.
type JSONLWriter struct {
	mu     sync.Mutex
	w      *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONLWriter wraps w with buffering.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{w: bw, enc: enc}
}

// CreateJSONL creates (or truncates) path, making parent directories as needed.
func CreateJSONL(path string) (*JSONLWriter, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create JSONL directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create JSONL file: %w", err)
	}
	j := NewJSONLWriter(f)
	j.closer = f
	return j, nil
}

// Write encodes a single record as one line.
func (j *JSONLWriter) Write(rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(rec); err != nil {
		return fmt.Errorf("write JSONL: %w", err)
	}
	return nil
}

// Flush flushes the underlying buffer.
func (j *JSONLWriter) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.w.Flush()
}

// Close flushes the buffer and closes the file opened by CreateJSONL.
func (j *JSONLWriter) Close() error {
	if err := j.Flush(); err != nil {
		return err
	}
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
