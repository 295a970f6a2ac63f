package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadJSONL decodes newline-delimited JSON from a file. Blank lines are
// skipped; a malformed line fails the read (dataset files are expected to
// be well formed, unlike response files).
func ReadJSONL[T any](path string) ([]T, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("dataset: empty jsonl path")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeJSONL[T](f)
}

// DecodeJSONL decodes newline-delimited JSON from a reader.
func DecodeJSONL[T any](r io.Reader) ([]T, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var out []T
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(b, &item); err != nil {
			return out, fmt.Errorf("dataset: parse jsonl line %d: %w", line, err)
		}
		out = append(out, item)
	}
	if err := sc.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// WriteJSONL writes items as newline-delimited JSON, creating parent
// directories as needed.
func WriteJSONL[T any](path string, items []T) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("dataset: empty jsonl path")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("dataset: create dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("dataset: encode jsonl: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}
