// Package response defines the per-problem response record and its
// newline-delimited JSON persistence. A record is produced once by the
// generation step and only ever gains derived fields afterwards.
package response

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Record holds one problem's raw responses across conditions, plus the
// derived extraction fields. A nil response marks an unrecoverable
// inference failure for that condition; a nil extracted answer marks an
// extraction failure. Both are distinct from a wrong answer and must
// survive JSON round trips as explicit nulls.
type Record struct {
	ProblemID   string             `json:"problem_id"`
	Question    string             `json:"question"`
	GroundTruth string             `json:"ground_truth"`
	Model       string             `json:"model,omitempty"`
	Responses   map[string]*string `json:"responses"`

	// Derived by the extraction pass.
	ExtractedAnswers   map[string]*float64 `json:"extracted_answers,omitempty"`
	GroundTruthNumeric *float64            `json:"ground_truth_numeric,omitempty"`
}

// ReadResult is the outcome of loading a response file. Malformed lines
// are skipped and counted rather than failing the batch.
type ReadResult struct {
	Records []Record
	Skipped int
}

// ReadFile loads records from a newline-delimited JSON file.
func ReadFile(path string) (*ReadResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("response: empty path")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	out := &ReadResult{}
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil || strings.TrimSpace(rec.ProblemID) == "" {
			out.Skipped++
			continue
		}
		out.Records = append(out.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("response: scan %q: %w", path, err)
	}
	return out, nil
}

// WriteFile stores records as newline-delimited JSON, creating parent
// directories as needed.
func WriteFile(path string, records []Record) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("response: empty path")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("response: create dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("response: encode record %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// AppendFile appends a single record, the generation loop's incremental
// save path.
func AppendFile(path string, rec *Record) error {
	if rec == nil {
		return errors.New("response: nil record")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("response: empty path")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("response: create dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("response: marshal record: %w", err)
	}
	b = append(b, '\n')
	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}

// ExistingIDs returns the problem ids already present in a response file,
// used to resume an interrupted generation run. A missing file is an empty
// set, not an error.
func ExistingIDs(path string) (map[string]bool, error) {
	res, err := ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, err
	}

	ids := make(map[string]bool, len(res.Records))
	for _, rec := range res.Records {
		ids[rec.ProblemID] = true
	}
	return ids, nil
}
