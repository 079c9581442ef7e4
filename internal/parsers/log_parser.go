package parsers

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
)

// Call-log rows are comma separated:
//
//	timestamp,sourceService,sourceEndpoint,destService,destEndpoint,latencyMillis
//
// Lines starting with '#' and blank lines are skipped. Timestamps are ISO-8601;
// a trailing 'Z' means UTC, and a zone-less timestamp is assumed UTC.
const recordColumns = 6

const (
	FieldTimestamp = "timestamp"
	FieldLatency   = "latency"
	FieldColumns   = "columns"
)

// InputError describes a malformed field in a call-log line. A latency or
// column error makes the whole record unusable; a timestamp error leaves the
// caller a usable record minus its timestamp.
type InputError struct {
	Line  int    // 1-based line number, 0 when parsing a standalone line
	Field string // FieldTimestamp, FieldLatency or FieldColumns
	Value string
	Cause error
}

func (e *InputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid %s %q", e.Line, e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// ParseLine parses a single call-log line into a CallRecord.
//
// Returns (nil, nil) for skipped lines (blank or comment). On a timestamp
// error it returns both a record with the zero timestamp and an *InputError,
// so the caller chooses between dropping the record and dropping only its
// timestamp usage. Any other error yields a nil record.
func ParseLine(line string) (*models.CallRecord, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}

	row, err := csv.NewReader(strings.NewReader(trimmed)).Read()
	if err != nil || len(row) != recordColumns {
		return nil, &InputError{Field: FieldColumns, Value: trimmed, Cause: err}
	}

	latency, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil || latency < 0 {
		return nil, &InputError{Field: FieldLatency, Value: row[5], Cause: err}
	}

	record := &models.CallRecord{
		SourceService:  strings.TrimSpace(row[1]),
		SourceEndpoint: strings.TrimSpace(row[2]),
		DestService:    strings.TrimSpace(row[3]),
		DestEndpoint:   strings.TrimSpace(row[4]),
		LatencyMillis:  latency,
	}

	ts, err := parseTimestamp(strings.TrimSpace(row[0]))
	if err != nil {
		return record, &InputError{Field: FieldTimestamp, Value: row[0], Cause: err}
	}
	record.Timestamp = ts

	return record, nil
}

// ParseFile reads a whole call log. Structural errors (bad columns, bad
// latency) abort the parse; records with unparsable timestamps are kept with
// the zero timestamp.
func ParseFile(path string) ([]models.CallRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open call log %q: %w", path, err)
	}
	defer f.Close()

	var records []models.CallRecord
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		record, err := ParseLine(scanner.Text())
		if err != nil {
			var inputErr *InputError
			if errors.As(err, &inputErr) {
				inputErr.Line = lineNo
				if inputErr.Field == FieldTimestamp {
					// keep the record, drop only its timestamp usage
					records = append(records, *record)
					continue
				}
			}
			return nil, err
		}
		if record == nil {
			continue
		}
		records = append(records, *record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read call log %q: %w", path, err)
	}

	return records, nil
}

// parseTimestamp accepts RFC3339 (trailing Z or explicit offset) and
// zone-less ISO-8601, which is treated as UTC.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999999", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
