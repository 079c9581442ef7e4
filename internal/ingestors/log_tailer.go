package ingestors

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dany0k/microservice-bottleneck-detector/internal/parsers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/loggers"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/metrics"
	"github.com/dany0k/microservice-bottleneck-detector/internal/stores"
)

//go:generate mockgen -source=log_tailer.go -destination=./mocks/log_tailer_mock.go -package=mocks
type LogTailer interface {
	// Start opens the call log, seeks to its end and begins polling for
	// appended lines. It fails only if the file cannot be opened.
	Start(ctx context.Context) error
	Stop()
}

type logTailer struct {
	path         string
	pollInterval time.Duration
	recordLog    *stores.RecordLog

	wg sync.WaitGroup

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewLogTailer(path string, pollInterval time.Duration, recordLog *stores.RecordLog) LogTailer {
	return &logTailer{
		path:         path,
		pollInterval: pollInterval,
		recordLog:    recordLog,
		stopCh:       make(chan struct{}),
	}
}

func (t *logTailer) Start(ctx context.Context) error {
	file, err := os.Open(t.path)
	if err != nil {
		return errLogOpenFailed(t.path, err)
	}

	// Only lines appended after startup feed the live pipeline.
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return errLogOpenFailed(t.path, err)
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer file.Close()

		t.run(ctx, file)
	}()
	return nil
}

// Stop waits for the tail goroutine to drain (best called during app shutdown).
func (t *logTailer) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
	t.wg.Wait()
}

func (t *logTailer) run(ctx context.Context, file *os.File) {
	logger := loggers.Ctx(ctx)
	logger.Info().Msgf("tailing call log: %s", t.path)

	reader := bufio.NewReader(file)
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	// Writers may land mid-line between polls, so a read that ends without a
	// newline is carried over and completed on a later poll.
	var partial strings.Builder

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.drain(ctx, reader, &partial)
		}
	}
}

// drain consumes every complete line currently available in the file.
func (t *logTailer) drain(ctx context.Context, reader *bufio.Reader, partial *strings.Builder) {
	for {
		chunk, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			partial.WriteString(chunk)
			return
		}
		if err != nil {
			loggers.Ctx(ctx).Warn().Err(err).Msg("call log read failed, retrying on next poll")
			return
		}

		line := partial.String() + chunk
		partial.Reset()
		t.ingestLine(ctx, line)
	}
}

func (t *logTailer) ingestLine(ctx context.Context, line string) {
	record, err := parsers.ParseLine(line)
	if err != nil {
		var inputErr *parsers.InputError
		if errors.As(err, &inputErr) && inputErr.Field == parsers.FieldTimestamp && record != nil {
			// The record is still usable for graph building, only window
			// selection ignores it.
			loggers.Ctx(ctx).Debug().Err(err).Msg("call record kept without timestamp")
		} else {
			metricLinesTailedTotal.WithLabelValues(codeInvalidLine).Inc()
			loggers.Ctx(ctx).Debug().Err(err).Msg("skipped malformed call log line")
			return
		}
	}
	if record == nil {
		// Blank or comment line.
		return
	}

	t.recordLog.Append(*record)
	metricLinesTailedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	metricRecordLogSize.Set(float64(t.recordLog.Len()))
}
