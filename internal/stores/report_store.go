package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dany0k/microservice-bottleneck-detector/internal/models"
	"github.com/dany0k/microservice-bottleneck-detector/internal/shared/filestorages"
)

var ErrReportNotFound = errors.New("analysis report not found")

// ReportStore persists batch analysis reports as JSON documents.
//
//go:generate mockgen -source=report_store.go -destination=./mocks/report_store_mock.go -package=mocks
type ReportStore interface {
	Save(ctx context.Context, key string, report *models.AnalysisReport) error
	Load(ctx context.Context, key string) (*models.AnalysisReport, error)
}

type reportStore struct {
	fileStorage filestorages.FileStorage
}

func NewReportStore(fileStorage filestorages.FileStorage) ReportStore {
	return &reportStore{fileStorage: fileStorage}
}

func (s *reportStore) Save(ctx context.Context, key string, report *models.AnalysisReport) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis report: %w", err)
	}

	if _, err := s.fileStorage.Put(ctx, key, bytes.NewReader(jsonData)); err != nil {
		return fmt.Errorf("failed to put analysis report: %w", err)
	}
	return nil
}

func (s *reportStore) Load(ctx context.Context, key string) (*models.AnalysisReport, error) {
	readCloser, err := s.fileStorage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get analysis report: %w", err)
	}
	defer readCloser.Close()

	data, err := io.ReadAll(readCloser)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis report: %w", err)
	}

	var report models.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis report: %w", err)
	}
	return &report, nil
}
