package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"pagepulse/internal/models"
)

// CorpusStore persists the classifier's training corpus as an append-only
// sequence of (content, outcome) rows.
type CorpusStore interface {
	Load() ([]models.TrainingSample, error)
	Append(sample models.TrainingSample) error
}

// csvCorpusStore stores samples in a CSV file with a "content,outcome"
// header row. Appends are serialized with a mutex.
type csvCorpusStore struct {
	path string
	mu   sync.Mutex
	log  *logrus.Logger
}

// NewCSVCorpusStore creates a corpus store backed by the CSV file at path.
func NewCSVCorpusStore(path string, log *logrus.Logger) CorpusStore {
	return &csvCorpusStore{path: path, log: log}
}

func (s *csvCorpusStore) Load() ([]models.TrainingSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset file: %w", err)
	}

	samples := make([]models.TrainingSample, 0, len(records))
	for i, record := range records {
		if i == 0 && record[0] == "content" {
			continue // header row
		}
		samples = append(samples, models.TrainingSample{
			Content: record[0],
			Outcome: record[1],
		})
	}
	return samples, nil
}

func (s *csvCorpusStore) Append(sample models.TrainingSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{sample.Content, sample.Outcome}); err != nil {
		return fmt.Errorf("failed to append sample: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush sample: %w", err)
	}

	s.log.Infof("Appended training sample with outcome %q", sample.Outcome)
	return nil
}
