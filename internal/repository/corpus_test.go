package repository_test

import (
	"os"
	"path/filepath"
	"testing"

	"pagepulse/internal/models"
	"pagepulse/internal/repository"
)

func writeDataset(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte(rows), 0o644); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}
	return path
}

func TestCorpusLoadSkipsHeader(t *testing.T) {
	path := writeDataset(t, "content,outcome\ngreat stuff,positive\nawful stuff,negative\n")
	store := repository.NewCSVCorpusStore(path, testLogger())

	samples, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(samples))
	}
	if samples[0].Content != "great stuff" || samples[0].Outcome != "positive" {
		t.Errorf("Unexpected first sample: %+v", samples[0])
	}
}

func TestCorpusAppendIsAppendOnly(t *testing.T) {
	path := writeDataset(t, "content,outcome\nseed row,positive\n")
	store := repository.NewCSVCorpusStore(path, testLogger())

	before, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	const n = 3
	for i := 0; i < n; i++ {
		sample := models.TrainingSample{Content: "feedback text", Outcome: "negative"}
		if err := store.Append(sample); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}

		samples, err := store.Load()
		if err != nil {
			t.Fatalf("Load after append failed: %v", err)
		}
		if len(samples) != len(before)+i+1 {
			t.Fatalf("Expected corpus to grow by exactly 1 per append, got %d rows after %d appends", len(samples), i+1)
		}
	}

	// A store reopened from disk sees all appended rows.
	reopened := repository.NewCSVCorpusStore(path, testLogger())
	samples, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load after reopen failed: %v", err)
	}
	if len(samples) != len(before)+n {
		t.Errorf("Expected %d rows after reopen, got %d", len(before)+n, len(samples))
	}
	last := samples[len(samples)-1]
	if last.Content != "feedback text" || last.Outcome != "negative" {
		t.Errorf("Unexpected last sample: %+v", last)
	}
}

func TestCorpusAppendQuotesCommas(t *testing.T) {
	path := writeDataset(t, "content,outcome\n")
	store := repository.NewCSVCorpusStore(path, testLogger())

	sample := models.TrainingSample{Content: "nice, but slow", Outcome: "negative"}
	if err := store.Append(sample); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	samples, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(samples) != 1 || samples[0].Content != "nice, but slow" {
		t.Errorf("Expected quoted comma to round-trip, got %+v", samples)
	}
}
