// Package classifier implements the trainable sentiment pipeline used to
// rate page comments: tokenize -> rebalance (training only) -> TF-IDF
// naive Bayes.
package classifier

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/jbrukh/bayesian"
	"go.uber.org/zap"

	"pagepulse/internal/models"
	"pagepulse/internal/repository"
)

var (
	ErrModelNotReady  = errors.New("classifier has not been trained yet")
	ErrCorpusTooSmall = errors.New("corpus needs at least two distinct outcomes")
)

// Classifier wraps a TF-IDF naive Bayes model over the durable training
// corpus. Training is always a full re-fit over the entire corpus; the
// model cannot be updated incrementally.
type Classifier struct {
	mu     sync.RWMutex
	model  *bayesian.Classifier
	labels []bayesian.Class

	corpus repository.CorpusStore
	logger *zap.Logger
}

// New creates an untrained classifier bound to the given corpus store.
func New(corpus repository.CorpusStore, logger *zap.Logger) *Classifier {
	return &Classifier{corpus: corpus, logger: logger}
}

// Bootstrap loads the corpus from durable storage and trains the model.
// It must complete before the service accepts classification requests.
func (c *Classifier) Bootstrap() error {
	samples, err := c.corpus.Load()
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	return c.Train(samples)
}

// Train fits a fresh model over the full corpus. The class-imbalance
// rebalancing stage runs here and only here, never during Predict, so no
// synthetic samples leak into inference.
func (c *Classifier) Train(samples []models.TrainingSample) error {
	labels := distinctOutcomes(samples)
	if len(labels) < 2 {
		return ErrCorpusTooSmall
	}

	balanced := oversample(samples)

	model := bayesian.NewClassifierTfIdf(labels...)
	for _, sample := range balanced {
		model.Learn(tokenize(sample.Content), bayesian.Class(sample.Outcome))
	}
	model.ConvertTermsFreqToTfIdf()

	c.mu.Lock()
	c.model = model
	c.labels = labels
	c.mu.Unlock()

	c.logger.Info("Classifier trained",
		zap.Int("samples", len(samples)),
		zap.Int("balanced_samples", len(balanced)),
		zap.Int("classes", len(labels)))
	return nil
}

// Predict returns the label for a single input string. It fails with
// ErrModelNotReady if called before training has completed.
func (c *Classifier) Predict(text string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.model == nil {
		return "", ErrModelNotReady
	}

	_, inx, _ := c.model.LogScores(tokenize(text))
	return string(c.labels[inx]), nil
}

// RetrainWithFeedback appends one labeled sample to the durable corpus and
// re-fits the model over the full updated corpus. O(corpus) per call,
// acceptable while the corpus stays small.
func (c *Classifier) RetrainWithFeedback(sample models.TrainingSample) error {
	if err := c.corpus.Append(sample); err != nil {
		return fmt.Errorf("failed to persist feedback: %w", err)
	}

	samples, err := c.corpus.Load()
	if err != nil {
		return fmt.Errorf("failed to reload corpus: %w", err)
	}
	return c.Train(samples)
}

func distinctOutcomes(samples []models.TrainingSample) []bayesian.Class {
	seen := map[string]struct{}{}
	for _, s := range samples {
		seen[s.Outcome] = struct{}{}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	classes := make([]bayesian.Class, len(labels))
	for i, label := range labels {
		classes[i] = bayesian.Class(label)
	}
	return classes
}

// oversample duplicates minority-class samples at random until every class
// has as many samples as the largest one.
func oversample(samples []models.TrainingSample) []models.TrainingSample {
	byOutcome := map[string][]models.TrainingSample{}
	for _, s := range samples {
		byOutcome[s.Outcome] = append(byOutcome[s.Outcome], s)
	}

	max := 0
	for _, group := range byOutcome {
		if len(group) > max {
			max = len(group)
		}
	}

	balanced := make([]models.TrainingSample, 0, max*len(byOutcome))
	balanced = append(balanced, samples...)
	for _, group := range byOutcome {
		for n := len(group); n < max; n++ {
			balanced = append(balanced, group[rand.Intn(len(group))])
		}
	}
	return balanced
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
