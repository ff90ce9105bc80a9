package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"pagepulse/internal/graph"
	"pagepulse/internal/models"
)

// FetchMode selects how comment fetches for a feed are issued.
type FetchMode int

const (
	// FetchSequential issues the N comment fetches one after another.
	FetchSequential FetchMode = iota
	// FetchConcurrent fans the N comment fetches out over a bounded set
	// of goroutines and gathers all results before building posts.
	FetchConcurrent
)

// GraphAPI is the slice of the Graph API client the feed service needs.
type GraphAPI interface {
	FetchPosts(ctx context.Context, pageID string) ([]graph.RawPost, error)
	FetchComments(ctx context.Context, postID string) ([]graph.RawComment, error)
}

// Predictor rates a single comment text.
type Predictor interface {
	Predict(text string) (string, error)
}

// FeedService joins Graph API data with the classifier to build enriched
// post views. Both fetch modes produce the same logical result.
type FeedService struct {
	graph       GraphAPI
	predictor   Predictor
	concurrency int
	strict      bool
	logger      *zap.Logger
}

// NewFeedService creates a feed service. concurrency bounds the fan-out in
// concurrent mode. With strict filtering, posts whose feed record carries
// no comments block are dropped entirely.
func NewFeedService(graphAPI GraphAPI, predictor Predictor, concurrency int, strict bool, logger *zap.Logger) *FeedService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &FeedService{
		graph:       graphAPI,
		predictor:   predictor,
		concurrency: concurrency,
		strict:      strict,
		logger:      logger,
	}
}

// Feed builds the aggregated feed of a page. Output order matches the
// order posts were returned by the Graph API. A failed comment fetch for
// one post never aborts its siblings: the post is kept with no comments
// and the failure is logged.
func (s *FeedService) Feed(ctx context.Context, pageID string, mode FetchMode) ([]models.Post, error) {
	raw, err := s.graph.FetchPosts(ctx, pageID)
	if err != nil {
		return nil, err
	}

	posts := lo.Filter(raw, func(p graph.RawPost, _ int) bool {
		if p.Message == nil {
			return false
		}
		if s.strict && p.Comments == nil {
			return false
		}
		return true
	})

	var commentSets [][]graph.RawComment
	var fetchErr error
	if mode == FetchConcurrent {
		commentSets, fetchErr = s.fetchConcurrent(ctx, posts)
	} else {
		commentSets, fetchErr = s.fetchSequential(ctx, posts)
	}
	if fetchErr != nil {
		s.logger.Warn("Some comment fetches failed",
			zap.String("page_id", pageID),
			zap.Error(fetchErr))
	}

	result := make([]models.Post, 0, len(posts))
	for i, p := range posts {
		comments := make([]models.Comment, 0, len(commentSets[i]))
		for _, rc := range commentSets[i] {
			if rc.Message == nil {
				continue
			}
			rating, err := s.predictor.Predict(*rc.Message)
			if err != nil {
				return nil, fmt.Errorf("failed to rate comment %s: %w", rc.ID, err)
			}
			comments = append(comments, models.Comment{
				Identifier: rc.ID,
				Message:    *rc.Message,
				Rating:     rating,
			})
		}

		url := ""
		if p.Link != nil {
			url = *p.Link
		}
		result = append(result, models.Post{
			Identifier: p.ID,
			Content:    *p.Message,
			URL:        url,
			Comments:   comments,
		})
	}
	return result, nil
}

func (s *FeedService) fetchSequential(ctx context.Context, posts []graph.RawPost) ([][]graph.RawComment, error) {
	sets := make([][]graph.RawComment, len(posts))
	var errs *multierror.Error
	for i, p := range posts {
		comments, err := s.graph.FetchComments(ctx, p.ID)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("post %s: %w", p.ID, err))
			continue
		}
		sets[i] = comments
	}
	return sets, errs.ErrorOrNil()
}

// fetchConcurrent issues all comment fetches at once, bounded by a
// semaphore. Results land in an index-addressed slice so the output order
// is the feed order no matter which call completes first.
func (s *FeedService) fetchConcurrent(ctx context.Context, posts []graph.RawPost) ([][]graph.RawComment, error) {
	sets := make([][]graph.RawComment, len(posts))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs *multierror.Error
	)
	semaphore := make(chan struct{}, s.concurrency)

	for i, p := range posts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, postID string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			comments, err := s.graph.FetchComments(ctx, postID)
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("post %s: %w", postID, err))
				mu.Unlock()
				return
			}
			sets[i] = comments
		}(i, p.ID)
	}
	wg.Wait()

	return sets, errs.ErrorOrNil()
}
