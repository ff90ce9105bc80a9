package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pagepulse/internal/classifier"
	"pagepulse/internal/graph"
	"pagepulse/internal/models"
	"pagepulse/internal/service"
)

// FeedService is the slice of the feed service the handler needs.
type FeedService interface {
	Feed(ctx context.Context, pageID string, mode service.FetchMode) ([]models.Post, error)
}

// FeedHandler serves the aggregated page feed endpoints.
type FeedHandler struct {
	feedService FeedService
	logger      *zap.Logger
}

func NewFeedHandler(feedService FeedService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{feedService: feedService, logger: logger}
}

// ListFeeds returns the page's posts with classified comments, fetching
// comments sequentially.
// GET /page/:page_id/feeds
func (h *FeedHandler) ListFeeds(c *gin.Context) {
	h.serve(c, service.FetchSequential)
}

// ListFeedsAsync is the concurrent variant: all comment fetches are
// issued at once and gathered before the response is built.
// GET /async/page/:page_id/feeds
func (h *FeedHandler) ListFeedsAsync(c *gin.Context) {
	h.serve(c, service.FetchConcurrent)
}

func (h *FeedHandler) serve(c *gin.Context, mode service.FetchMode) {
	pageID := c.Param("page_id")

	posts, err := h.feedService.Feed(c.Request.Context(), pageID, mode)
	if err != nil {
		var remoteErr *graph.RemoteError
		if errors.As(err, &remoteErr) {
			h.logger.Error("Graph API request failed", zap.String("page_id", pageID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch page feed"})
			return
		}
		if errors.Is(err, classifier.ErrModelNotReady) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Classifier is not ready"})
			return
		}
		h.logger.Error("Failed to build feed", zap.String("page_id", pageID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build feed"})
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}
