package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pagepulse/internal/models"
)

// Retrainer accepts one labeled sample and re-fits the model over the
// full updated corpus.
type Retrainer interface {
	RetrainWithFeedback(sample models.TrainingSample) error
}

// FeedbackHandler records user corrections to comment ratings.
type FeedbackHandler struct {
	retrainer Retrainer
	logger    *zap.Logger
}

func NewFeedbackHandler(retrainer Retrainer, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{retrainer: retrainer, logger: logger}
}

type FeedbackRequest struct {
	Content string `json:"content" binding:"required"`
	Outcome string `json:"outcome" binding:"required"`
}

// Submit appends the sample to the training corpus and retrains the
// classifier.
// POST /feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sample := models.TrainingSample{Content: req.Content, Outcome: req.Outcome}
	if err := h.retrainer.RetrainWithFeedback(sample); err != nil {
		h.logger.Error("Failed to retrain with feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record feedback"})
		return
	}

	c.String(http.StatusOK, "success")
}
