package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"pagepulse/internal/models"
	"pagepulse/internal/repository"
	"pagepulse/internal/service"
)

// AuthHandler serves the account endpoints.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AddPageRequest struct {
	Username string `json:"username" binding:"required"`
	PageID   string `json:"page_id" binding:"required"`
	PageName string `json:"page_name" binding:"required"`
}

// Login verifies credentials and returns the user's registered pages
// along with a session token. Failures are deliberately coarse: any bad
// credential yields the same error body.
// POST /account/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}

	user, token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error"})
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "OK",
		"page_ids":   lo.Map(user.Pages, func(p models.Page, _ int) string { return p.ID }),
		"page_names": lo.Map(user.Pages, func(p models.Page, _ int) string { return p.Name }),
		"token":      token,
	})
}

// Register creates a new account. A taken username yields the same coarse
// error body as any other failure.
// POST /account/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}

	if err := h.authService.Register(req.Username, req.Password); err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"status": "error"})
			return
		}
		h.logger.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// AddPage registers a Facebook page for the user.
// POST /account/add_page
func (h *AuthHandler) AddPage(c *gin.Context) {
	var req AddPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}

	page := models.Page{ID: req.PageID, Name: req.PageName}
	if err := h.authService.AddPage(req.Username, page); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error"})
			return
		}
		h.logger.Error("Failed to add page", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Me returns the authenticated user's profile.
// GET /account/me
func (h *AuthHandler) Me(c *gin.Context) {
	username := c.MustGet("username").(string)

	user, err := h.authService.GetUser(username)
	if err != nil {
		h.logger.Error("Failed to load user", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": user.Username,
		"pages":    user.Pages,
	})
}
