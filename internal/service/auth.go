package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pagepulse/internal/models"
	"pagepulse/internal/repository"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService handles account registration, login, and page registration.
type AuthService interface {
	Register(username, password string) error
	Login(username, password string) (*models.User, string, error)
	AddPage(username string, page models.Page) error
	GetUser(username string) (*models.User, error)
}

type authService struct {
	users     repository.UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates an auth service over the given user store.
// jwtSecret signs issued tokens; tokenTTL is their lifetime.
func NewAuthService(users repository.UserStore, jwtSecret []byte, tokenTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates a new account. Passwords are stored as bcrypt hashes,
// never plaintext.
func (s *authService) Register(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Pages:        []models.Page{},
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return ErrUserAlreadyExists
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("username", username))
	return nil
}

// Login verifies credentials and issues a signed JWT. Bad username and bad
// password are indistinguishable to the caller.
func (s *authService) Login(username, password string) (*models.User, string, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, "", fmt.Errorf("failed to retrieve user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	expirationTime := time.Now().Add(s.tokenTTL)
	claims := &models.Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Error("Failed to sign JWT token", zap.Error(err))
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("username", user.Username))
	return user, tokenString, nil
}

func (s *authService) AddPage(username string, page models.Page) error {
	if err := s.users.AddPage(username, page); err != nil {
		s.logger.Error("Failed to add page",
			zap.String("username", username),
			zap.String("page_id", page.ID),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) GetUser(username string) (*models.User, error) {
	return s.users.GetByUsername(username)
}
