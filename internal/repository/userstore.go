package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"pagepulse/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// UserStore provides CRUD over the persisted username -> account mapping.
type UserStore interface {
	GetByUsername(username string) (*models.User, error)
	Create(user *models.User) error
	AddPage(username string, page models.Page) error
}

// fileUserStore keeps users in a flat JSON file of the form
// {"users": [...]}. Every mutation is a full read-modify-write cycle;
// the mutex serializes writers so concurrent requests cannot corrupt
// or lose data.
type fileUserStore struct {
	path string
	mu   sync.Mutex
	log  *logrus.Logger
}

type userDatabase struct {
	Users []models.User `json:"users"`
}

// NewFileUserStore creates a user store backed by the JSON file at path.
// A missing file is treated as an empty database.
func NewFileUserStore(path string, log *logrus.Logger) UserStore {
	return &fileUserStore{path: path, log: log}
}

func (s *fileUserStore) load() (*userDatabase, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &userDatabase{}, nil
		}
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	db := &userDatabase{}
	if err := json.Unmarshal(data, db); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}
	return db, nil
}

func (s *fileUserStore) save(db *userDatabase) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	return nil
}

func (s *fileUserStore) GetByUsername(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range db.Users {
		if db.Users[i].Username == username {
			user := db.Users[i]
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *fileUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	for i := range db.Users {
		if db.Users[i].Username == user.Username {
			return ErrUserExists
		}
	}

	if user.Pages == nil {
		user.Pages = []models.Page{}
	}
	db.Users = append(db.Users, *user)

	if err := s.save(db); err != nil {
		return err
	}
	s.log.Infof("Created user %s", user.Username)
	return nil
}

// AddPage registers a page for the user. Adding a page the user already
// has is a no-op, pages stay unique by page_id.
func (s *fileUserStore) AddPage(username string, page models.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}

	found := false
	for i := range db.Users {
		if db.Users[i].Username != username {
			continue
		}
		found = true
		if !db.Users[i].HasPage(page.ID) {
			db.Users[i].Pages = append(db.Users[i].Pages, page)
		}
		break
	}
	if !found {
		return ErrUserNotFound
	}

	return s.save(db)
}
