package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// Credentials is what a session persists between runs.
type Credentials struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// TokenStore persists credentials. Load returns (nil, nil) when nothing is stored.
type TokenStore interface {
	Load() (*Credentials, error)
	Save(*Credentials) error
	Clear() error
}

// FileTokenStore keeps credentials in a JSON file readable only by the owner.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore stores credentials at path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath honours LOSTFOUND_SESSION_FILE and otherwise falls back
// to <user config dir>/lostfound/session.json.
func DefaultTokenPath() (string, error) {
	if path := os.Getenv("LOSTFOUND_SESSION_FILE"); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lostfound", "session.json"), nil
}

func (s *FileTokenStore) Load() (*Credentials, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &creds, nil
}

func (s *FileTokenStore) Save(creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps credentials for the life of the process.
type MemoryTokenStore struct {
	mu    sync.Mutex
	creds *Credentials
}

func (s *MemoryTokenStore) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return nil, nil
	}
	c := *s.creds
	return &c, nil
}

func (s *MemoryTokenStore) Save(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *creds
	s.creds = &c
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	return nil
}

// Session owns the signed-in identity of a client process. It must be
// loaded explicitly at start-up and cleared on logout.
type Session struct {
	api    *Client
	store  TokenStore
	logger *zap.Logger

	mu    sync.RWMutex
	creds *Credentials
}

// NewSession binds a session to an API client and a store.
func NewSession(api *Client, store TokenStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{api: api, store: store, logger: logger}
}

// Load restores stored credentials and confirms them against the server.
// A token the server rejects is discarded and the session stays signed out.
func (s *Session) Load(ctx context.Context) error {
	creds, err := s.store.Load()
	if err != nil {
		return err
	}
	if creds == nil || creds.Token == "" {
		return nil
	}

	user, err := s.api.WithBearer(creds.Token).Profile(ctx)
	if err != nil {
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) {
			// Server unreachable; keep the stored token for the next run.
			return err
		}
		s.logger.Info("stored session rejected, signing out",
			zap.String("code", domainErr.Code),
			zap.Error(err))
		return s.Clear()
	}

	creds.User = *user
	s.set(creds)
	return nil
}

// Login signs in and persists the resulting token.
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	creds := &Credentials{Token: res.Token, ExpiresAt: res.ExpiresAt, User: res.User}
	if err := s.store.Save(creds); err != nil {
		return nil, err
	}
	s.set(creds)
	user := res.User
	return &user, nil
}

// Clear signs out and removes persisted credentials.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.creds = nil
	s.mu.Unlock()
	return s.store.Clear()
}

// User returns the signed-in account.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return User{}, false
	}
	return s.creds.User, true
}

// API returns a client authenticated as the current user, or an anonymous
// one when signed out.
func (s *Session) API() *Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return s.api.WithBearer("")
	}
	return s.api.WithBearer(s.creds.Token)
}

func (s *Session) set(creds *Credentials) {
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
}
