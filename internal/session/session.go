package session

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"robinhood/internal/request"
)

type Snapshot struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
	DeviceToken  string    `json:"device_token,omitempty"`
}

// Store holds the bearer token used by authenticated endpoints. It is safe
// for concurrent use and satisfies request.TokenSource.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Token returns the current access token or request.ErrNotAuthenticated when
// there is none or it has expired. A nil store is never authenticated.
func (s *Store) Token() (string, error) {
	if s == nil {
		return "", request.ErrNotAuthenticated
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.AccessToken == "" {
		return "", request.ErrNotAuthenticated
	}
	if !s.snapshot.ExpiresAt.IsZero() && !s.now().Before(s.snapshot.ExpiresAt) {
		return "", request.ErrNotAuthenticated
	}
	return s.snapshot.AccessToken, nil
}

// SetToken stores a token. A zero ttl means the token does not expire locally.
func (s *Store) SetToken(accessToken, refreshToken string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.AccessToken = accessToken
	s.snapshot.RefreshToken = refreshToken
	s.snapshot.TokenType = "Bearer"
	s.snapshot.ExpiresAt = time.Time{}
	if ttl > 0 {
		s.snapshot.ExpiresAt = s.now().Add(ttl).UTC()
	}
}

// Clear drops the tokens but keeps the device token.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{DeviceToken: s.snapshot.DeviceToken}
}

// DeviceToken returns the device identifier sent on login, generating one on
// first use.
func (s *Store) DeviceToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.DeviceToken == "" {
		s.snapshot.DeviceToken = uuid.NewString()
	}
	return s.snapshot.DeviceToken
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Store) Save(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := json.MarshalIndent(s.snapshot, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return err
	}
	if snapshot.DeviceToken != "" {
		if _, err := uuid.Parse(snapshot.DeviceToken); err != nil {
			snapshot.DeviceToken = ""
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	return nil
}
