// Package session gates access to the dataset view behind a single set of
// configured credentials and keeps per-session view parameters.
package session

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/assetview/pkg/query"
)

// DefaultTTL is how long a session stays valid after login
const DefaultTTL = 12 * time.Hour

var (
	// ErrInvalidCredentials is returned by Login on a mismatch
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrExpired is returned for a session past its expiry
	ErrExpired = errors.New("session expired")
)

// Credentials is the one account allowed to log in
type Credentials struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// Session is an authenticated login
type Session struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
	View      query.Params `json:"view"`
}

// Manager issues and validates sessions
type Manager struct {
	store       *Store
	credentials Credentials
	ttl         time.Duration
	defaultView query.Params
	now         func() time.Time
}

// NewManager creates a manager. A non-positive ttl uses DefaultTTL.
func NewManager(store *Store, credentials Credentials, ttl time.Duration, defaultView query.Params) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store:       store,
		credentials: credentials,
		ttl:         ttl,
		defaultView: defaultView,
		now:         time.Now,
	}
}

// Login checks the credentials and starts a session
func (m *Manager) Login(email, password string) (*Session, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(email)), []byte(m.credentials.Email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.credentials.Password)) == 1
	if !emailOK || !passwordOK {
		return nil, ErrInvalidCredentials
	}

	now := m.now().UTC()
	sess := &Session{
		Email:     m.credentials.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		View:      m.defaultView,
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	id, err := m.store.Create(data)
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	sess.ID = id.String()
	return sess, nil
}

// Authenticate returns the live session for id. Expired sessions are
// deleted and reported as ErrExpired.
func (m *Manager) Authenticate(id string) (*Session, error) {
	key, err := ksuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	data, err := m.store.Read(key)
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	sess.ID = key.String()

	if !m.now().Before(sess.ExpiresAt) {
		_ = m.store.Delete(key)
		return nil, ErrExpired
	}
	return &sess, nil
}

// SaveView persists the view parameters of a session
func (m *Manager) SaveView(id string, params query.Params) error {
	sess, err := m.Authenticate(id)
	if err != nil {
		return err
	}
	sess.View = params

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	key, _ := ksuid.Parse(id)
	return m.store.Update(key, data)
}

// Logout ends a session. Unknown ids are ignored.
func (m *Manager) Logout(id string) error {
	key, err := ksuid.Parse(id)
	if err != nil {
		return nil
	}
	return m.store.Delete(key)
}
