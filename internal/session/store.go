// internal/session/store.go
//
// The session store owns the one piece of durable client state: the access
// token. It is created once at startup and handed to the gateway client and
// the views; nothing reads the token file directly.

package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of token claims the client displays. The client
// never verifies signatures; the backend does that on every request.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an exp claim in the past.
// Tokens without exp never expire locally.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Store holds the current token, persisted to a file, and notifies
// subscribers whenever it changes.
type Store struct {
	path string

	mu    sync.RWMutex
	token string
	subs  []func()
}

// New loads any persisted token from path. A token that is already expired
// is discarded so the first render lands on the login view instead of a 401.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("session: read %s: %w", path, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return s, nil
	}
	if claims, ok := decodeClaims(token); ok && claims.Expired(time.Now()) {
		_ = os.Remove(path)
		return s, nil
	}
	s.token = token
	return s, nil
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a usable token is held.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return false
	}
	if claims, ok := decodeClaims(token); ok && claims.Expired(time.Now()) {
		return false
	}
	return true
}

// Claims returns the decoded claims of the current token.
func (s *Store) Claims() (Claims, bool) {
	token := s.Token()
	if token == "" {
		return Claims{}, false
	}
	return decodeClaims(token)
}

// Login stores and persists a new token, then notifies subscribers.
func (s *Store) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("session: empty token")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("session: ensure session dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("session: persist token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	notify(subs)
	return nil
}

// Clear drops the token from memory and disk, then notifies subscribers.
// Used for both explicit logout and the gateway's 401 signal.
func (s *Store) Clear() {
	s.mu.Lock()
	had := s.token != ""
	s.token = ""
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	_ = os.Remove(s.path)
	if had {
		notify(subs)
	}
}

// Subscribe registers fn to run after every token change.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}

func decodeClaims(token string) (Claims, bool) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, false
	}
	var out Claims
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, true
}
