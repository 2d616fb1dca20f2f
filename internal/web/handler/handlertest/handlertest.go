// Package handlertest holds helpers shared by the handler tests.
package handlertest

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
	authmiddleware "github.com/staffpanel/staffpanel/internal/web/middleware/auth"
	websess "github.com/staffpanel/staffpanel/internal/web/session"
)

// NoOpViews is a minimal Fiber Views engine. It writes the "error" field of
// a fiber.Map if present, the template name otherwise.
type NoOpViews struct{}

// Load implements fiber.Views.
func (NoOpViews) Load() error { return nil }

// Render implements fiber.Views.
func (NoOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string)) //nolint:forcetypeassert

			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

// Storage is an in-memory fiber.Storage that ignores expiry.
type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ fiber.Storage = (*Storage)(nil)

// Get implements fiber.Storage.
func (s *Storage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

// Set implements fiber.Storage.
func (s *Storage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

// Delete implements fiber.Storage.
func (s *Storage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

// Reset implements fiber.Storage.
func (s *Storage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

// Close implements fiber.Storage.
func (s *Storage) Close() error { return nil }

// Len returns the number of stored keys.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// InitSessionStore installs a fresh session store and returns its storage.
func InitSessionStore() *Storage {
	st := &Storage{data: make(map[string][]byte)}
	websess.Init(st)

	return st
}

// NewApp returns a fiber app with the session middleware installed.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{Views: NoOpViews{}})
	app.Use(authmiddleware.Middleware)

	return app
}

// NewConfig returns a minimal valid config.
func NewConfig() *config.Config {
	return &config.Config{
		Title: "Staff Panel",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Auth: config.Auth{StateExpiry: time.Minute},
	}
}

// Login writes a session for u and returns the session id to send as cookie.
func Login(t *testing.T, u auth.User) string {
	t.Helper()

	id, err := websess.GenerateSessionID()
	if err != nil {
		t.Fatalf("failed to generate session id: %v", err)
	}

	if err := (&websess.Data{User: u}).Write(id, time.Minute); err != nil {
		t.Fatalf("failed to write session: %v", err)
	}

	return id
}
