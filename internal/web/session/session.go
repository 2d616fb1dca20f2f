package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"

	"github.com/staffpanel/staffpanel/internal/auth"
	"github.com/staffpanel/staffpanel/internal/config"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// ErrNoSession is returned when a session id has no stored data.
var ErrNoSession = errors.New("session not found")

// Store is the global session store instance.
var Store *session.Store

// Data represents the session data structure.
type Data struct {
	User auth.User
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return Store.Storage.Set(sessionID, out, exp) //nolint:wrapcheck
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	if sessionID == "" {
		return ErrNoSession
	}

	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(byteData) == 0 {
		return ErrNoSession
	}

	return json.Unmarshal(byteData, s) //nolint:wrapcheck
}

// Delete removes the session data of sessionID.
func Delete(sessionID string) error {
	return Store.Storage.Delete(sessionID) //nolint:wrapcheck
}

// Init initializes the session store with the provided storage backend.
// A nil storage selects fiber's in-memory storage.
func Init(storage fiber.Storage) {
	Store = session.New(session.Config{
		Storage:        storage,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// NewStorage opens the configured session storage, nil for memory.
func NewStorage(cfg config.Session) fiber.Storage {
	switch cfg.Storage {
	case "postgres":
		return postgres.New(postgres.Config{
			ConnectionURI: cfg.StorageURI,
			Table:         cfg.Table,
		})
	case "mysql":
		return mysql.New(mysql.Config{
			ConnectionURI: cfg.StorageURI,
			Table:         cfg.Table,
		})
	default:
		return nil
	}
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err //nolint:wrapcheck
	}

	return hex.EncodeToString(b), nil
}
