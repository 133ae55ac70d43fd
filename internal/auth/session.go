package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long a login lasts.
const DefaultTTL = 30 * 24 * time.Hour

// Session is an active login.
type Session struct {
	UserID    string
	Name      string
	ExpiresAt time.Time
}

// FileSessions keeps the current session token in a file.
type FileSessions struct {
	path   string
	issuer *Issuer
}

// NewFileSessions stores tokens at path, signed by issuer.
func NewFileSessions(path string, issuer *Issuer) *FileSessions {
	return &FileSessions{path: path, issuer: issuer}
}

// Path returns the token file location.
func (f *FileSessions) Path() string {
	return f.path
}

// CurrentSession returns the signed-in session. A missing token file or an
// expired token means nobody is signed in and yields (nil, nil). A token
// that fails verification is an error.
func (f *FileSessions) CurrentSession(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	tokenStr := strings.TrimSpace(string(data))
	if tokenStr == "" {
		return nil, nil
	}

	claims, err := f.issuer.Parse(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, nil
		}
		return nil, err
	}

	s := &Session{UserID: claims.Subject, Name: claims.Name}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Login issues a token for userID and writes it to the session file.
func (f *FileSessions) Login(userID, name string, ttl time.Duration) (*Session, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	token, err := f.issuer.Issue(userID, name, ttl)
	if err != nil {
		return nil, err
	}
	if err := EnsureDir(f.path); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("write session: %w", err)
	}
	return &Session{
		UserID:    userID,
		Name:      name,
		ExpiresAt: f.issuer.now().Add(ttl),
	}, nil
}

// Logout removes the session file. It is not an error to log out twice.
func (f *FileSessions) Logout() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// LoadOrCreateSecret returns the signing secret stored at path, creating a
// random one on first use.
func LoadOrCreateSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		secret := strings.TrimSpace(string(data))
		if secret != "" {
			return []byte(secret), nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read secret: %w", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	secret := hex.EncodeToString(buf)

	if err := EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create secret dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(secret+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("write secret: %w", err)
	}
	return []byte(secret), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o700)
}
