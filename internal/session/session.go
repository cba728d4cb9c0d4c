// Package session implements the session-token lifecycle: issuing a
// signed cookie-borne token backed by a server-side record, verifying
// presented tokens, and revoking them.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/authgate/authgate-go/internal/crypto"
	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/repository"
	"github.com/google/uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// ErrNoSession is returned by Verify when the request carries no
// usable session: missing cookie, bad signature, expired token, or —
// under strict revocation — a revoked record.
var ErrNoSession = errors.New("no valid session")

// Data is the identity carried by a verified session token.
type Data struct {
	UserID int64
	Email  string
}

// Manager issues, verifies and revokes session tokens. Verification is
// stateless by default; StrictRevocation additionally requires the
// server-side record to still exist, so a revoked token stops
// verifying immediately instead of at its embedded expiry.
type Manager struct {
	sessions         *repository.SessionRepository
	secret           string
	ttl              time.Duration
	secureCookie     bool
	strictRevocation bool
}

// Config holds Manager construction parameters.
type Config struct {
	Secret           string
	TTL              time.Duration
	SecureCookie     bool
	StrictRevocation bool
}

// NewManager creates a session Manager.
func NewManager(sessions *repository.SessionRepository, cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	return &Manager{
		sessions:         sessions,
		secret:           cfg.Secret,
		ttl:              cfg.TTL,
		secureCookie:     cfg.SecureCookie,
		strictRevocation: cfg.StrictRevocation,
	}
}

// Issue signs a session token for the user, persists the matching
// record and sets the session cookie. The cookie expires together with
// the token.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, user *model.User) (string, error) {
	sid := uuid.NewString()
	expiresAt := time.Now().Add(m.ttl)

	token, err := crypto.GenerateToken(user.ID, user.Email, sid, m.secret, m.ttl)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	record := &model.Session{
		ID:        sid,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := m.sessions.Create(ctx, record); err != nil {
		return "", fmt.Errorf("persist session record: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return token, nil
}

// Verify reads the session cookie and validates the token it carries.
// Any absent, malformed, tampered or expired token yields ErrNoSession.
// Under strict revocation a store failure is surfaced as-is, since the
// caller cannot tell an absent record from an unreachable store.
func (m *Manager) Verify(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	claims, err := crypto.ValidateToken(cookie.Value, m.secret)
	if err != nil {
		return nil, ErrNoSession
	}

	if m.strictRevocation {
		ok, err := m.sessions.Exists(ctx, claims.SessionID)
		if err != nil {
			return nil, fmt.Errorf("check session record: %w", err)
		}
		if !ok {
			return nil, ErrNoSession
		}
	}

	return &Data{UserID: claims.UserID, Email: claims.Email}, nil
}

// Revoke deletes the session record named by the presented token and
// clears the cookie. The cookie is cleared even when the record is
// already gone or the token no longer parses; only a store failure is
// reported.
func (m *Manager) Revoke(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer m.clearCookie(w)

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sid, err := crypto.ExtractSessionID(cookie.Value, m.secret)
	if err != nil {
		return nil
	}

	if err := m.sessions.Delete(ctx, sid); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}

// RevokeAll deletes every session record owned by the user. The caller
// is expected to have already decided this is warranted (password
// reset); no cookies are touched since other devices hold them.
func (m *Manager) RevokeAll(ctx context.Context, userID int64) error {
	return m.sessions.DeleteByUser(ctx, userID)
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
