package auth

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/meshwar/roster/core"
)

// Roles
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// ErrInvalidCredentials is deliberately generic: it never distinguishes an
// unknown user from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session storage keys.
const (
	keyIsAuthenticated = "isAuthenticated"
	keyRole            = "role"
)

type credential struct {
	username     string
	passwordHash []byte
	role         string
}

// Gate holds authentication/role state for the process lifetime, backed by a
// fixed two-entry credential table. State survives a restart through the
// session-scoped key-value collaborator.
type Gate struct {
	mu            sync.RWMutex
	creds         []credential
	session       core.KeyValueStore
	logger        core.Logger
	authenticated bool
	role          string
}

func NewGate(conf *core.Config, session core.KeyValueStore, logger core.Logger) (*Gate, error) {
	gate := &Gate{session: session, logger: logger}
	for _, entry := range []struct {
		cred core.CredentialConfig
		role string
	}{
		{conf.Auth.Admin, RoleAdmin},
		{conf.Auth.Viewer, RoleViewer},
	} {
		hash := []byte(entry.cred.Password)
		if !isBcryptHash(entry.cred.Password) {
			var err error
			hash, err = bcrypt.GenerateFromPassword([]byte(entry.cred.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
		}
		gate.creds = append(gate.creds, credential{
			username:     entry.cred.Username,
			passwordHash: hash,
			role:         entry.role,
		})
	}
	gate.restore()
	return gate, nil
}

// isBcryptHash reports whether v is already a bcrypt digest, so that config
// values produced by the admin hashpassword command are used as-is instead of
// being hashed a second time.
func isBcryptHash(v string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}

func (g *Gate) restore() {
	if v, err := g.session.Get(keyIsAuthenticated); err != nil || v != "true" {
		return
	}
	role, err := g.session.Get(keyRole)
	if err != nil {
		return
	}
	g.authenticated = true
	g.role = role
}

// Login checks username/password against the credential table. On a match it
// records the authenticated role; on any mismatch it fails generically.
func (g *Gate) Login(username, password string) (string, error) {
	username = core.CleanString(username)
	for _, cred := range g.creds {
		if cred.username != username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword(cred.passwordHash, []byte(password)); err != nil {
			return "", ErrInvalidCredentials
		}

		g.mu.Lock()
		g.authenticated = true
		g.role = cred.role
		g.mu.Unlock()

		// session writes are best-effort, like roster persistence
		if err := g.session.Set(keyIsAuthenticated, "true"); err != nil {
			g.logger.Warn("persisting session flag", err)
		}
		if err := g.session.Set(keyRole, cred.role); err != nil {
			g.logger.Warn("persisting session role", err)
		}
		return cred.role, nil
	}
	return "", ErrInvalidCredentials
}

// Logout clears both the in-memory state and the session keys.
func (g *Gate) Logout() {
	g.mu.Lock()
	g.authenticated = false
	g.role = ""
	g.mu.Unlock()

	if err := g.session.Delete(keyIsAuthenticated); err != nil {
		g.logger.Warn("clearing session flag", err)
	}
	if err := g.session.Delete(keyRole); err != nil {
		g.logger.Warn("clearing session role", err)
	}
}

func (g *Gate) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authenticated
}

func (g *Gate) Role() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.role
}
