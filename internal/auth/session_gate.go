package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeclub/clubhouse/internal/common"
	"codeclub/clubhouse/internal/logging"
	"codeclub/clubhouse/internal/metrics"
	"codeclub/clubhouse/internal/models/dtos"
)

// State of the session gate.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateReady           State = "ready"
)

func (s State) String() string { return string(s) }

// ErrUnauthenticated is returned when a token is requested outside Ready.
var ErrUnauthenticated = errors.New("not authenticated")

// TokenIssuer is the consumed contract of the external identity service.
type TokenIssuer interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	Mint(ctx context.Context) (string, error)
	SignOut(ctx context.Context) error
}

// SessionResumer is implemented by issuers whose identity survives a
// process restart via an opaque blob.
type SessionResumer interface {
	ExportSession() (string, bool)
	ResumeSession(ctx context.Context, blob string) error
}

// ProfileLoader fetches the member profile bound to the current token.
type ProfileLoader interface {
	GetMe(ctx context.Context) (*dtos.Member, error)
}

// Session is the ephemeral identity view. Tokens are never part of it;
// they are re-derived per request.
type Session struct {
	UID string
}

const profileCacheTTL = 5 * time.Minute

// SessionGate owns the identity lifecycle and the cached profile. It is
// the only component permitted to hand out bearer tokens, and it only
// does so in the Ready state.
type SessionGate struct {
	issuer   TokenIssuer
	profiles ProfileLoader
	cache    *common.CacheService
	metrics  *metrics.Registry

	mu    sync.Mutex
	state State
	uid   string
}

// NewSessionGate creates a gate in the Unauthenticated state. The profile
// loader is bound after construction because the gateway needs the gate
// as its token source first.
func NewSessionGate(issuer TokenIssuer, cache *common.CacheService, reg *metrics.Registry) *SessionGate {
	return &SessionGate{
		issuer:  issuer,
		cache:   cache,
		metrics: reg,
		state:   StateUnauthenticated,
	}
}

// BindProfileLoader attaches the gateway used to fetch /users/me.
func (g *SessionGate) BindProfileLoader(pl ProfileLoader) {
	g.mu.Lock()
	g.profiles = pl
	g.mu.Unlock()
}

// State returns the current gate state.
func (g *SessionGate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns the active identity, if any.
func (g *SessionGate) Session() (Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateReady {
		return Session{}, false
	}
	return Session{UID: g.uid}, true
}

// Login moves Unauthenticated -> Authenticating -> Ready. Any failure
// along the way lands back in Unauthenticated.
func (g *SessionGate) Login(ctx context.Context, email, password string) (*dtos.Member, error) {
	g.mu.Lock()
	if g.state == StateAuthenticating {
		g.mu.Unlock()
		return nil, fmt.Errorf("login already in progress")
	}
	g.state = StateAuthenticating
	g.mu.Unlock()

	token, err := g.issuer.SignIn(ctx, email, password)
	if err != nil {
		g.reset()
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}

	claims, err := ExtractClaims(token)
	if err != nil {
		_ = g.issuer.SignOut(ctx)
		g.reset()
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}

	return g.finish(ctx, claims.UID)
}

// Resume restores a previously exported session and refetches the
// profile. Only available when the issuer supports resumption.
func (g *SessionGate) Resume(ctx context.Context, blob string) (*dtos.Member, error) {
	resumer, ok := g.issuer.(SessionResumer)
	if !ok {
		return nil, fmt.Errorf("identity issuer does not support session resume")
	}

	g.mu.Lock()
	g.state = StateAuthenticating
	g.mu.Unlock()

	if err := resumer.ResumeSession(ctx, blob); err != nil {
		g.reset()
		return nil, fmt.Errorf("session resume failed: %w", err)
	}

	token, err := g.issuer.Mint(ctx)
	if err != nil {
		g.reset()
		return nil, fmt.Errorf("session resume failed: %w", err)
	}
	claims, err := ExtractClaims(token)
	if err != nil {
		_ = g.issuer.SignOut(ctx)
		g.reset()
		return nil, fmt.Errorf("session resume failed: %w", err)
	}

	return g.finish(ctx, claims.UID)
}

// finish fetches the profile for uid and flips the gate to Ready.
func (g *SessionGate) finish(ctx context.Context, uid string) (*dtos.Member, error) {
	g.mu.Lock()
	profiles := g.profiles
	g.mu.Unlock()
	if profiles == nil {
		g.reset()
		return nil, fmt.Errorf("no profile loader bound")
	}

	// Token must be attachable before the gate is Ready for this one
	// bootstrap fetch, so mark Ready first and roll back on failure.
	g.mu.Lock()
	g.state = StateReady
	g.uid = uid
	g.mu.Unlock()

	profile, err := profiles.GetMe(ctx)
	if err != nil {
		_ = g.issuer.SignOut(ctx)
		g.reset()
		return nil, fmt.Errorf("profile fetch failed: %w", err)
	}

	g.cache.Set(profileCacheKey(uid), profile, profileCacheTTL)
	g.metrics.SetSessionReady(true)
	logging.Info("Session ready", "uid", uid, "role", profile.Role.String())
	return profile, nil
}

// Logout clears the identity, cached profile, and token context before
// returning, so no component can mint against a dead session.
func (g *SessionGate) Logout(ctx context.Context) error {
	g.mu.Lock()
	uid := g.uid
	g.mu.Unlock()

	err := g.issuer.SignOut(ctx)
	if uid != "" {
		g.cache.Delete(profileCacheKey(uid))
	}
	g.reset()
	logging.Info("Session cleared", "uid", uid)
	return err
}

// Token implements providers.TokenSource. Every call re-derives a fresh
// bearer token; nothing is cached because tokens can expire mid-session.
func (g *SessionGate) Token(ctx context.Context) (string, error) {
	g.mu.Lock()
	state := g.state
	g.mu.Unlock()
	if state != StateReady {
		return "", ErrUnauthenticated
	}
	return g.issuer.Mint(ctx)
}

// Profile returns the cached member profile, reloading it through the
// gateway when the cache entry has lapsed.
func (g *SessionGate) Profile(ctx context.Context) (*dtos.Member, error) {
	g.mu.Lock()
	state, uid, profiles := g.state, g.uid, g.profiles
	g.mu.Unlock()
	if state != StateReady {
		return nil, ErrUnauthenticated
	}

	val, err := g.cache.GetOrSet(profileCacheKey(uid), profileCacheTTL, func() (any, error) {
		return profiles.GetMe(ctx)
	})
	if err != nil {
		return nil, err
	}
	return val.(*dtos.Member), nil
}

// ExportSession returns the issuer's resumable blob, when supported and
// a session is active.
func (g *SessionGate) ExportSession() (string, bool) {
	if g.State() != StateReady {
		return "", false
	}
	resumer, ok := g.issuer.(SessionResumer)
	if !ok {
		return "", false
	}
	return resumer.ExportSession()
}

func (g *SessionGate) reset() {
	g.mu.Lock()
	g.state = StateUnauthenticated
	g.uid = ""
	g.mu.Unlock()
	g.metrics.SetSessionReady(false)
}

func profileCacheKey(uid string) string {
	return "profile:" + uid
}
