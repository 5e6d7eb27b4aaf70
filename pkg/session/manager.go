// Package session manages the authentication session of a storefront client.
//
// The session is three durable slots: the access credential, the refresh
// credential and the cached user profile. They are written together on login
// and cleared together on logout or on a failed refresh.
//
// A Manager built without a slot store runs outside a client context, e.g. in
// a server side renderer: logout and refresh are no-ops there.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/storefront-client/internal/serviceerr"
	"github.com/openkcm/storefront-client/pkg/api"
	"github.com/openkcm/storefront-client/pkg/slot"
)

var jwsSigAlgs = []jose.SignatureAlgorithm{
	jose.RS256, jose.RS384, jose.RS512,
	jose.PS256, jose.PS384, jose.PS512,
	jose.ES256, jose.ES384, jose.ES512,
	jose.HS256, jose.HS384, jose.HS512,
	jose.EdDSA,
}

type Manager struct {
	client *api.Client
	slots  slot.Store

	mu sync.Mutex
	// refreshes counts the credential exchanges in flight.
	refreshes int
}

var _ = api.TokenSource(&Manager{})

// NewManager returns a manager talking to the auth endpoints through client.
// The client's own TokenSource is not used; requests carry the stored credential explicitly.
func NewManager(client *api.Client, slots slot.Store) *Manager {
	return &Manager{
		client: client,
		slots:  slots,
	}
}

// HasClientContext reports whether the manager can persist a session.
func (m *Manager) HasClientContext() bool {
	return m.slots != nil
}

func (m *Manager) State(ctx context.Context) State {
	m.mu.Lock()
	refreshing := m.refreshes > 0
	m.mu.Unlock()

	switch {
	case refreshing:
		return Refreshing
	case m.IsAuthenticated(ctx):
		return Authenticated
	default:
		return Anonymous
	}
}

// Login authenticates with the backend and persists the session.
// No slot is left behind when persisting fails.
func (m *Manager) Login(ctx context.Context, creds Credentials) (Session, error) {
	data, err := api.Call[loginData](ctx, m.client, api.Request{Endpoint: api.Login, Body: creds})
	if err != nil {
		slogctx.Warn(ctx, "Login failed", "error", err)
		return Session{}, fmt.Errorf("logging in: %w", err)
	}
	if data.AccessToken == "" || data.RefreshToken == "" {
		slogctx.Warn(ctx, "Login response without credentials")
		return Session{}, fmt.Errorf("logging in: %w",
			errors.Join(serviceerr.ErrRemoteFailure, errors.New("login response without credentials")))
	}

	sess := Session{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		User:         &data.User,
	}

	if m.slots == nil {
		slogctx.Warn(ctx, "Login outside of a client context, session is not persisted")
		return sess, nil
	}

	if err := m.storeSession(ctx, sess); err != nil {
		return Session{}, fmt.Errorf("storing session: %w", err)
	}

	slogctx.Info(ctx, "Logged in", "userID", data.User.ID)

	return sess, nil
}

func (m *Manager) storeSession(ctx context.Context, sess Session) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	values := []struct {
		name  string
		value []byte
	}{
		{slot.AccessToken, []byte(sess.AccessToken)},
		{slot.RefreshToken, []byte(sess.RefreshToken)},
		{slot.User, user},
	}

	for i, v := range values {
		if err := m.slots.Set(ctx, v.name, v.value); err != nil {
			for _, written := range values[:i] {
				if delErr := m.slots.Delete(ctx, written.name); delErr != nil {
					slogctx.Error(ctx, "Failed to roll back session slot", "slot", written.name, "error", delErr)
				}
			}

			return fmt.Errorf("setting %s slot: %w", v.name, err)
		}
	}

	return nil
}

// Logout revokes the access credential on a best effort basis and clears the session.
func (m *Manager) Logout(ctx context.Context) error {
	if m.slots == nil {
		slogctx.Warn(ctx, "Logout outside of a client context, nothing to clear")
		return nil
	}

	if token := m.AccessToken(ctx); token != "" {
		if _, err := api.Do[json.RawMessage](ctx, m.client, api.Request{Endpoint: api.Logout, Token: token}); err != nil {
			slogctx.Warn(ctx, "Failed to revoke access credential", "error", err)
		}
	}

	if err := m.clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	slogctx.Info(ctx, "Logged out")

	return nil
}

// RefreshToken exchanges the refresh credential for new credentials.
// Any failure of the exchange logs the client out and returns an error matching serviceerr.ErrRefreshFailed.
func (m *Manager) RefreshToken(ctx context.Context) error {
	if m.slots == nil {
		return nil
	}

	refresh := m.slotString(ctx, slot.RefreshToken)
	if refresh == "" {
		return serviceerr.ErrNoRefreshCredential
	}

	m.mu.Lock()
	m.refreshes++
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.refreshes--
		m.mu.Unlock()
	}()

	err := m.refresh(ctx, refresh)
	if err == nil {
		slogctx.Debug(ctx, "Refreshed credentials")
		return nil
	}

	slogctx.Warn(ctx, "Refreshing credentials failed, logging out", "error", err)
	if clearErr := m.clear(ctx); clearErr != nil {
		err = errors.Join(err, clearErr)
	}

	return errors.Join(serviceerr.ErrRefreshFailed, err)
}

func (m *Manager) refresh(ctx context.Context, refresh string) error {
	data, err := api.Call[tokens](ctx, m.client, api.Request{
		Endpoint: api.RefreshToken,
		Body:     refreshRequest{RefreshToken: refresh},
	})
	if err != nil {
		return fmt.Errorf("calling refresh endpoint: %w", err)
	}
	if data.AccessToken == "" {
		return errors.New("refresh response without access credential")
	}

	if err := m.slots.Set(ctx, slot.AccessToken, []byte(data.AccessToken)); err != nil {
		return fmt.Errorf("setting access slot: %w", err)
	}

	// Some backends do not rotate the refresh credential.
	if data.RefreshToken != "" {
		if err := m.slots.Set(ctx, slot.RefreshToken, []byte(data.RefreshToken)); err != nil {
			return fmt.Errorf("setting refresh slot: %w", err)
		}
	}

	return nil
}

// IsAuthenticated reports whether an access credential is stored. Its expiry is not checked.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.AccessToken(ctx) != ""
}

// AccessToken returns the stored access credential or "".
func (m *Manager) AccessToken(ctx context.Context) string {
	return m.slotString(ctx, slot.AccessToken)
}

// CurrentUser returns the profile cached at login, or nil.
func (m *Manager) CurrentUser(ctx context.Context) *api.User {
	data := m.slotBytes(ctx, slot.User)
	if len(data) == 0 {
		return nil
	}

	var user api.User
	if err := json.Unmarshal(data, &user); err != nil {
		slogctx.Error(ctx, "Failed to decode cached user", "error", err)
		return nil
	}

	return &user
}

// Profile fetches the profile of the authenticated user; nil without an access credential.
func (m *Manager) Profile(ctx context.Context) (*api.User, error) {
	token := m.AccessToken(ctx)
	if token == "" {
		return nil, nil //nolint:nilnil
	}

	data, err := api.Call[profileData](ctx, m.client, api.Request{Endpoint: api.Profile, Token: token})
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	return &data.User, nil
}

// Register creates an account. It does not log in.
func (m *Manager) Register(ctx context.Context, reg Registration) error {
	result, err := api.Do[json.RawMessage](ctx, m.client, api.Request{Endpoint: api.Register, Body: reg})
	if err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	if _, err := result.Unwrap(); err != nil {
		return fmt.Errorf("registering: %w", err)
	}

	slogctx.Info(ctx, "Registered account", "message", result.Message)

	return nil
}

// AccessTokenExpiry returns the exp claim of the access credential without verifying its signature.
// It fails when the credential is missing, not a JWT, or has no exp claim.
func (m *Manager) AccessTokenExpiry(ctx context.Context) (time.Time, error) {
	token := m.AccessToken(ctx)
	if token == "" {
		return time.Time{}, serviceerr.ErrNotAuthenticated
	}

	parsed, err := jwt.ParseSigned(token, jwsSigAlgs)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing access credential: %w", err)
	}

	var claims jwt.Claims
	if err := parsed.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return time.Time{}, fmt.Errorf("reading access credential claims: %w", err)
	}
	if claims.Expiry == nil {
		return time.Time{}, errors.New("access credential has no exp claim")
	}

	return claims.Expiry.Time(), nil
}

func (m *Manager) clear(ctx context.Context) error {
	var errs []error
	for _, name := range []string{slot.AccessToken, slot.RefreshToken, slot.User} {
		if err := m.slots.Delete(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("deleting %s slot: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

func (m *Manager) slotString(ctx context.Context, name string) string {
	return string(m.slotBytes(ctx, name))
}

func (m *Manager) slotBytes(ctx context.Context, name string) []byte {
	if m.slots == nil {
		return nil
	}

	data, err := m.slots.Get(ctx, name)
	if err != nil {
		if !errors.Is(err, serviceerr.ErrNotFound) {
			slogctx.Error(ctx, "Failed to read session slot", "slot", name, "error", err)
		}
		return nil
	}

	return data
}
