package business

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/storefront-client/pkg/api"
	"github.com/openkcm/storefront-client/pkg/session"
	"github.com/openkcm/storefront-client/pkg/slot"
	slotmock "github.com/openkcm/storefront-client/pkg/slot/mock"
)

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: []byte("0123456789abcdef0123456789abcdef")}, nil)
	require.NoError(t, err)

	token, err := jwt.Signed(signer).Claims(jwt.Claims{Subject: "42", Expiry: jwt.NewNumericDate(expiry)}).Serialize()
	require.NoError(t, err)

	return token
}

func newRefreshBackend(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	r := chi.NewRouter()
	r.Post("/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": status == http.StatusOK,
			"data":    map[string]any{"accessToken": "access-2"},
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestKeepSessionAlive(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		slots         []slotmock.StoreOption
		status        int
		wantCalls     int32
		wantAccess    string
		wantLoggedOut bool
		assertErr     assert.ErrorAssertionFunc
	}{
		{
			name:      "anonymous session",
			status:    http.StatusOK,
			assertErr: assert.NoError,
		},
		{
			name: "credential far from expiry",
			slots: []slotmock.StoreOption{
				slotmock.WithSlot(slot.AccessToken, []byte(signedToken(t, now.Add(time.Hour)))),
				slotmock.WithSlot(slot.RefreshToken, []byte("refresh-1")),
			},
			status:     http.StatusOK,
			wantAccess: signedToken(t, now.Add(time.Hour)),
			assertErr:  assert.NoError,
		},
		{
			name: "credential about to expire",
			slots: []slotmock.StoreOption{
				slotmock.WithSlot(slot.AccessToken, []byte(signedToken(t, now.Add(time.Minute)))),
				slotmock.WithSlot(slot.RefreshToken, []byte("refresh-1")),
			},
			status:     http.StatusOK,
			wantCalls:  1,
			wantAccess: "access-2",
			assertErr:  assert.NoError,
		},
		{
			name: "opaque credential",
			slots: []slotmock.StoreOption{
				slotmock.WithSlot(slot.AccessToken, []byte("opaque")),
				slotmock.WithSlot(slot.RefreshToken, []byte("refresh-1")),
			},
			status:     http.StatusOK,
			wantAccess: "opaque",
			assertErr:  assert.NoError,
		},
		{
			name: "refresh rejected",
			slots: []slotmock.StoreOption{
				slotmock.WithSlot(slot.AccessToken, []byte(signedToken(t, now.Add(-time.Minute)))),
				slotmock.WithSlot(slot.RefreshToken, []byte("refresh-1")),
			},
			status:        http.StatusUnauthorized,
			wantCalls:     1,
			wantLoggedOut: true,
			assertErr:     assert.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newRefreshBackend(t, tt.status)
			slots := slotmock.NewInMemStore(tt.slots...)
			mgr := session.NewManager(api.NewClient(srv.URL), slots)

			err := keepSessionAlive(t.Context(), mgr, 5*time.Minute, now)
			tt.assertErr(t, err)

			assert.Equal(t, tt.wantCalls, calls.Load())
			access, _ := slots.Value(slot.AccessToken)
			assert.Equal(t, tt.wantAccess, string(access))
			if tt.wantLoggedOut {
				assert.Equal(t, session.Anonymous, mgr.State(t.Context()))
			}
		})
	}
}
