package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meetpoint/meetpoint-server/internal/auth"
	"github.com/meetpoint/meetpoint-server/internal/config"
	"github.com/meetpoint/meetpoint-server/internal/core"
	"github.com/meetpoint/meetpoint-server/internal/log"
	"github.com/meetpoint/meetpoint-server/internal/store"
	"github.com/meetpoint/meetpoint-server/internal/store/sqlite"
)

// testEnv is a fully wired server backed by an in-memory store.
type testEnv struct {
	ts    *httptest.Server
	auth  *auth.Service
	store store.Store
	hub   *core.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	cfg := config.Default()
	cfg.MessageRateLimit = 0

	logger := log.Nop()
	hub := core.NewHub(st, core.Options{EnforceAdminCheck: cfg.EnforceAdminCheck}, logger)
	server := NewServer(hub, authService, st, cfg, logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, auth: authService, store: st, hub: hub}
}

// registerUser creates an account and returns its token and user id.
func (e *testEnv) registerUser(t *testing.T, username string) (token, userID string) {
	t.Helper()

	token, err := e.auth.Register(context.Background(), username, "password123")
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}

	claims, err := e.auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token for %s: %v", username, err)
	}
	return token, claims.UserID
}

// wsURL converts the test server URL to the websocket endpoint.
func (e *testEnv) wsURL() string {
	return strings.Replace(e.ts.URL, "http", "ws", 1) + "/ws"
}
