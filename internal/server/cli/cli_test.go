package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vocabsync/internal/config"
	"github.com/iudanet/vocabsync/internal/logging"
	"github.com/iudanet/vocabsync/internal/server/handlers"
	"github.com/iudanet/vocabsync/pkg/api"
)

const testSecret = "server-cli-secret-0123456789"

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(VersionInfo{Version: "2.0.0", BuildDate: "2026-02-02", GitCommit: "def456"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(VersionInfo{Version: "2.0.0"})
	require.NotNil(t, cmd)
	assert.Equal(t, "vocabsync-server", cmd.Use)
	assert.Equal(t, "2.0.0", cmd.Version)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(VersionInfo{})

	for _, cmdName := range []string{"serve", "token", "version"} {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestFlagKeysMatchFlags(t *testing.T) {
	cmd := NewRootCommand(VersionInfo{})
	for key, name := range flagKeys {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag for key %s", key)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    2.0.0")
	assert.Contains(t, out, "Git Commit: def456")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("VOCABSYNC_CONFIG", "")
	t.Setenv("VOCABSYNC_JWT_SECRET", testSecret)

	out, err := runCommand(t, "token", "user-42", "--device", "laptop", "--ttl", "2h")
	require.NoError(t, err)

	token := strings.TrimSpace(out)
	claims, err := handlers.ValidateAccessToken(handlers.JWTConfig{Secret: []byte(testSecret)}, token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "laptop", claims.Device)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenCommand_Errors(t *testing.T) {
	t.Setenv("VOCABSYNC_CONFIG", "")

	t.Run("no secret", func(t *testing.T) {
		t.Setenv("VOCABSYNC_JWT_SECRET", "")
		_, err := runCommand(t, "token", "user-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("no user", func(t *testing.T) {
		t.Setenv("VOCABSYNC_JWT_SECRET", testSecret)
		_, err := runCommand(t, "token")
		require.Error(t, err)
	})
}

func TestServe_HealthAndShutdown(t *testing.T) {
	cfg := &config.ServerConfig{
		Addr:            "127.0.0.1:0",
		DBPath:          filepath.Join(t.TempDir(), "server.db"),
		JWT:             config.JWTSettings{Secret: testSecret, TokenTTL: time.Hour},
		RateLimit:       config.RateLimitSettings{Requests: 100, Window: time.Minute},
		ShutdownTimeout: time.Second,
		Log:             logging.Config{Level: "error"},
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	require.NoError(t, err)
	url := "http://" + ln.Addr().String() + "/api/v1/health"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, "2.0.0", ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		var health api.HealthResponse
		if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
			return false
		}
		return resp.StatusCode == http.StatusOK && health.Version == "2.0.0"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServe_InvalidDatabasePath(t *testing.T) {
	cfg := &config.ServerConfig{
		DBPath: filepath.Join(t.TempDir(), "missing", "dir", "server.db"),
		Log:    logging.Config{Level: "error"},
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	err = serve(context.Background(), cfg, "test", ln)
	assert.Error(t, err)
}
