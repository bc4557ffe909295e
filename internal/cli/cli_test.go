package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisure/portal/internal/config"
	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newBackend(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "correct" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "cli-token", "userId": 5, "email": creds["email"], "fullName": "Holly Holder", "role": "POLICY_HOLDER",
		})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token expired"})
	})
	mux.HandleFunc("/api/doctor/my-appointments", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

type harness struct {
	backendURL  string
	sessionFile string
}

func newHarness(t *testing.T) harness {
	return harness{
		backendURL:  newBackend(t),
		sessionFile: filepath.Join(t.TempDir(), "session.json"),
	}
}

func (h harness) run(args ...string) (string, error) {
	cfg := &config.Config{
		Backend: config.BackendConfig{BaseURL: h.backendURL, TimeoutSeconds: 2},
		CLI:     config.CLIConfig{SessionFile: h.sessionFile, Output: formatJSON},
	}
	cmd := NewRootCommand(cfg, nil)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h harness) runJSON(t *testing.T, args ...string) map[string]any {
	t.Helper()
	out, err := h.run(args...)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	return decoded
}

func TestLoginMenuCheckLogout(t *testing.T) {
	h := newHarness(t)

	res := h.runJSON(t, "login", "--email", "holly@medisure.test", "--password", "correct")
	assert.Equal(t, true, res["success"])
	info, err := os.Stat(h.sessionFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	menu := h.runJSON(t, "menu")
	assert.Equal(t, "POLICY_HOLDER", menu["role"])
	assert.Equal(t, string(domain.ViewPolicyHolderDashboard), menu["dashboard"])
	assert.NotEmpty(t, menu["menu"])

	check := h.runJSON(t, "check", "/claims/my")
	assert.Equal(t, "render", check["decision"])
	assert.Equal(t, string(domain.ViewMyClaims), check["view"])

	check = h.runJSON(t, "check", "/users")
	assert.Equal(t, "redirect_default", check["decision"])
	assert.Equal(t, "/dashboard", check["target"])

	res = h.runJSON(t, "logout")
	assert.Equal(t, true, res["success"])
	_, err = os.Stat(h.sessionFile)
	assert.True(t, os.IsNotExist(err))

	check = h.runJSON(t, "check", "/dashboard")
	assert.Equal(t, "redirect_login", check["decision"])
	assert.Equal(t, "/login", check["target"])
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "bad credentials", args: []string{"login", "--email", "a@b.com", "--password", "secret"}, message: "Invalid credentials"},
		{name: "missing fields", args: []string{"login"}, message: "Please fill in all fields"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			out, err := h.run(tc.args...)
			require.ErrorIs(t, err, ErrFailed)
			assert.Contains(t, out, tc.message)
			_, statErr := os.Stat(h.sessionFile)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestWhoamiRejectedSignsOut(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, session.NewFileStore(h.sessionFile, nil).Save(context.Background(), domain.Session{
		Token: "stale",
		User:  domain.Identity{ID: 5, Email: "holly@medisure.test", Role: domain.RolePolicyHolder},
	}))

	_, err := h.run("whoami")
	require.ErrorIs(t, err, ErrFailed)
	_, ok := session.NewFileStore(h.sessionFile, nil).Load(context.Background())
	assert.False(t, ok)
}

func TestDashboardForStoredRole(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, session.NewFileStore(h.sessionFile, nil).Save(context.Background(), domain.Session{
		Token: "doc",
		User:  domain.Identity{ID: 8, Email: "doc@medisure.test", Role: domain.RoleDoctor},
	}))

	view := h.runJSON(t, "dashboard")
	assert.Equal(t, string(domain.ViewDoctorDashboard), view["view"])
	assert.Contains(t, view["data"], "appointments")
}

func TestSignedOutCommands(t *testing.T) {
	h := newHarness(t)
	for _, name := range []string{"menu", "dashboard"} {
		out, err := h.run(name)
		require.ErrorIs(t, err, ErrFailed, name)
		assert.Contains(t, out, "Not signed in", name)
	}
}

func TestOutputFormats(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("check", "/nowhere", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "decision: redirect_default")
	assert.Contains(t, out, "target: /dashboard")

	_, err = h.run("check", "/nowhere", "--output", "xml")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFailed)
}
