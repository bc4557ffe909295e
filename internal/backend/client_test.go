package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/observability"
	"github.com/medisure/portal/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler, store session.Store, onUnauthorized func(*http.Request, *domain.Identity)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	factory, err := NewFactory(Options{
		BaseURL:        srv.URL + "/api",
		Timeout:        2 * time.Second,
		OnUnauthorized: onUnauthorized,
	})
	require.NoError(t, err)
	return factory.For(store)
}

func signedIn(t *testing.T) *session.MemoryStore {
	t.Helper()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), domain.Session{
		Token: "tok-123",
		User:  domain.Identity{ID: 1, Email: "holder@medisure.test", Role: domain.RolePolicyHolder},
	}))
	return store
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNewFactory_RejectsBadURL(t *testing.T) {
	_, err := NewFactory(Options{BaseURL: "not a url"})
	require.Error(t, err)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/claims/my-claims", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []map[string]any{{"id": 9, "status": "PENDING", "amountClaimed": 120.5}},
		})
	})

	client := newTestClient(t, mux, signedIn(t), nil)
	claims, err := client.Claims.Mine(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	require.Len(t, claims, 1)
	assert.Equal(t, domain.ClaimStatusPending, claims[0].Status)
	assert.True(t, decimal.RequireFromString("120.5").Equal(claims[0].AmountClaimed))
}

func TestClient_NoSessionSendsNoAuthorization(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/policies/all", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Basic Care"}})
	})

	client := newTestClient(t, mux, session.NewMemoryStore(), nil)
	policies, err := client.Policies.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	require.Len(t, policies, 1)
	assert.Equal(t, "Basic Care", policies[0].Name)
}

func TestClient_401ClearsSessionAndNotifies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/finance/records", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token expired"})
	})

	store := signedIn(t)
	var notified atomic.Int32
	var signedOut *domain.Identity
	var rejectedPath string
	client := newTestClient(t, mux, store, func(r *http.Request, user *domain.Identity) {
		notified.Add(1)
		signedOut = user
		rejectedPath = r.URL.Path
	})

	_, err := client.Finance.Records(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Token expired", MessageOf(err))
	assert.Equal(t, int32(1), notified.Load())
	require.NotNil(t, signedOut)
	assert.Equal(t, "holder@medisure.test", signedOut.Email)
	assert.Equal(t, "/api/finance/records", rejectedPath)

	_, ok := store.Load(context.Background())
	assert.False(t, ok)
}

func TestClient_Login401KeepsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
	})

	store := signedIn(t)
	var notified atomic.Int32
	client := newTestClient(t, mux, store, func(*http.Request, *domain.Identity) { notified.Add(1) })

	_, err := client.Auth.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", MessageOf(err))
	assert.Zero(t, notified.Load())

	_, ok := store.Load(context.Background())
	assert.True(t, ok)
}

func TestClient_LoginDecodesFlatAndNestedPayloads(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email == "flat@medisure.test" {
			writeJSON(w, http.StatusOK, map[string]any{
				"token": "jwt", "userId": 5, "email": creds.Email, "fullName": "Flat", "role": "DOCTOR",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Login successful",
			"data": map[string]any{
				"token": "jwt2",
				"user":  map[string]any{"id": 6, "email": creds.Email, "fullName": "Nested", "role": "ADMIN"},
			},
		})
	})
	client := newTestClient(t, mux, session.NewMemoryStore(), nil)

	flat, err := client.Auth.Login(context.Background(), Credentials{Email: "flat@medisure.test", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", flat.Token)
	assert.Equal(t, domain.Identity{ID: 5, Email: "flat@medisure.test", FullName: "Flat", Role: domain.RoleDoctor}, flat.Identity())

	nested, err := client.Auth.Login(context.Background(), Credentials{Email: "nested@medisure.test", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "jwt2", nested.Token)
	assert.Equal(t, domain.RoleAdmin, nested.Identity().Role)
	assert.Equal(t, int64(6), nested.Identity().ID)
}

func TestClient_ErrorMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/policies", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Email is already taken!")
	})
	mux.HandleFunc("/api/policies/all", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>boom</html>")
	})
	client := newTestClient(t, mux, signedIn(t), nil)

	_, err := client.Policies.List(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Email is already taken!", apiErr.Message)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	_, err = client.Policies.ListAll(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Empty(t, apiErr.Message)
}

func TestClient_TransportError(t *testing.T) {
	factory, err := NewFactory(Options{BaseURL: "http://127.0.0.1:1/api", Timeout: time.Second})
	require.NoError(t, err)

	_, err = factory.For(session.NewMemoryStore()).Policies.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestClient_PropagatesRequestID(t *testing.T) {
	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/doctor/all", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(observability.RequestIDHeader)
		writeJSON(w, http.StatusOK, []any{})
	})
	client := newTestClient(t, mux, signedIn(t), nil)

	ctx := observability.WithRequestID(context.Background(), "req-77")
	_, err := client.Doctors.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "req-77", got)
}

func TestClient_SubmitClaimMultipart(t *testing.T) {
	var fields map[string][]string
	var files []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/claims", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		fields = r.MultipartForm.Value
		for _, fh := range r.MultipartForm.File["documents"] {
			files = append(files, fh.Filename)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": 77, "status": "SUBMITTED"}})
	})
	client := newTestClient(t, mux, signedIn(t), nil)

	claim, err := client.Claims.Submit(context.Background(), domain.ClaimSubmission{
		Description:   "Knee surgery",
		AmountClaimed: decimal.RequireFromString("2500.00"),
		ClaimDate:     "2026-03-01",
		HospitalName:  "General",
		Documents: []domain.Upload{
			{FileName: "invoice.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
			{FileName: "xray.png", Content: []byte{0x89}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), claim.ID)
	assert.Equal(t, []string{"Knee surgery"}, fields["description"])
	assert.Equal(t, []string{"2500"}, fields["amountClaimed"])
	assert.Equal(t, []string{"invoice.pdf", "xray.png"}, files)
}

func TestClient_PathsAndMethods(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": nil})
	})
	client := newTestClient(t, handler, signedIn(t), nil)
	ctx := context.Background()

	_, _ = client.PolicyHolders.Purchase(ctx, 3)
	_, _ = client.Doctors.UpdateAppointmentStatus(ctx, 4, domain.AppointmentStatusConfirmed)
	_, _ = client.Claims.ForwardToFinance(ctx, 5, "ok")
	_, _ = client.ClaimsManager.Review(ctx, 6, domain.ClaimReview{Status: domain.ClaimStatusRejected})
	_, _ = client.Finance.ProcessClaim(ctx, 7, domain.FinanceDecision{Status: domain.FinanceStatusApproved})
	_, _ = client.Admin.ChangeRole(ctx, 8, domain.RoleDoctor)
	_ = client.Admin.DeleteUser(ctx, 9)
	_ = client.Policies.Delete(ctx, 10)

	assert.Equal(t, []call{
		{http.MethodPost, "/api/policy-holder/purchase/3"},
		{http.MethodPut, "/api/doctor/appointment/4/status"},
		{http.MethodPut, "/api/claims/5/forward-to-finance"},
		{http.MethodPut, "/api/claims-manager/claims/6/review"},
		{http.MethodPost, "/api/finance/process-claim/7"},
		{http.MethodPut, "/api/admin/users/8/role"},
		{http.MethodDelete, "/api/admin/users/9"},
		{http.MethodDelete, "/api/policies/10"},
	}, calls)
}

func TestUnwrapData(t *testing.T) {
	assert.JSONEq(t, `[1,2]`, string(unwrapData([]byte(`{"success":true,"data":[1,2]}`))))
	assert.JSONEq(t, `{"data":1}`, string(unwrapData([]byte(`{"data":1}`))))
	assert.JSONEq(t, `[1]`, string(unwrapData([]byte(`[1]`))))
}

func TestClient_RetriesIdempotentCalls(t *testing.T) {
	var gets, deletes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/policies", func(w http.ResponseWriter, _ *http.Request) {
		if gets.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	})
	mux.HandleFunc("/api/policies/4", func(w http.ResponseWriter, _ *http.Request) {
		deletes.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	factory, err := NewFactory(Options{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second, Retries: 2})
	require.NoError(t, err)
	client := factory.For(signedIn(t))

	_, err = client.Policies.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), gets.Load())

	err = client.Policies.Delete(context.Background(), 4)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, int32(1), deletes.Load())
}

func TestClient_RetriesGiveBackLastAnswer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/policies", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadGateway, map[string]any{"message": "upstream down"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	factory, err := NewFactory(Options{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second, Retries: 1})
	require.NoError(t, err)

	_, err = factory.For(nil).Policies.List(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
}
