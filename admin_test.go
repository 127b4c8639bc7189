package supabaseauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminOperationsRequireServiceRoleKey(t *testing.T) {
	transport := &countingTransport{}
	client := newTestClient(t, "http://localhost:54321", Config{
		HTTPClient: &http.Client{Transport: transport},
	})
	ctx := context.Background()
	userID := uuid.New()

	_, err := client.GetUserByID(ctx, userID)
	require.ErrorIs(t, err, ErrMissingServiceRoleKey)

	require.ErrorIs(t, client.SoftDeleteUser(ctx, userID), ErrMissingServiceRoleKey)
	require.ErrorIs(t, client.HardDeleteUser(ctx, userID), ErrMissingServiceRoleKey)

	assert.Zero(t, transport.calls, "missing key must be detected before contacting the server")
}

func TestAdminNilUUIDSkipsNetwork(t *testing.T) {
	transport := &countingTransport{}
	client := newTestClient(t, "http://localhost:54321", Config{
		HTTPClient:     &http.Client{Transport: transport},
		ServiceRoleKey: "service-role-key",
	})
	ctx := context.Background()

	_, err := client.GetUserByID(ctx, uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidParameters)
	require.ErrorIs(t, client.SoftDeleteUser(ctx, uuid.Nil), ErrInvalidParameters)
	require.ErrorIs(t, client.HardDeleteUser(ctx, uuid.Nil), ErrInvalidParameters)

	assert.Zero(t, transport.calls)
}

func TestGetUserByID(t *testing.T) {
	userID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/auth/v1/admin/users/"+userID.String(), r.URL.Path)
		// Admin calls authenticate with the service role key in both headers.
		assert.Equal(t, "service-role-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-role-key", r.Header.Get("Authorization"))
		fmt.Fprintf(w, `{"id": %q, "aud": "authenticated", "role": "authenticated", "email": "a@example.com"}`, userID)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{ServiceRoleKey: "service-role-key"})
	user, err := client.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}

func TestGetUserByIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code":404,"msg":"User not found"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{ServiceRoleKey: "service-role-key"})
	_, err := client.GetUserByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	userID := uuid.New()
	var got []bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/auth/v1/admin/users/"+userID.String(), r.URL.Path)
		assert.Equal(t, "Bearer service-role-key", r.Header.Get("Authorization"))

		var body deleteUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = append(got, body.ShouldSoftDelete)
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{ServiceRoleKey: "service-role-key"})
	ctx := context.Background()

	require.NoError(t, client.SoftDeleteUser(ctx, userID))
	require.NoError(t, client.HardDeleteUser(ctx, userID))
	assert.Equal(t, []bool{true, false}, got)
}

func TestDeleteUserNotAuthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"code":403,"msg":"User not allowed"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, Config{ServiceRoleKey: "not-actually-privileged"})
	err := client.HardDeleteUser(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotAuthorized)
}
