package userclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"record_service/internal/auth"
)

func newDirectory(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetMemberByID(t *testing.T) {
	signer, err := auth.NewSigner("s3cret")
	require.NoError(t, err)

	var gotPath, gotAuth string
	srv := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"idx":"100","username":"gildong"}`))
	})

	client := New(srv.URL+"/", time.Second, signer, nil)
	member, err := client.GetMemberByID(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "100", member.Idx)
	assert.Equal(t, "gildong", member.Username)
	assert.Equal(t, "/users/u1", gotPath)
	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))

	claims, err := signer.ValidateToken(strings.TrimPrefix(gotAuth, "Bearer "))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
}

func TestGetMemberByIDWithoutSigner(t *testing.T) {
	srv := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"idx":"100"}`))
	})

	member, err := New(srv.URL, time.Second, nil, nil).GetMemberByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "100", member.Idx)
}

func TestGetMemberByIDUnauthorized(t *testing.T) {
	srv := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := New(srv.URL, time.Second, nil, nil).GetMemberByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetMemberByIDEmptyIdx(t *testing.T) {
	_, err := New("http://127.0.0.1:0", time.Second, nil, nil).GetMemberByID(context.Background(), " ")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetMemberByIDServerError(t *testing.T) {
	srv := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "redis down", http.StatusBadGateway)
	})

	_, err := New(srv.URL, time.Second, nil, nil).GetMemberByID(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "502")
}

func TestGetMemberByIDMissingIdx(t *testing.T) {
	srv := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"username":"gildong"}`))
	})

	_, err := New(srv.URL, time.Second, nil, nil).GetMemberByID(context.Background(), "u1")
	assert.Error(t, err)
}

func TestGetMemberByIDTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newDirectory(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond, nil, nil).GetMemberByID(context.Background(), "u1")
	assert.Error(t, err)
}
