package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yatube/config"

	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		StorageType: config.StorageInMemory,
		PostsOnPage: 5,
		HTTP:        config.HTTPConfig{Port: "0", ShutdownTimeout: time.Second},
		Session:     config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef"},
	}
}

func TestNewApp_InMemory(t *testing.T) {
	a, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	require.Nil(t, a.pool)
	require.Equal(t, 5, a.Posts.PostsOnPage())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", status: http.StatusOK},
		{name: "index", method: http.MethodGet, path: "/", status: http.StatusOK},
		{name: "unknown page", method: http.MethodGet, path: "/nope/", status: http.StatusNotFound},
		{name: "graphql", method: http.MethodPost, path: "/query", body: `{"query":"{ groups { slug } }"}`, status: http.StatusOK},
		{name: "graphql wrong method", method: http.MethodGet, path: "/query", status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			a.srv.Handler.ServeHTTP(rec, req)
			require.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	a, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	err := Migrate(context.Background(), testConfig())
	require.Error(t, err)
}
