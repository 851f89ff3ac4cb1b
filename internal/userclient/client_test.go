package userclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomcore/order-service/internal/userclient"
)

func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetUserByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/u1", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"u1","name":"Alice","email":"alice@example.com"}`))
		})

		client := userclient.New(srv.URL, 0)
		user, err := client.GetUserByID(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, &userclient.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}, user)
	})

	t.Run("upstream_404", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		client := userclient.New(srv.URL, 0)
		_, err := client.GetUserByID(context.Background(), "u1")
		assert.ErrorIs(t, err, userclient.ErrUserNotFound)
	})

	t.Run("upstream_500", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		client := userclient.New(srv.URL, 0)
		_, err := client.GetUserByID(context.Background(), "u1")
		assert.ErrorIs(t, err, userclient.ErrUnavailable)
	})

	t.Run("timeout_maps_to_unavailable", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})

		client := userclient.New(srv.URL, 20*time.Millisecond)
		_, err := client.GetUserByID(context.Background(), "u1")
		assert.ErrorIs(t, err, userclient.ErrUnavailable)
	})

	t.Run("malformed_body_maps_to_unavailable", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		})

		client := userclient.New(srv.URL, 0)
		_, err := client.GetUserByID(context.Background(), "u1")
		assert.ErrorIs(t, err, userclient.ErrUnavailable)
	})
}

func TestClient_GetUserStatus(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"isActive":true}`))
	})

	client := userclient.New(srv.URL, 0)
	status, err := client.GetUserStatus(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, status.IsActive)
}

func TestClient_ValidateUser(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "active_user",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"isActive":true}`))
			},
			want: true,
		},
		{
			name: "inactive_user",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"isActive":false}`))
			},
			want: false,
		},
		{
			name: "missing_user_collapses_to_false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want: false,
		},
		{
			name: "upstream_error_collapses_to_false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newUpstream(t, tt.handler)
			client := userclient.New(srv.URL, 0)
			assert.Equal(t, tt.want, client.ValidateUser(context.Background(), "u1"))
		})
	}
}

func TestClient_Healthy(t *testing.T) {
	t.Run("healthy_upstream", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})

		client := userclient.New(srv.URL, 0)
		assert.True(t, client.Healthy(context.Background()))
	})

	t.Run("unhealthy_upstream", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		client := userclient.New(srv.URL, 0)
		assert.False(t, client.Healthy(context.Background()))
	})

	t.Run("unreachable_upstream", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		client := userclient.New(srv.URL, 100*time.Millisecond)
		assert.False(t, client.Healthy(context.Background()))
	})
}
