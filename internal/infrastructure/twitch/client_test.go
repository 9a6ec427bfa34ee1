package twitch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServers(t *testing.T, moderators []string) (*httptest.Server, *httptest.Server, *int32) {
	t.Helper()

	var tokenRequests int32

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth2/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		atomic.AddInt32(&tokenRequests, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "app-token",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(auth.Close)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/helix/moderation/moderators", r.URL.Path)
		require.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
		require.Equal(t, "client-id", r.Header.Get("Client-Id"))

		requested := r.URL.Query().Get("user_id")
		data := []map[string]string{}
		for _, id := range moderators {
			if id == requested {
				data = append(data, map[string]string{"user_id": id})
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}))
	t.Cleanup(api.Close)

	return auth, api, &tokenRequests
}

func newTestClient(auth, api *httptest.Server) *Client {
	return NewClient(Config{
		ClientID:       "client-id",
		ClientSecret:   "client-secret",
		APIBaseURL:     api.URL,
		AuthBaseURL:    auth.URL,
		RequestTimeout: 2 * time.Second,
	}, zap.NewNop().Sugar())
}

func TestVerifyModStatus_Positive(t *testing.T) {
	auth, api, _ := newTestServers(t, []string{"300"})
	client := newTestClient(auth, api)

	isMod, err := client.VerifyModStatus(context.Background(), "100", "300")

	assert.NoError(t, err)
	assert.True(t, isMod)
}

func TestVerifyModStatus_Negative(t *testing.T) {
	auth, api, _ := newTestServers(t, []string{"300"})
	client := newTestClient(auth, api)

	isMod, err := client.VerifyModStatus(context.Background(), "100", "999")

	assert.NoError(t, err)
	assert.False(t, isMod)
}

func TestVerifyModStatus_ReusesCachedToken(t *testing.T) {
	auth, api, tokenRequests := newTestServers(t, []string{"300"})
	client := newTestClient(auth, api)

	for i := 0; i < 3; i++ {
		_, err := client.VerifyModStatus(context.Background(), "100", "300")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(tokenRequests))
}

func TestVerifyModStatus_RefreshesTokenOn401(t *testing.T) {
	var tokenRequests int32
	var apiCalls int32

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&tokenRequests, 1)
		token := "stale-token"
		if n > 1 {
			token = "fresh-token"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": token,
			"expires_in":   3600,
		})
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
		if r.Header.Get("Authorization") == "Bearer stale-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"user_id": "300"}},
		})
	}))
	defer api.Close()

	client := newTestClient(auth, api)

	isMod, err := client.VerifyModStatus(context.Background(), "100", "300")

	assert.NoError(t, err)
	assert.True(t, isMod)
	assert.Equal(t, int32(2), atomic.LoadInt32(&tokenRequests))
	assert.Equal(t, int32(2), atomic.LoadInt32(&apiCalls))
}

func TestVerifyModStatus_ServerErrorSurfaces(t *testing.T) {
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "app-token",
			"expires_in":   3600,
		})
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer api.Close()

	client := newTestClient(auth, api)

	isMod, err := client.VerifyModStatus(context.Background(), "100", "300")

	assert.Error(t, err)
	assert.False(t, isMod)
}
