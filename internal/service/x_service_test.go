package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	config "github.com/maheshrc27/multipost-api/configs"
	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestX(t *testing.T, handler http.HandlerFunc) XService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		XClientID:     "client-id",
		XClientSecret: "client-secret",
		XAPIURL:       srv.URL,
	}
	return NewXService(cfg, srv.Client())
}

func xTokenEndpoint(t *testing.T, w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	require.True(t, ok, "client credentials go in the basic auth header")
	assert.Equal(t, "client-id", user)
	assert.Equal(t, "client-secret", pass)

	w.Header().Set("Content-Type", "application/json")
	switch r.FormValue("grant_type") {
	case "authorization_code":
		if r.FormValue("code_verifier") != "verifier" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_request","error_description":"bad verifier"}`))
			return
		}
		w.Write([]byte(`{"access_token":"x-access","refresh_token":"x-refresh","expires_in":7200,"token_type":"bearer"}`))
	case "refresh_token":
		assert.Equal(t, "x-refresh", r.FormValue("refresh_token"))
		w.Write([]byte(`{"access_token":"x-access-2","refresh_token":"x-refresh-2","expires_in":7200,"token_type":"bearer"}`))
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func TestXExchangeCode(t *testing.T) {
	x := newTestX(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/token":
			xTokenEndpoint(t, w, r)
		case "/users/me":
			assert.Equal(t, "Bearer x-access", r.Header.Get("Authorization"))
			w.Write([]byte(`{"data":{"id":"9","name":"Xe","username":"xe","profile_image_url":"https://img/xe"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	identity, err := x.ExchangeCode(context.Background(), "code", "app://x", "verifier")
	require.NoError(t, err)

	assert.Equal(t, "9", identity.UserID)
	assert.Equal(t, "xe", identity.Username)
	assert.Equal(t, "https://img/xe", identity.Avatar)
	assert.Equal(t, "x-access", identity.AccessToken)
	assert.Equal(t, "x-refresh", identity.RefreshToken)
	assert.Equal(t, int64(7200), identity.ExpiresIn)
}

func TestXExchangeCode_BadVerifier(t *testing.T) {
	x := newTestX(t, func(w http.ResponseWriter, r *http.Request) {
		xTokenEndpoint(t, w, r)
	})

	_, err := x.ExchangeCode(context.Background(), "code", "app://x", "wrong")
	require.Error(t, err)
	assert.True(t, IsUpstreamFailure(err))
	assert.Contains(t, UpstreamDetails(err), "bad verifier")
}

func TestXExchangeCode_MissingVerifier(t *testing.T) {
	x := newTestX(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := x.ExchangeCode(context.Background(), "code", "app://x", "")
	assert.True(t, IsValidationError(err))
}

func TestXExchangeCode_NotConfigured(t *testing.T) {
	x := NewXService(config.Config{}, nil)

	_, err := x.ExchangeCode(context.Background(), "code", "app://x", "verifier")
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, "X OAuth not configured", err.Error())
}

func TestXRefreshToken(t *testing.T) {
	x := newTestX(t, func(w http.ResponseWriter, r *http.Request) {
		xTokenEndpoint(t, w, r)
	})

	token, err := x.RefreshToken(context.Background(), "x-refresh")
	require.NoError(t, err)
	assert.Equal(t, "x-access-2", token.AccessToken)
	assert.Equal(t, "x-refresh-2", token.RefreshToken)
	assert.False(t, token.Expiry.IsZero())
}

func TestXPublish(t *testing.T) {
	x := newTestX(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tweets", r.URL.Path)
		assert.Equal(t, "Bearer x-token", r.Header.Get("Authorization"))

		var tweet transfer.XTweetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&tweet))
		assert.Equal(t, "Hello", tweet.Text)
		require.NotNil(t, tweet.Media)
		assert.Equal(t, []string{"m1"}, tweet.Media.MediaIDs)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"tweet-1","text":"Hello"}}`))
	})

	id, err := x.Publish(context.Background(),
		&PublishTarget{Platform: models.PlatformTwitter, AccessToken: "x-token"},
		&PublishContent{Caption: "Hello", MediaID: "m1"},
	)
	require.NoError(t, err)
	assert.Equal(t, "tweet-1", id)
}

func TestXPublish_TextOnlyOmitsMedia(t *testing.T) {
	x := newTestX(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.NotContains(t, raw, "media")
		w.Write([]byte(`{"data":{"id":"tweet-2"}}`))
	})

	id, err := x.Publish(context.Background(),
		&PublishTarget{AccessToken: "x-token"},
		&PublishContent{Caption: "Plain"},
	)
	require.NoError(t, err)
	assert.Equal(t, "tweet-2", id)
}

func TestXPublish_Forbidden(t *testing.T) {
	x := newTestX(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"title":"Forbidden","detail":"duplicate content"}`))
	})

	_, err := x.Publish(context.Background(), &PublishTarget{AccessToken: "x-token"}, &PublishContent{Caption: "dup"})
	require.Error(t, err)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusForbidden, upErr.Status)
	assert.Contains(t, err.Error(), "duplicate content")
}

func TestXPublish_MissingToken(t *testing.T) {
	x := NewXService(config.Config{}, nil)

	_, err := x.Publish(context.Background(), &PublishTarget{}, &PublishContent{Caption: "hi"})
	assert.True(t, IsPreconditionError(err))
}
