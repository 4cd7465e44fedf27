package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	config "github.com/maheshrc27/multipost-api/configs"
	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGraph serves the Graph API endpoints the Facebook login chain touches.
type fakeGraph struct {
	longLivedFails bool
	pagesFail      bool

	mu     sync.Mutex
	probed []string
}

func (g *fakeGraph) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/oauth/access_token" && r.Method == http.MethodPost:
		if r.FormValue("code") != "good-code" || r.FormValue("client_secret") != "app-secret" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"Invalid verification code format."}}`))
			return
		}
		w.Write([]byte(`{"access_token":"short-token","token_type":"bearer","expires_in":3600}`))

	case r.URL.Path == "/oauth/access_token" && r.Method == http.MethodGet:
		if g.longLivedFails || r.URL.Query().Get("fb_exchange_token") != "short-token" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"nope"}}`))
			return
		}
		w.Write([]byte(`{"access_token":"long-token","token_type":"bearer","expires_in":5184000}`))

	case r.URL.Path == "/me":
		w.Write([]byte(`{"id":"42","name":"Ann","email":"ann@example.com","picture":{"data":{"url":"https://pic/ann"}}}`))

	case r.URL.Path == "/me/accounts":
		if g.pagesFail {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"message":"missing permission"}}`))
			return
		}
		w.Write([]byte(`{"data":[
			{"id":"p1","name":"One","access_token":"t1"},
			{"id":"p2","name":"Two","access_token":"t2"},
			{"id":"p3","name":"Three","access_token":"t3"}
		]}`))

	case r.URL.Path == "/p1" || r.URL.Path == "/p2" || r.URL.Path == "/p3":
		g.mu.Lock()
		g.probed = append(g.probed, r.URL.Path[1:])
		g.mu.Unlock()
		if r.URL.Path == "/p2" {
			w.Write([]byte(`{"id":"p2","instagram_business_account":{"id":"ig2","username":"brand"}}`))
			return
		}
		w.Write([]byte(`{"id":"` + r.URL.Path[1:] + `"}`))

	case r.URL.Path == "/p1/feed" || r.URL.Path == "/me/feed":
		w.Write([]byte(`{"id":"feed-post"}`))

	case r.URL.Path == "/p1/photos":
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["url"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"id":"photo-1","post_id":"p1_photo"}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestFacebook(t *testing.T, graph *fakeGraph) FacebookService {
	t.Helper()
	srv := httptest.NewServer(graph)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		FacebookAppID:     "app-id",
		FacebookAppSecret: "app-secret",
		GraphAPIURL:       srv.URL,
	}
	return NewFacebookService(cfg, srv.Client())
}

func TestFacebookExchangeCode_FullChain(t *testing.T) {
	graph := &fakeGraph{}
	fb := newTestFacebook(t, graph)

	identity, err := fb.ExchangeCode(context.Background(), "good-code", "app://redirect")
	require.NoError(t, err)

	assert.Equal(t, "42", identity.UserID)
	assert.Equal(t, "Ann", identity.Name)
	assert.Equal(t, "https://pic/ann", identity.Picture)
	assert.Equal(t, "long-token", identity.AccessToken)
	assert.Equal(t, int64(5184000), identity.ExpiresIn)
	require.Len(t, identity.Pages, 3)
	assert.Equal(t, "t2", identity.Pages[1].AccessToken)

	require.NotNil(t, identity.Instagram)
	assert.Equal(t, "ig2", identity.Instagram.ID)
	assert.Equal(t, "brand", identity.Instagram.Username)
	assert.Equal(t, "p2", identity.Instagram.PageID)
	assert.Equal(t, "t2", identity.Instagram.PageAccessToken)

	assert.Equal(t, []string{"p1", "p2"}, graph.probed, "probing stops at the first linked account")
}

func TestFacebookExchangeCode_LongLivedFallback(t *testing.T) {
	fb := newTestFacebook(t, &fakeGraph{longLivedFails: true})

	identity, err := fb.ExchangeCode(context.Background(), "good-code", "app://redirect")
	require.NoError(t, err)

	assert.Equal(t, "short-token", identity.AccessToken)
	assert.Equal(t, int64(3600), identity.ExpiresIn)
}

func TestFacebookExchangeCode_PagesFailureMeansNoPages(t *testing.T) {
	fb := newTestFacebook(t, &fakeGraph{pagesFail: true})

	identity, err := fb.ExchangeCode(context.Background(), "good-code", "app://redirect")
	require.NoError(t, err)

	assert.Empty(t, identity.Pages)
	assert.Nil(t, identity.Instagram)
}

func TestFacebookExchangeCode_BadCode(t *testing.T) {
	fb := newTestFacebook(t, &fakeGraph{})

	_, err := fb.ExchangeCode(context.Background(), "bad-code", "app://redirect")
	require.Error(t, err)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "token exchange", upErr.Op)
	assert.Equal(t, http.StatusBadRequest, upErr.Status)
	assert.Contains(t, upErr.Body, "Invalid verification code")
}

func TestFacebookExchangeCode_NotConfigured(t *testing.T) {
	fb := NewFacebookService(config.Config{}, nil)

	_, err := fb.ExchangeCode(context.Background(), "good-code", "app://redirect")
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, "Facebook OAuth not configured", err.Error())
}

func TestFacebookExchangeCode_EmptyCode(t *testing.T) {
	fb := newTestFacebook(t, &fakeGraph{})

	_, err := fb.ExchangeCode(context.Background(), "", "app://redirect")
	assert.True(t, IsValidationError(err))
}

func TestFacebookPublish(t *testing.T) {
	fb := newTestFacebook(t, &fakeGraph{})
	ctx := context.Background()
	page := &PublishTarget{Platform: models.PlatformFacebook, AccountID: "p1", AccessToken: "t1"}

	id, err := fb.Publish(ctx, page, &PublishContent{Caption: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "feed-post", id)

	id, err = fb.Publish(ctx, page, &PublishContent{Caption: "Hello", MediaURL: "https://cdn/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "photo-1", id)

	id, err = fb.Publish(ctx, &PublishTarget{AccountID: "me", AccessToken: "user"}, &PublishContent{Caption: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "feed-post", id)
}

func TestFacebookPublish_MissingCredentials(t *testing.T) {
	fb := newTestFacebook(t, &fakeGraph{})

	_, err := fb.Publish(context.Background(), &PublishTarget{AccountID: "p1"}, &PublishContent{Caption: "Hello"})
	require.Error(t, err)
	assert.True(t, IsPreconditionError(err))
	assert.Equal(t, "Missing page credentials", err.Error())
}

func TestFacebookPublish_UpstreamFailure(t *testing.T) {
	fb := newTestFacebook(t, &fakeGraph{})

	_, err := fb.Publish(context.Background(),
		&PublishTarget{AccountID: "unknown-page", AccessToken: "t"},
		&PublishContent{Caption: "Hello"},
	)
	require.Error(t, err)
	assert.True(t, IsUpstreamFailure(err))
}
