package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	config "github.com/maheshrc27/multipost-api/configs"
	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/transfer"
	"golang.org/x/oauth2"
)

// FacebookIdentity is everything a Facebook login produces.
type FacebookIdentity struct {
	UserID      string
	Name        string
	Email       string
	Picture     string
	AccessToken string
	ExpiresIn   int64
	Pages       []models.Page
	Instagram   *transfer.InstagramIdentity
}

type FacebookService interface {
	PlatformAdapter
	ExchangeCode(ctx context.Context, code, redirectURI string) (*FacebookIdentity, error)
	RefreshToken(ctx context.Context, accessToken string) (*transfer.FacebookTokenResponse, error)
}

type facebookService struct {
	cfg    config.Config
	client *http.Client
}

func NewFacebookService(cfg config.Config, client *http.Client) FacebookService {
	if client == nil {
		client = http.DefaultClient
	}
	return &facebookService{
		cfg:    cfg,
		client: client,
	}
}

func (s *facebookService) Platform() models.Platform {
	return models.PlatformFacebook
}

// Publish posts to a page feed, or to its photos when media is attached.
func (s *facebookService) Publish(ctx context.Context, target *PublishTarget, content *PublishContent) (string, error) {
	if target.AccountID == "" || target.AccessToken == "" {
		return "", &PreconditionError{Platform: models.PlatformFacebook, Message: "Missing page credentials"}
	}

	endpoint := fmt.Sprintf("%s/%s/feed", s.cfg.GraphAPIURL, target.AccountID)
	payload := map[string]string{
		"access_token": target.AccessToken,
		"message":      content.Caption,
	}
	if content.MediaURL != "" {
		endpoint = fmt.Sprintf("%s/%s/photos", s.cfg.GraphAPIURL, target.AccountID)
		payload["url"] = content.MediaURL
	}

	var result transfer.FacebookPublishResponse
	err := apiRequest{
		platform: models.PlatformFacebook,
		op:       "publish",
		method:   http.MethodPost,
		url:      endpoint,
		payload:  payload,
	}.do(ctx, s.client, &result)
	if err != nil {
		return "", err
	}

	if result.ID != "" {
		return result.ID, nil
	}
	if result.PostID != "" {
		return result.PostID, nil
	}
	return "", errors.New("no post ID returned from Facebook")
}

func (s *facebookService) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.FacebookAppID,
		ClientSecret: s.cfg.FacebookAppSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  s.cfg.GraphAPIURL + "/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// ExchangeCode runs the whole Facebook login chain. Only the code exchange and
// the profile fetch are fatal; the long-lived exchange falls back to the
// short-lived token and a failed page listing means no pages.
func (s *facebookService) ExchangeCode(ctx context.Context, code, redirectURI string) (*FacebookIdentity, error) {
	if !s.cfg.FacebookConfigured() {
		return nil, &ConfigurationError{
			Provider: "Facebook",
			Message:  "Please set FACEBOOK_APP_ID and FACEBOOK_APP_SECRET environment variables",
		}
	}
	if code == "" {
		err := NewValidationError("code", "code is empty")
		slog.Info(err.Error())
		return nil, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	token, err := s.oauthConfig(redirectURI).Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, exchangeError(models.PlatformFacebook, "token exchange", err)
	}

	identity := &FacebookIdentity{
		AccessToken: token.AccessToken,
		ExpiresIn:   tokenExpiresIn(token),
	}

	longLived, err := s.longLivedToken(ctx, token.AccessToken)
	if err != nil {
		slog.Info("long-lived token exchange failed, keeping short-lived token", "error", err)
	} else {
		identity.AccessToken = longLived.AccessToken
		identity.ExpiresIn = longLived.ExpiresIn
	}

	user, err := s.getUser(ctx, identity.AccessToken)
	if err != nil {
		return nil, err
	}
	identity.UserID = user.ID
	identity.Name = user.Name
	identity.Email = user.Email
	identity.Picture = user.Picture.URL()

	pages, err := s.getPages(ctx, identity.AccessToken)
	if err != nil {
		slog.Info("unable to list Facebook pages", "error", err)
	}
	identity.Pages = pages
	identity.Instagram = s.findInstagramAccount(ctx, pages)

	return identity, nil
}

func (s *facebookService) RefreshToken(ctx context.Context, accessToken string) (*transfer.FacebookTokenResponse, error) {
	if !s.cfg.FacebookConfigured() {
		return nil, &ConfigurationError{Provider: "Facebook"}
	}
	return s.longLivedToken(ctx, accessToken)
}

func (s *facebookService) longLivedToken(ctx context.Context, accessToken string) (*transfer.FacebookTokenResponse, error) {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", s.cfg.FacebookAppID)
	params.Set("client_secret", s.cfg.FacebookAppSecret)
	params.Set("fb_exchange_token", accessToken)

	var result transfer.FacebookTokenResponse
	err := apiRequest{
		platform: models.PlatformFacebook,
		op:       "long-lived token exchange",
		method:   http.MethodGet,
		url:      s.cfg.GraphAPIURL + "/oauth/access_token?" + params.Encode(),
	}.do(ctx, s.client, &result)
	if err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, errors.New("no access token received from Facebook")
	}
	return &result, nil
}

func (s *facebookService) getUser(ctx context.Context, accessToken string) (*transfer.FacebookUserResponse, error) {
	params := url.Values{}
	params.Set("fields", "id,name,email,picture.type(large)")
	params.Set("access_token", accessToken)

	var user transfer.FacebookUserResponse
	err := apiRequest{
		platform: models.PlatformFacebook,
		op:       "fetch user",
		method:   http.MethodGet,
		url:      s.cfg.GraphAPIURL + "/me?" + params.Encode(),
	}.do(ctx, s.client, &user)
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, errors.New("incomplete user data from Facebook")
	}
	return &user, nil
}

func (s *facebookService) getPages(ctx context.Context, accessToken string) ([]models.Page, error) {
	params := url.Values{}
	params.Set("fields", "id,name,access_token,picture.type(large)")
	params.Set("access_token", accessToken)

	var result transfer.FacebookPagesResponse
	err := apiRequest{
		platform: models.PlatformFacebook,
		op:       "list pages",
		method:   http.MethodGet,
		url:      s.cfg.GraphAPIURL + "/me/accounts?" + params.Encode(),
	}.do(ctx, s.client, &result)
	if err != nil {
		return []models.Page{}, err
	}

	pages := make([]models.Page, 0, len(result.Data))
	for _, p := range result.Data {
		pages = append(pages, models.Page{
			ID:          p.ID,
			Name:        p.Name,
			AccessToken: p.AccessToken,
			Picture:     p.Picture.URL(),
		})
	}
	return pages, nil
}

// findInstagramAccount probes pages in order and stops at the first one with a
// linked Instagram business account.
func (s *facebookService) findInstagramAccount(ctx context.Context, pages []models.Page) *transfer.InstagramIdentity {
	for _, page := range pages {
		params := url.Values{}
		params.Set("fields", "instagram_business_account{id,username}")
		params.Set("access_token", page.AccessToken)

		var result transfer.InstagramAccountResponse
		err := apiRequest{
			platform: models.PlatformInstagram,
			op:       "probe business account",
			method:   http.MethodGet,
			url:      fmt.Sprintf("%s/%s?%s", s.cfg.GraphAPIURL, url.PathEscape(page.ID), params.Encode()),
		}.do(ctx, s.client, &result)
		if err != nil {
			slog.Info("failed to fetch Instagram account for page", "page_id", page.ID, "error", err)
			continue
		}

		if result.InstagramBusinessAccount != nil && strings.TrimSpace(result.InstagramBusinessAccount.ID) != "" {
			return &transfer.InstagramIdentity{
				ID:              result.InstagramBusinessAccount.ID,
				Username:        result.InstagramBusinessAccount.Username,
				PageID:          page.ID,
				PageAccessToken: page.AccessToken,
			}
		}
	}
	return nil
}
