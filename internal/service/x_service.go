package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	config "github.com/maheshrc27/multipost-api/configs"
	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/transfer"
	"golang.org/x/oauth2"
)

// XIdentity is everything an X login produces.
type XIdentity struct {
	UserID       string
	Name         string
	Username     string
	Avatar       string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type XService interface {
	PlatformAdapter
	ExchangeCode(ctx context.Context, code, redirectURI, codeVerifier string) (*XIdentity, error)
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

type xService struct {
	cfg    config.Config
	client *http.Client
}

func NewXService(cfg config.Config, client *http.Client) XService {
	if client == nil {
		client = http.DefaultClient
	}
	return &xService{
		cfg:    cfg,
		client: client,
	}
}

func (s *xService) Platform() models.Platform {
	return models.PlatformTwitter
}

func (s *xService) Publish(ctx context.Context, target *PublishTarget, content *PublishContent) (string, error) {
	if target.AccessToken == "" {
		return "", &PreconditionError{Platform: models.PlatformTwitter, Message: "Missing access token"}
	}

	tweet := transfer.XTweetRequest{Text: content.Caption}
	if content.MediaID != "" {
		tweet.Media = &transfer.XTweetMedia{MediaIDs: []string{content.MediaID}}
	}

	var result transfer.XTweetResponse
	err := apiRequest{
		platform: models.PlatformTwitter,
		op:       "create tweet",
		method:   http.MethodPost,
		url:      s.cfg.XAPIURL + "/tweets",
		bearer:   target.AccessToken,
		payload:  tweet,
	}.do(ctx, s.client, &result)
	if err != nil {
		return "", err
	}

	if result.Data.ID == "" {
		return "", errors.New("no tweet ID returned from X")
	}
	return result.Data.ID, nil
}

func (s *xService) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.XClientID,
		ClientSecret: s.cfg.XClientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  s.cfg.XAPIURL + "/oauth2/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

func (s *xService) configurationError() error {
	return &ConfigurationError{
		Provider: "X",
		Message:  "Please set X_CLIENT_ID and X_CLIENT_SECRET environment variables",
	}
}

// ExchangeCode trades the code and PKCE verifier for tokens, then loads the profile.
func (s *xService) ExchangeCode(ctx context.Context, code, redirectURI, codeVerifier string) (*XIdentity, error) {
	if !s.cfg.XConfigured() {
		return nil, s.configurationError()
	}
	if code == "" || codeVerifier == "" {
		err := NewValidationError("code", "code or code verifier is empty")
		slog.Info(err.Error())
		return nil, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	token, err := s.oauthConfig(redirectURI).Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		slog.Info(err.Error())
		return nil, exchangeError(models.PlatformTwitter, "token exchange", err)
	}

	var user transfer.XUserResponse
	err = apiRequest{
		platform: models.PlatformTwitter,
		op:       "fetch user",
		method:   http.MethodGet,
		url:      s.cfg.XAPIURL + "/users/me?user.fields=profile_image_url",
		bearer:   token.AccessToken,
	}.do(ctx, s.client, &user)
	if err != nil {
		return nil, err
	}
	if user.Data.ID == "" {
		return nil, errors.New("incomplete user data from X")
	}

	return &XIdentity{
		UserID:       user.Data.ID,
		Name:         user.Data.Name,
		Username:     user.Data.Username,
		Avatar:       user.Data.ProfileImageURL,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    tokenExpiresIn(token),
	}, nil
}

func (s *xService) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if !s.cfg.XConfigured() {
		return nil, s.configurationError()
	}
	if refreshToken == "" {
		return nil, errors.New("no refresh token stored")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	token, err := s.oauthConfig("").TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, exchangeError(models.PlatformTwitter, "token refresh", err)
	}
	return token, nil
}
