package service

import (
	"context"
	"log/slog"
	"strings"

	config "github.com/maheshrc27/multipost-api/configs"
	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/repository"
	"github.com/maheshrc27/multipost-api/internal/transfer"
)

type AuthService interface {
	FacebookLogin(ctx context.Context, req *transfer.FacebookTokenRequest) (*transfer.FacebookLoginResult, error)
	XLogin(ctx context.Context, req *transfer.XTokenRequest) (*transfer.XLoginResult, error)
	Config() transfer.OAuthConfig
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
	fb  FacebookService
	x   XService
}

func NewAuthService(cfg config.Config, u repository.UserRepository, fb FacebookService, x XService) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
		fb:  fb,
		x:   x,
	}
}

// Config reports which providers are usable. Client ids are public; secrets
// never leave the server.
func (s *authService) Config() transfer.OAuthConfig {
	var out transfer.OAuthConfig

	out.Facebook.Configured = s.cfg.FacebookConfigured()
	if s.cfg.FacebookAppID != "" {
		id := s.cfg.FacebookAppID
		out.Facebook.AppID = &id
	}

	out.X.Configured = s.cfg.XConfigured()
	if s.cfg.XClientID != "" {
		id := s.cfg.XClientID
		out.X.ClientID = &id
	}
	return out
}

// FacebookLogin runs the Facebook exchange chain and records the resulting
// facebook and instagram targets. Nothing is saved unless the whole chain
// succeeds.
func (s *authService) FacebookLogin(ctx context.Context, req *transfer.FacebookTokenRequest) (*transfer.FacebookLoginResult, error) {
	identity, err := s.fb.ExchangeCode(ctx, req.Code, req.RedirectURI)
	if err != nil {
		return nil, err
	}

	user, err := s.loadOrCreate(ctx, req.UserID, "fb_"+identity.UserID)
	if err != nil {
		return nil, err
	}
	fillProfile(user, identity.Name, identity.Email, identity.Picture)

	user.SetTarget(&models.ConnectedTarget{
		Platform:       models.PlatformFacebook,
		Connected:      true,
		Username:       identity.Name,
		ProfilePicture: identity.Picture,
		Pages:          identity.Pages,
		AccountID:      identity.UserID,
		AccessToken:    identity.AccessToken,
		TokenExpiresAt: GetExpiresAt(identity.ExpiresIn),
	})

	if ig := identity.Instagram; ig != nil {
		user.SetTarget(&models.ConnectedTarget{
			Platform:     models.PlatformInstagram,
			Connected:    true,
			Username:     strings.TrimPrefix(ig.Username, "@"),
			AccountID:    ig.ID,
			LinkedPageID: ig.PageID,
			AccessToken:  ig.PageAccessToken,
		})
	} else {
		user.RemoveTarget(models.PlatformInstagram)
	}

	if err := s.u.Save(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("facebook login", "user_id", user.ID, "pages", len(identity.Pages), "instagram", identity.Instagram != nil)

	return &transfer.FacebookLoginResult{
		User: transfer.LoginUser{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Avatar: user.Avatar,
		},
		Facebook: transfer.FacebookCredential{
			AccessToken: identity.AccessToken,
			ExpiresIn:   identity.ExpiresIn,
			UserID:      identity.UserID,
			Pages:       transfer.PagesFromModel(identity.Pages),
		},
		Instagram: identity.Instagram,
	}, nil
}

func (s *authService) XLogin(ctx context.Context, req *transfer.XTokenRequest) (*transfer.XLoginResult, error) {
	identity, err := s.x.ExchangeCode(ctx, req.Code, req.RedirectURI, req.CodeVerifier)
	if err != nil {
		return nil, err
	}

	user, err := s.loadOrCreate(ctx, req.UserID, "x_"+identity.UserID)
	if err != nil {
		return nil, err
	}
	fillProfile(user, identity.Name, "", identity.Avatar)

	user.SetTarget(&models.ConnectedTarget{
		Platform:       models.PlatformTwitter,
		Connected:      true,
		Username:       identity.Username,
		ProfilePicture: identity.Avatar,
		AccountID:      identity.UserID,
		AccessToken:    identity.AccessToken,
		RefreshToken:   identity.RefreshToken,
		TokenExpiresAt: GetExpiresAt(identity.ExpiresIn),
	})

	if err := s.u.Save(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("x login", "user_id", user.ID, "username", identity.Username)

	return &transfer.XLoginResult{
		User: transfer.LoginUser{
			ID:       user.ID,
			Name:     user.Name,
			Email:    user.Email,
			Username: identity.Username,
			Avatar:   user.Avatar,
		},
		X: transfer.XCredential{
			AccessToken:  identity.AccessToken,
			RefreshToken: identity.RefreshToken,
			ExpiresIn:    identity.ExpiresIn,
			UserID:       identity.UserID,
			Username:     identity.Username,
		},
	}, nil
}

// loadOrCreate returns the existing user to attach a platform to. An unknown
// existingID falls back to the provider derived id.
func (s *authService) loadOrCreate(ctx context.Context, existingID, providerID string) (*models.User, error) {
	for _, id := range []string{existingID, providerID} {
		if id == "" {
			continue
		}
		user, isExist, err := s.u.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if isExist {
			return user, nil
		}
	}
	return &models.User{ID: providerID}, nil
}

func fillProfile(user *models.User, name, email, avatar string) {
	if user.Name == "" {
		user.Name = name
	}
	if user.Email == "" {
		user.Email = email
	}
	if user.Avatar == "" {
		user.Avatar = avatar
	}
}
