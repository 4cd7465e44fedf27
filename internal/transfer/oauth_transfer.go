package transfer

import "github.com/maheshrc27/multipost-api/internal/models"

type FacebookTokenRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
	UserID      string `json:"userId,omitempty"`
}

type XTokenRequest struct {
	Code         string `json:"code"`
	RedirectURI  string `json:"redirectUri"`
	CodeVerifier string `json:"codeVerifier"`
	UserID       string `json:"userId,omitempty"`
}

type LoginUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type FacebookPage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"accessToken"`
	Picture     string `json:"picture,omitempty"`
}

type FacebookCredential struct {
	AccessToken string         `json:"accessToken"`
	ExpiresIn   int64          `json:"expiresIn"`
	UserID      string         `json:"userId"`
	Pages       []FacebookPage `json:"pages"`
}

type InstagramIdentity struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	PageID          string `json:"pageId"`
	PageAccessToken string `json:"pageAccessToken"`
}

type FacebookLoginResult struct {
	User         LoginUser          `json:"user"`
	Facebook     FacebookCredential `json:"facebook"`
	Instagram    *InstagramIdentity `json:"instagram"`
	SessionToken string             `json:"sessionToken,omitempty"`
}

type XCredential struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
}

type XLoginResult struct {
	User         LoginUser   `json:"user"`
	X            XCredential `json:"x"`
	SessionToken string      `json:"sessionToken,omitempty"`
}

// FacebookProviderConfig and XProviderConfig serialise an unset id as null.
type FacebookProviderConfig struct {
	Configured bool    `json:"configured"`
	AppID      *string `json:"appId"`
}

type XProviderConfig struct {
	Configured bool    `json:"configured"`
	ClientID   *string `json:"clientId"`
}

type OAuthConfig struct {
	Facebook FacebookProviderConfig `json:"facebook"`
	X        XProviderConfig        `json:"x"`
}

// PagesFromModel converts stored pages into the exchange response shape, which
// is the only place page tokens are handed to the client.
func PagesFromModel(pages []models.Page) []FacebookPage {
	out := make([]FacebookPage, 0, len(pages))
	for _, p := range pages {
		out = append(out, FacebookPage{
			ID:          p.ID,
			Name:        p.Name,
			AccessToken: p.AccessToken,
			Picture:     p.Picture,
		})
	}
	return out
}
