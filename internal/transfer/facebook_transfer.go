package transfer

type FacebookTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type FacebookPicture struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

type FacebookUserResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Picture *FacebookPicture `json:"picture"`
}

type FacebookPagesResponse struct {
	Data []struct {
		ID          string           `json:"id"`
		Name        string           `json:"name"`
		AccessToken string           `json:"access_token"`
		Picture     *FacebookPicture `json:"picture"`
	} `json:"data"`
}

type FacebookPublishResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

func (p *FacebookPicture) URL() string {
	if p == nil {
		return ""
	}
	return p.Data.URL
}
