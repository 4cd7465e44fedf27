package transfer

type FacebookPublishRequest struct {
	PageID          string `json:"pageId"`
	PageAccessToken string `json:"pageAccessToken"`
	Message         string `json:"message"`
	MediaURL        string `json:"mediaUrl,omitempty"`
}

type InstagramPublishRequest struct {
	InstagramAccountID string `json:"instagramAccountId"`
	PageAccessToken    string `json:"pageAccessToken"`
	Caption            string `json:"caption"`
	MediaURL           string `json:"mediaUrl"`
}

type XPublishRequest struct {
	AccessToken string `json:"accessToken"`
	Text        string `json:"text"`
	MediaID     string `json:"mediaId,omitempty"`
}

type PublishResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"postId"`
}
