package transfer

// PostCreation is the body of POST /api/posts/:userId.
type PostCreation struct {
	Caption         string   `json:"caption"`
	MediaURI        string   `json:"mediaUri"`
	MediaType       string   `json:"mediaType"`
	MediaID         string   `json:"mediaId"`
	Platforms       []string `json:"platforms"`
	FacebookPageIDs []string `json:"facebookPageIds"`
	ScheduledAt     string   `json:"scheduledAt"`
}

type MediaUpload struct {
	URL       string `json:"url"`
	MediaType string `json:"mediaType"`
	Key       string `json:"key"`
}
