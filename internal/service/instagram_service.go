package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	config "github.com/maheshrc27/multipost-api/configs"
	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/transfer"
)

type InstagramService interface {
	PlatformAdapter
}

type instagramService struct {
	cfg    config.Config
	client *http.Client
	// wait sleeps between container creation and publishing.
	wait func(ctx context.Context, d time.Duration) error
}

func NewInstagramService(cfg config.Config, client *http.Client) InstagramService {
	if client == nil {
		client = http.DefaultClient
	}
	return &instagramService{
		cfg:    cfg,
		client: client,
		wait:   sleepContext,
	}
}

func (ig *instagramService) Platform() models.Platform {
	return models.PlatformInstagram
}

// Publish creates a media container and then publishes it. Processing on the
// Instagram side is asynchronous; the fixed delay between the two calls is a
// heuristic, the container status is not polled. A container whose publish
// step fails is left behind.
func (ig *instagramService) Publish(ctx context.Context, target *PublishTarget, content *PublishContent) (string, error) {
	if content.MediaURL == "" {
		return "", &PreconditionError{Platform: models.PlatformInstagram, Message: "Instagram requires a media URL"}
	}
	if target.AccountID == "" || target.AccessToken == "" {
		return "", &PreconditionError{Platform: models.PlatformInstagram, Message: "Missing Instagram account credentials"}
	}

	containerID, err := ig.createContainer(ctx, target, content)
	if err != nil {
		return "", err
	}

	if err := ig.wait(ctx, ig.cfg.InstagramPublishDelay); err != nil {
		return "", fmt.Errorf("waiting for media container %s: %w", containerID, err)
	}

	return ig.publishContainer(ctx, target, containerID)
}

func (ig *instagramService) createContainer(ctx context.Context, target *PublishTarget, content *PublishContent) (string, error) {
	payload := map[string]string{
		"image_url":    content.MediaURL,
		"caption":      content.Caption,
		"access_token": target.AccessToken,
	}

	var result transfer.InstagramContainerResponse
	err := apiRequest{
		platform: models.PlatformInstagram,
		op:       "create media container",
		method:   http.MethodPost,
		url:      fmt.Sprintf("%s/%s/media", ig.cfg.GraphAPIURL, target.AccountID),
		payload:  payload,
	}.do(ctx, ig.client, &result)
	if err != nil {
		return "", err
	}

	if result.ID == "" {
		return "", errors.New("no media ID returned from Instagram")
	}
	return result.ID, nil
}

func (ig *instagramService) publishContainer(ctx context.Context, target *PublishTarget, containerID string) (string, error) {
	payload := map[string]string{
		"creation_id":  containerID,
		"access_token": target.AccessToken,
	}

	var result transfer.InstagramPublishResponse
	err := apiRequest{
		platform: models.PlatformInstagram,
		op:       "media publish",
		method:   http.MethodPost,
		url:      fmt.Sprintf("%s/%s/media_publish", ig.cfg.GraphAPIURL, target.AccountID),
		payload:  payload,
	}.do(ctx, ig.client, &result)
	if err != nil {
		slog.Info("abandoning media container", "container_id", containerID)
		return "", err
	}

	if result.ID == "" {
		return "", errors.New("no post ID returned from Instagram")
	}
	return result.ID, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
