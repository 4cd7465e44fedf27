package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	config "github.com/maheshrc27/multipost-api/configs"
	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ObjectStore is the subset of the S3 client media uploads need.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// allowedMedia maps sniffed extensions to the media kind stored on drafts.
var allowedMedia = map[string]models.MediaType{
	"jpg": models.MediaTypeImage,
	"png": models.MediaTypeImage,
	"mp4": models.MediaTypeVideo,
	"mov": models.MediaTypeVideo,
}

type MediaService interface {
	Enabled() bool
	Upload(ctx context.Context, ownerID string, file []byte) (*transfer.MediaUpload, error)
}

type mediaService struct {
	cfg   config.Config
	store ObjectStore
}

// NewMediaService uploads to store; a nil store means media is disabled.
func NewMediaService(cfg config.Config, store ObjectStore) MediaService {
	return &mediaService{cfg: cfg, store: store}
}

// NewR2Client builds an S3 client pointed at Cloudflare R2.
func NewR2Client(ctx context.Context, r2 config.R2) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2.AccessKey, r2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	}), nil
}

func (s *mediaService) Enabled() bool {
	return s.store != nil
}

// Upload sniffs the file type, stores the bytes under a fresh key and returns
// the public URL platforms will fetch the media from.
func (s *mediaService) Upload(ctx context.Context, ownerID string, file []byte) (*transfer.MediaUpload, error) {
	if !s.Enabled() {
		return nil, ErrMediaDisabled
	}
	if len(file) == 0 {
		return nil, NewValidationError("file", "file is empty")
	}

	kind, err := filetype.Match(file)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	mediaType, ok := allowedMedia[kind.Extension]
	if !ok {
		slog.Info("rejected upload", "user_id", ownerID, "mime", kind.MIME.Value)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, kind.MIME.Value)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s/%s.%s", ownerID, id, kind.Extension)

	_, err = s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(kind.MIME.Value),
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &transfer.MediaUpload{
		URL:       strings.TrimRight(s.cfg.R2.PublicURL, "/") + "/" + key,
		MediaType: string(mediaType),
		Key:       key,
	}, nil
}
