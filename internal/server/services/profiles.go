package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	sc "github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const DefaultCurrency = "USD"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

type ProfileService struct {
	db     dbx.DBTX
	repos  repomanager.RepositoryManager
	config *sc.Config
}

func NewProfileService(db dbx.DBTX, repos repomanager.RepositoryManager, config *sc.Config) *ProfileService {
	return &ProfileService{db: db, repos: repos, config: config}
}

// Get returns the user's profile or nil when there is none.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.repos.Profiles(s.db).Get(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return p, err
}

// Update replaces the user's profile. An empty currency keeps the stored
// one, or DefaultCurrency for a new profile.
func (s *ProfileService) Update(ctx context.Context, userID string, in models.ProfileInput) (*models.Profile, error) {
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency != "" && len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", common.ErrorValidation)
	}
	if currency == "" {
		currency = DefaultCurrency
		existing, err := s.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Currency != "" {
			currency = existing.Currency
		}
	}

	p := &models.Profile{
		UserID:      userID,
		DisplayName: in.DisplayName,
		AvatarURL:   in.AvatarURL,
		Currency:    currency,
	}
	if err := s.repos.Profiles(s.db).Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AvatarKey returns a fresh object key under the user's prefix.
func AvatarKey(userID string) string {
	return fmt.Sprintf("avatars/%s/%v", userID, uuid.New())
}

func (s *ProfileService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// AvatarUploadURL presigns a PUT for a new avatar object. The client
// uploads to url and then saves key as the profile's avatarUrl.
func (s *ProfileService) AvatarUploadURL(ctx context.Context, userID, contentType string) (key, url string, err error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("%w: avatar must be an image", common.ErrorValidation)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key = AvatarKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}
