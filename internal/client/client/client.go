package client

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Submit(ctx context.Context, kind models.Kind, p *models.Payload) error
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
	RequestAvatarUpload(ctx context.Context, contentType string) (key string, url string, err error)
}
