package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"aspiro-server/internal/domain"
	"aspiro-server/internal/repository"
	"aspiro-server/internal/storage"
)

// ErrStorageDisabled is returned for model asset operations when no object
// storage bucket was configured at startup.
var ErrStorageDisabled = errors.New("storage service not configured")

// ResourceService serves the learning catalog and its model assets.
type ResourceService interface {
	ListResources(ctx context.Context) ([]domain.Resource, error)
	GetResource(ctx context.Context, slug string) (*domain.Resource, error)
	ModelURL(ctx context.Context, slug string) (string, error)
	UploadModel(ctx context.Context, slug, contentType string, body io.Reader) (string, error)
}

type resourceService struct {
	resources repository.ResourceRepository
	storage   storage.Service
	bucket    string
	keyPrefix string
	urlTTL    time.Duration
}

func NewResourceService(resources repository.ResourceRepository, store storage.Service, bucket, keyPrefix string, urlTTL time.Duration) ResourceService {
	return &resourceService{
		resources: resources,
		storage:   store,
		bucket:    bucket,
		keyPrefix: keyPrefix,
		urlTTL:    urlTTL,
	}
}

func (s *resourceService) ListResources(ctx context.Context) ([]domain.Resource, error) {
	return s.resources.List(ctx)
}

func (s *resourceService) GetResource(ctx context.Context, slug string) (*domain.Resource, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: resource slug is required", domain.ErrInvalidInput)
	}
	return s.resources.GetBySlug(ctx, slug)
}

// ModelURL returns a time-limited URL for the resource's model asset, suitable
// for a <model-viewer> src attribute.
func (s *resourceService) ModelURL(ctx context.Context, slug string) (string, error) {
	if s.storage == nil || s.bucket == "" {
		return "", ErrStorageDisabled
	}

	res, err := s.resources.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if res.Kind != domain.ResourceKindModel || res.ModelKey == "" {
		return "", domain.ErrNotFound
	}

	return s.storage.PresignGet(ctx, s.bucket, res.ModelKey, s.urlTTL)
}

func (s *resourceService) UploadModel(ctx context.Context, slug, contentType string, body io.Reader) (string, error) {
	if s.storage == nil || s.bucket == "" {
		return "", ErrStorageDisabled
	}

	res, err := s.resources.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if res.Kind != domain.ResourceKindModel {
		return "", fmt.Errorf("%w: resource %s does not take a model asset", domain.ErrInvalidInput, slug)
	}

	key := path.Join(s.keyPrefix, slug+".glb")
	if _, err := s.storage.Upload(ctx, s.bucket, key, contentType, body); err != nil {
		return "", err
	}

	if err := s.resources.SetModelKey(ctx, slug, key); err != nil {
		return "", err
	}
	return key, nil
}

// DefaultCatalog is the seed content for a fresh install: the anatomy models
// and tools the frontend dashboard links to.
func DefaultCatalog() []domain.Resource {
	return []domain.Resource{
		{
			Slug:        "heart",
			Title:       "Heart",
			Description: "Explore the chambers and vessels of the human heart in 3D.",
			Kind:        domain.ResourceKindModel,
		},
		{
			Slug:        "plant",
			Title:       "Plant",
			Description: "Interactive plant cell and structure model.",
			Kind:        domain.ResourceKindModel,
		},
		{
			Slug:        "digestive-system",
			Title:       "Digestive System",
			Description: "Follow the digestive tract from end to end.",
			Kind:        domain.ResourceKindModel,
		},
		{
			Slug:        "micro-scope",
			Title:       "Micro Scope",
			Description: "Microscopic structures up close.",
			Kind:        domain.ResourceKindModel,
		},
		{
			Slug:        "health-monitor",
			Title:       "Health Monitor",
			Description: "Track vitals and visualize them over time.",
			Kind:        domain.ResourceKindTool,
			EmbedURL:    "/health-monitor",
		},
		{
			Slug:        "learning-resources",
			Title:       "Learning Resources",
			Description: "Curated external reading and reference material.",
			Kind:        domain.ResourceKindLink,
			EmbedURL:    "/learning-resources",
		},
	}
}
