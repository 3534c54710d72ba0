package domain

import "time"

// ResourceKind classifies a catalog entry.
type ResourceKind string

const (
	// ResourceKindModel is an embedded 3D anatomy model backed by an object
	// stored in the asset bucket.
	ResourceKindModel ResourceKind = "model"
	// ResourceKindTool is an interactive page served by the frontend.
	ResourceKindTool ResourceKind = "tool"
	// ResourceKindLink is an external learning resource.
	ResourceKindLink ResourceKind = "link"
)

// Resource is one entry of the learning catalog shown on the dashboard.
type Resource struct {
	ID          int64
	Slug        string
	Title       string
	Description string
	Kind        ResourceKind
	// ModelKey is the object-store key of the .glb asset for model resources.
	ModelKey  string
	EmbedURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
