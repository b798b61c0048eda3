package db

import (
	"context"
	"time"

	"github.com/Hillsrion/safespace-sub000/model"
)

type Database interface {
	PostDatabase
	SpaceDatabase
	UserDatabase
	EntityDatabase
	Close() error
}

type CreateMedia struct {
	BlobName string
}

type CreatePost struct {
	AuthorId     string
	CreatorAlias string // shown instead of the author when Anonymous
	Anonymous    bool
	SpaceId      string // empty for author-only posts
	EntityId     string
	Title        string
	Description  string
	Severity     model.Severity // empty when the reporter did not rate it
	IsAdminOnly  bool
	Media        []*CreateMedia
}

type CreateEntity struct {
	Name    string
	Handles []*model.Handle
}

// PostListQuery is assembled by the app layer. Filters are conjoined;
// an absent filter contributes no clause. From/LastId carry the
// (created_at, id) keyset of the cursor post and only apply to the
// created-at-descending feed ordering. Limit of 0 means no limit.
type PostListQuery struct {
	Filters []PostFilter
	Sorts   []PostSort
	From    *time.Time
	LastId  string
	Limit   int
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (postId string, err error)
	GetPostById(ctx context.Context, id string) (*model.Post, error)
	GetPosts(ctx context.Context, query *PostListQuery) ([]*model.Post, error)
	SetPostStatus(ctx context.Context, id string, status model.Status) error
	MarkPostAsDeleted(ctx context.Context, id string) error
}

type SpaceDatabase interface {
	CreateSpace(ctx context.Context, name string) (spaceId string, err error)
	// GetSpacesByIds gets spaces. nil ids gets all spaces
	GetSpacesByIds(ctx context.Context, ids []string) ([]*model.Space, error)
	GetSpacesForUser(ctx context.Context, userId string) ([]*model.Space, error)
	AddMember(ctx context.Context, membership *model.Membership) error
	RemoveMember(ctx context.Context, userId, spaceId string) error
	GetMembershipsForUser(ctx context.Context, userId string) ([]*model.Membership, error)
}

type UserDatabase interface {
	CreateUser(context.Context, *model.User) error
	GetUser(context.Context, string) (*model.User, error)
}

type EntityDatabase interface {
	CreateEntity(ctx context.Context, req *CreateEntity) (entityId string, err error)
	GetEntityById(ctx context.Context, id string) (*model.ReportedEntity, error)
	SearchEntities(ctx context.Context, term string) ([]*model.ReportedEntity, error)
}
