package app

import (
	"context"

	appDb "github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/model"
)

// ScopeFor builds the shared visibility clause for a viewer. The same
// scope backs the space feed, the dashboard filter, and entity-scoped
// post listings.
func ScopeFor(viewer *model.User, memberships []*model.Membership) appDb.VisibleTo {
	scope := appDb.VisibleTo{
		ViewerId:   viewer.Id,
		SuperAdmin: viewer.IsSuperAdmin,
	}
	for _, membership := range memberships {
		scope.MemberSpaceIds = append(scope.MemberSpaceIds, membership.SpaceId)
		if membership.Role.CanModerate() {
			scope.AdminSpaceIds = append(scope.AdminSpaceIds, membership.SpaceId)
		}
	}
	return scope
}

// GetEntityPosts lists the posts attached to a reported entity that the
// viewer may see, newest first. No pagination in this path.
func GetEntityPosts(ctx context.Context, database appDb.Database, viewer *model.User, entityId string) ([]*model.Post, error) {
	if viewer == nil {
		return []*model.Post{}, nil
	}
	memberships, err := database.GetMembershipsForUser(ctx, viewer.Id)
	if err != nil {
		return nil, err
	}
	posts, err := database.GetPosts(ctx, &appDb.PostListQuery{
		Filters: []appDb.PostFilter{
			ScopeFor(viewer, memberships),
			appDb.ByEntity{EntityId: entityId},
		},
		Sorts: []appDb.PostSort{{Field: appDb.SortByCreatedAt, Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	return makePostsDisplayable(posts, viewer, memberships), nil
}

func makePostsDisplayable(posts []*model.Post, viewer *model.User, memberships []*model.Membership) []*model.Post {
	if posts == nil {
		return []*model.Post{}
	}
	rolesBySpace := model.RolesBySpace(memberships)
	for i, post := range posts {
		posts[i] = post.MakeDisplayableFor(viewer, rolesBySpace[post.SpaceId])
	}
	return posts
}
