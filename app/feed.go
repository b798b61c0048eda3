package app

import (
	"context"

	appDb "github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/model"
)

const DefaultPageSize = 20

// Page is one cursor page of a feed. NextCursor is the id of the last
// returned post and is only set when HasNextPage is true.
type Page struct {
	Posts       []*model.Post `json:"posts"`
	NextCursor  string        `json:"nextCursor,omitempty"`
	HasNextPage bool          `json:"hasNextPage"`
}

type FeedOpts struct {
	Status        model.Status // defaults to StatusPublished
	Limit         int          // defaults to DefaultPageSize
	Cursor        string
	IncludeHidden bool
	SpaceId       string // GetSpacePosts only
}

func emptyPage() *Page {
	return &Page{Posts: []*model.Post{}}
}

// GetUserPosts pages through the viewer's own posts, newest first. The
// author bypass means admin-only and space-less posts are all included.
func GetUserPosts(ctx context.Context, database appDb.Database, viewer *model.User, opts *FeedOpts) (*Page, error) {
	filters := appendStatusFilter([]appDb.PostFilter{
		appDb.ByAuthor{AuthorId: viewer.Id},
	}, opts)
	page, err := resolvePage(ctx, database, filters, opts)
	if err != nil {
		return nil, err
	}
	page.Posts = makePostsDisplayable(page.Posts, viewer, nil)
	return page, nil
}

// GetSpacePosts pages through the posts of the viewer's spaces. Zero
// memberships short-circuits to an empty page without touching the
// store, as does a requested space the viewer does not belong to.
func GetSpacePosts(ctx context.Context, database appDb.Database, viewer *model.User, opts *FeedOpts) (*Page, error) {
	memberships, err := database.GetMembershipsForUser(ctx, viewer.Id)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return emptyPage(), nil
	}

	spaceIds := make([]string, len(memberships))
	for i, membership := range memberships {
		spaceIds[i] = membership.SpaceId
	}
	if opts.SpaceId != "" {
		if !memberOf(memberships, opts.SpaceId) {
			return emptyPage(), nil
		}
		spaceIds = []string{opts.SpaceId}
	}

	filters := appendStatusFilter([]appDb.PostFilter{
		ScopeFor(viewer, memberships),
		appDb.BySpaces{SpaceIds: spaceIds},
	}, opts)
	page, err := resolvePage(ctx, database, filters, opts)
	if err != nil {
		return nil, err
	}
	page.Posts = makePostsDisplayable(page.Posts, viewer, memberships)
	return page, nil
}

// GetAllPosts is the privileged variant. The super-admin flag is
// re-fetched from the store rather than trusted from the caller, and a
// non-super-admin gets an empty page instead of an authorization error
// so the privileged branch never advertises itself.
func GetAllPosts(ctx context.Context, database appDb.Database, userId string, opts *FeedOpts) (*Page, error) {
	user, err := database.GetUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsSuperAdmin {
		return emptyPage(), nil
	}
	page, err := resolvePage(ctx, database, nil, opts)
	if err != nil {
		return nil, err
	}
	page.Posts = makePostsDisplayable(page.Posts, user, nil)
	return page, nil
}

func appendStatusFilter(filters []appDb.PostFilter, opts *FeedOpts) []appDb.PostFilter {
	if opts.IncludeHidden {
		return filters
	}
	status := opts.Status
	if status == "" {
		status = model.StatusPublished
	}
	return append(filters, appDb.ByStatus{Status: status})
}

func memberOf(memberships []*model.Membership, spaceId string) bool {
	for _, membership := range memberships {
		if membership.SpaceId == spaceId {
			return true
		}
	}
	return false
}

// resolvePage fetches limit+1 rows ordered by created-at descending and
// derives the next-page marker from the overflow. An unknown or
// malformed cursor is ignored and yields the first page.
func resolvePage(ctx context.Context, database appDb.Database, filters []appDb.PostFilter, opts *FeedOpts) (*Page, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	query := &appDb.PostListQuery{
		Filters: filters,
		Sorts:   []appDb.PostSort{{Field: appDb.SortByCreatedAt, Desc: true}},
		Limit:   limit + 1,
	}
	if opts.Cursor != "" {
		cursorPost, err := database.GetPostById(ctx, opts.Cursor)
		if err != nil {
			return nil, err
		}
		if cursorPost != nil {
			from := cursorPost.CreatedAt
			query.From = &from
			query.LastId = cursorPost.Id
		}
	}

	posts, err := database.GetPosts(ctx, query)
	if err != nil {
		return nil, err
	}
	page := &Page{Posts: posts}
	if len(posts) > limit {
		page.Posts = posts[:limit]
		page.NextCursor = posts[limit-1].Id
		page.HasNextPage = true
	}
	if page.Posts == nil {
		page.Posts = []*model.Post{}
	}
	return page, nil
}
