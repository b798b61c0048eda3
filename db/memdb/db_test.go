package memdb

import (
	"context"
	"testing"

	appDb "github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, store *MemDB, req *appDb.CreatePost) string {
	if req.Title == "" {
		req.Title = "report"
	}
	id, err := store.CreatePost(context.Background(), req)
	require.NoError(t, err)
	return id
}

func listIds(t *testing.T, store *MemDB, query *appDb.PostListQuery) []string {
	posts, err := store.GetPosts(context.Background(), query)
	require.NoError(t, err)
	ids := make([]string, len(posts))
	for i, post := range posts {
		ids[i] = post.Id
	}
	return ids
}

func TestMarkPostAsDeleted(t *testing.T) {
	store := New()
	ctx := context.Background()
	id := createPost(t, store, &appDb.CreatePost{AuthorId: "author", Description: "what happened"})

	post, err := store.GetPostById(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "what happened", post.Description)

	require.NoError(t, store.MarkPostAsDeleted(ctx, id))

	post, err = store.GetPostById(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, post)
	assert.Empty(t, listIds(t, store, &appDb.PostListQuery{}))
}

func TestGetPosts_SeveritySort(t *testing.T) {
	store := New()
	low := createPost(t, store, &appDb.CreatePost{AuthorId: "author", Severity: model.SeverityLow})
	veryHigh := createPost(t, store, &appDb.CreatePost{AuthorId: "author", Severity: model.SeverityVeryHigh})
	medium := createPost(t, store, &appDb.CreatePost{AuthorId: "author", Severity: model.SeverityMedium})

	ids := listIds(t, store, &appDb.PostListQuery{
		Sorts: []appDb.PostSort{{Field: appDb.SortBySeverity, Desc: true}},
	})
	assert.Equal(t, []string{veryHigh, medium, low}, ids)
}

func TestGetPosts_StatusFilter(t *testing.T) {
	store := New()
	ctx := context.Background()
	published := createPost(t, store, &appDb.CreatePost{AuthorId: "author"})
	hidden := createPost(t, store, &appDb.CreatePost{AuthorId: "author"})
	require.NoError(t, store.SetPostStatus(ctx, hidden, model.StatusHidden))

	ids := listIds(t, store, &appDb.PostListQuery{
		Filters: []appDb.PostFilter{appDb.ByStatus{Status: model.StatusPublished}},
	})
	assert.Equal(t, []string{published}, ids)

	ids = listIds(t, store, &appDb.PostListQuery{
		Filters: []appDb.PostFilter{appDb.ByStatus{Status: model.StatusHidden}},
	})
	assert.Equal(t, []string{hidden}, ids)
}

func TestGetPosts_VisibleToClause(t *testing.T) {
	store := New()
	public := createPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: "s1"})
	adminOnly := createPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: "s1", IsAdminOnly: true})
	elsewhere := createPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: "s2"})
	own := createPost(t, store, &appDb.CreatePost{AuthorId: "viewer"})

	ids := listIds(t, store, &appDb.PostListQuery{
		Filters: []appDb.PostFilter{appDb.VisibleTo{
			ViewerId:       "viewer",
			MemberSpaceIds: []string{"s1"},
		}},
	})
	assert.ElementsMatch(t, []string{public, own}, ids)

	ids = listIds(t, store, &appDb.PostListQuery{
		Filters: []appDb.PostFilter{appDb.VisibleTo{
			ViewerId:       "viewer",
			MemberSpaceIds: []string{"s1"},
			AdminSpaceIds:  []string{"s1"},
		}},
	})
	assert.ElementsMatch(t, []string{public, adminOnly, own}, ids)

	ids = listIds(t, store, &appDb.PostListQuery{
		Filters: []appDb.PostFilter{appDb.VisibleTo{ViewerId: "viewer", SuperAdmin: true}},
	})
	assert.ElementsMatch(t, []string{public, adminOnly, elsewhere, own}, ids)
}

func TestSearchEntities(t *testing.T) {
	store := New()
	ctx := context.Background()

	byName, err := store.CreateEntity(ctx, &appDb.CreateEntity{Name: "Acme Movers"})
	require.NoError(t, err)
	byHandle, err := store.CreateEntity(ctx, &appDb.CreateEntity{
		Name:    "Somebody",
		Handles: []*model.Handle{{Platform: "instagram", Handle: "acme_daily"}},
	})
	require.NoError(t, err)
	_, err = store.CreateEntity(ctx, &appDb.CreateEntity{Name: "Unrelated"})
	require.NoError(t, err)

	entities, err := store.SearchEntities(ctx, "ACME")
	require.NoError(t, err)
	ids := make([]string, len(entities))
	for i, entity := range entities {
		ids[i] = entity.Id
	}
	assert.ElementsMatch(t, []string{byName, byHandle}, ids)
}

func TestMembershipUpsert(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.AddMember(ctx, &model.Membership{UserId: "u1", SpaceId: "s1", Role: model.RoleMember}))
	require.NoError(t, store.AddMember(ctx, &model.Membership{UserId: "u1", SpaceId: "s1", Role: model.RoleModerator}))

	memberships, err := store.GetMembershipsForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, model.Role(model.RoleModerator), memberships[0].Role)

	require.NoError(t, store.RemoveMember(ctx, "u1", "s1"))
	memberships, err = store.GetMembershipsForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, memberships)
}
