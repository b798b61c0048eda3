package app

import (
	"context"
	"testing"

	appDb "github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/db/memdb"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterPosts_EmptyRequestIsRoleScopedOnly(t *testing.T) {
	store := memdb.New()
	viewer := seedUser(t, store, "viewer", false)
	spaceA := seedSpace(t, store, "space a")
	spaceB := seedSpace(t, store, "space b")
	spaceC := seedSpace(t, store, "space c")
	seedMember(t, store, viewer.Id, spaceA, model.RoleMember)
	seedMember(t, store, viewer.Id, spaceB, model.RoleModerator)

	visible := seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceA})
	seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceA, IsAdminOnly: true})
	moderated := seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceB, IsAdminOnly: true})
	seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceC})
	own := seedPost(t, store, &appDb.CreatePost{AuthorId: viewer.Id})

	posts, err := FilterPosts(context.Background(), store, viewer, &FilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{own, moderated, visible}, postIds(posts))
}

func TestFilterPosts_FiltersConjoin(t *testing.T) {
	store := memdb.New()
	ctx := context.Background()
	viewer := seedUser(t, store, "viewer", false)
	spaceA := seedSpace(t, store, "space a")
	spaceB := seedSpace(t, store, "space b")
	seedMember(t, store, viewer.Id, spaceA, model.RoleMember)
	seedMember(t, store, viewer.Id, spaceB, model.RoleMember)

	// each misses exactly one of the clauses below
	seedPost(t, store, &appDb.CreatePost{AuthorId: viewer.Id, SpaceId: spaceA, Severity: model.SeverityLow})
	seedPost(t, store, &appDb.CreatePost{AuthorId: "other", SpaceId: spaceA, Severity: model.SeverityHigh})
	seedPost(t, store, &appDb.CreatePost{AuthorId: viewer.Id, Severity: model.SeverityHigh})

	req := &FilterRequest{
		Severity:    model.SeverityHigh,
		SpaceIds:    []string{spaceA, spaceB},
		MyPostsOnly: true,
	}
	posts, err := FilterPosts(ctx, store, viewer, req)
	require.NoError(t, err)
	assert.Equal(t, []*model.Post{}, posts)

	match := seedPost(t, store, &appDb.CreatePost{AuthorId: viewer.Id, SpaceId: spaceA, Severity: model.SeverityHigh})
	posts, err = FilterPosts(ctx, store, viewer, req)
	require.NoError(t, err)
	assert.Equal(t, []string{match}, postIds(posts))
}

func TestFilterPosts_SearchMatchesTitleAndDescription(t *testing.T) {
	store := memdb.New()
	ctx := context.Background()
	viewer := seedUser(t, store, "viewer", false)
	spaceA := seedSpace(t, store, "space a")
	seedMember(t, store, viewer.Id, spaceA, model.RoleMember)

	inTitle := seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceA, Title: "Stalking near campus"})
	inDesc := seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceA, Description: "repeated STALKING incidents"})
	unrelated := seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceA, Title: "lost keys"})

	posts, err := FilterPosts(ctx, store, viewer, &FilterRequest{SearchTerm: "stalk"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{inTitle, inDesc}, postIds(posts))

	// a blank term adds no clause
	posts, err = FilterPosts(ctx, store, viewer, &FilterRequest{SearchTerm: "   "})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{inTitle, inDesc, unrelated}, postIds(posts))
}

func TestFilterPosts_AdminOnlyParamRejected(t *testing.T) {
	store := memdb.New()
	viewer := seedUser(t, store, "viewer", false)

	_, err := FilterPosts(context.Background(), store, viewer, &FilterRequest{AdminOnly: true})
	assert.ErrorIs(t, err, ErrAdminOnlyFilterNotSpecified)
}

func TestFilterPosts_NilViewerIssuesNoQuery(t *testing.T) {
	store := &countingDB{Database: memdb.New()}
	seedPost(t, store, &appDb.CreatePost{AuthorId: "author"})

	posts, err := FilterPosts(context.Background(), store, nil, &FilterRequest{MyPostsOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []*model.Post{}, posts)
	assert.Equal(t, 0, store.getPostsCalls)
}

func TestFilterPosts_GroupBySpaceSortsWithinGroups(t *testing.T) {
	store := memdb.New()
	viewer := seedUser(t, store, "viewer", false)
	spaceA := seedSpace(t, store, "space a")
	spaceB := seedSpace(t, store, "space b")
	seedMember(t, store, viewer.Id, spaceA, model.RoleMember)
	seedMember(t, store, viewer.Id, spaceB, model.RoleMember)

	a1 := seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceA})
	b1 := seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceB})
	a2 := seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceA})
	b2 := seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceB})

	posts, err := FilterPosts(context.Background(), store, viewer, &FilterRequest{
		Sort: SortOptions{OrderBy: OrderByDate, OrderDirection: "asc", GroupBySpace: true},
	})
	require.NoError(t, err)

	// ids are random, so derive which space id groups first
	expected := [][]string{{a1, a2}, {b1, b2}}
	if spaceB < spaceA {
		expected = [][]string{{b1, b2}, {a1, a2}}
	}
	assert.Equal(t, append(expected[0], expected[1]...), postIds(posts))
}

func TestFilterPosts_Idempotent(t *testing.T) {
	store := memdb.New()
	ctx := context.Background()
	viewer := seedUser(t, store, "viewer", false)
	spaceA := seedSpace(t, store, "space a")
	seedMember(t, store, viewer.Id, spaceA, model.RoleMember)
	seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceA, Severity: model.SeverityHigh})
	seedPost(t, store, &appDb.CreatePost{AuthorId: "author", SpaceId: spaceA, Severity: model.SeverityHigh})

	req := &FilterRequest{Severity: model.SeverityHigh, SpaceIds: []string{spaceA}}
	first, err := FilterPosts(ctx, store, viewer, req)
	require.NoError(t, err)
	second, err := FilterPosts(ctx, store, viewer, req)
	require.NoError(t, err)
	assert.Equal(t, postIds(first), postIds(second))
}

func TestBuildSorts(t *testing.T) {
	tests := []struct {
		name string
		opts SortOptions
		want []appDb.PostSort
	}{
		{
			name: "defaults to created at descending",
			opts: SortOptions{},
			want: []appDb.PostSort{{Field: appDb.SortByCreatedAt, Desc: true}},
		},
		{
			name: "duplicate of the fallback collapses",
			opts: SortOptions{OrderBy: OrderByDate, OrderDirection: "asc"},
			want: []appDb.PostSort{{Field: appDb.SortByCreatedAt, Desc: false}},
		},
		{
			name: "severity keeps the fallback",
			opts: SortOptions{OrderBy: OrderBySeverity},
			want: []appDb.PostSort{
				{Field: appDb.SortBySeverity, Desc: true},
				{Field: appDb.SortByCreatedAt, Desc: true},
			},
		},
		{
			name: "space grouping leads",
			opts: SortOptions{OrderBy: OrderByTitle, OrderDirection: "asc", GroupBySpace: true},
			want: []appDb.PostSort{
				{Field: appDb.SortBySpace, Desc: false},
				{Field: appDb.SortByTitle, Desc: false},
				{Field: appDb.SortByCreatedAt, Desc: true},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, buildSorts(&test.opts))
		})
	}
}

func TestParseOrderField(t *testing.T) {
	field, err := ParseOrderField("")
	require.NoError(t, err)
	assert.Equal(t, OrderByDate, field)

	field, err = ParseOrderField("severity")
	require.NoError(t, err)
	assert.Equal(t, OrderField(OrderBySeverity), field)

	_, err = ParseOrderField("karma")
	assert.Error(t, err)
}
