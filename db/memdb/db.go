// Package memdb implements db.Database in memory. It backs the test
// suites and mirrors the visibility, filter, and ordering semantics of
// the mysql adapter.
package memdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	appDb "github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/Hillsrion/safespace-sub000/util"
	"github.com/google/uuid"
)

type storedPost struct {
	id           string
	authorId     string
	creatorAlias string
	anonymous    bool
	spaceId      string
	entityId     string
	title        string
	description  string
	severity     model.Severity
	isAdminOnly  bool
	status       model.Status
	media        []string
	createdAt    time.Time
	updatedAt    time.Time
}

type MemDB struct {
	mu          sync.RWMutex
	users       map[string]*model.User
	spaces      map[string]*model.Space
	memberships map[string][]*model.Membership
	posts       map[string]*storedPost
	entities    map[string]*model.ReportedEntity
	seq         int
	epoch       time.Time
}

func New() *MemDB {
	return &MemDB{
		users:       make(map[string]*model.User),
		spaces:      make(map[string]*model.Space),
		memberships: make(map[string][]*model.Membership),
		posts:       make(map[string]*storedPost),
		entities:    make(map[string]*model.ReportedEntity),
		epoch:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (mdb *MemDB) Close() error {
	return nil
}

// nextTime hands out strictly increasing timestamps so created-at
// ordering is deterministic under test.
func (mdb *MemDB) nextTime() time.Time {
	mdb.seq++
	return mdb.epoch.Add(time.Duration(mdb.seq) * time.Second)
}

// === posts ===

func (mdb *MemDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (string, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	now := mdb.nextTime()
	post := &storedPost{
		id:           uuid.NewString(),
		authorId:     req.AuthorId,
		creatorAlias: req.CreatorAlias,
		anonymous:    req.Anonymous,
		spaceId:      req.SpaceId,
		entityId:     req.EntityId,
		title:        req.Title,
		description:  req.Description,
		severity:     req.Severity,
		isAdminOnly:  req.IsAdminOnly,
		status:       model.StatusPublished,
		createdAt:    now,
		updatedAt:    now,
	}
	for _, media := range req.Media {
		post.media = append(post.media, media.BlobName)
	}
	mdb.posts[post.id] = post
	return post.id, nil
}

func (mdb *MemDB) GetPostById(ctx context.Context, id string) (*model.Post, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	post, ok := mdb.posts[id]
	if !ok || post.status == model.StatusDeleted {
		return nil, nil
	}
	return mdb.toModel(post), nil
}

func (mdb *MemDB) GetPosts(ctx context.Context, query *appDb.PostListQuery) ([]*model.Post, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	var matched []*storedPost
	for _, post := range mdb.posts {
		if post.status == model.StatusDeleted {
			continue
		}
		if query.From != nil {
			if !post.createdAt.Before(*query.From) &&
				!(post.createdAt.Equal(*query.From) && post.id < query.LastId) {
				continue
			}
		}
		if !matchesAll(post, query.Filters) {
			continue
		}
		matched = append(matched, post)
	}

	sortPosts(matched, query.Sorts)
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}

	posts := make([]*model.Post, len(matched))
	for i, post := range matched {
		posts[i] = mdb.toModel(post)
	}
	return posts, nil
}

func matchesAll(post *storedPost, filters []appDb.PostFilter) bool {
	for _, filter := range filters {
		if !matches(post, filter) {
			return false
		}
	}
	return true
}

// matches evaluates one filter variant. The switch is exhaustive over
// db.PostFilter, mirroring the mysql translation.
func matches(post *storedPost, filter appDb.PostFilter) bool {
	switch f := filter.(type) {
	case appDb.ByAuthor:
		return post.authorId == f.AuthorId
	case appDb.BySpaces:
		return containsString(f.SpaceIds, post.spaceId)
	case appDb.BySeverity:
		return post.severity == f.Severity
	case appDb.ByStatus:
		return post.status == f.Status
	case appDb.ByEntity:
		return post.entityId == f.EntityId
	case appDb.Search:
		term := strings.ToLower(f.Term)
		return strings.Contains(strings.ToLower(post.title), term) ||
			strings.Contains(strings.ToLower(post.description), term)
	case appDb.VisibleTo:
		if f.SuperAdmin || post.authorId == f.ViewerId {
			return true
		}
		if containsString(f.MemberSpaceIds, post.spaceId) && !post.isAdminOnly {
			return true
		}
		return containsString(f.AdminSpaceIds, post.spaceId)
	}
	panic(fmt.Sprintf("unhandled post filter %T", filter))
}

func containsString(haystack []string, needle string) bool {
	if needle == "" {
		return false
	}
	for _, val := range haystack {
		if val == needle {
			return true
		}
	}
	return false
}

func sortPosts(posts []*storedPost, sorts []appDb.PostSort) {
	keys := sorts
	if len(keys) == 0 {
		keys = []appDb.PostSort{{Field: appDb.SortByCreatedAt, Desc: true}}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		for _, key := range keys {
			cmp := compareBy(posts[i], posts[j], key.Field)
			if cmp == 0 {
				continue
			}
			if key.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		// id desc tie-break, as in the mysql adapter
		return posts[i].id > posts[j].id
	})
}

func compareBy(a, b *storedPost, field appDb.PostSortField) int {
	switch field {
	case appDb.SortBySeverity:
		return a.severity.Rank() - b.severity.Rank()
	case appDb.SortByTitle:
		return strings.Compare(strings.ToLower(a.title), strings.ToLower(b.title))
	case appDb.SortBySpace:
		return strings.Compare(a.spaceId, b.spaceId)
	default:
		if a.createdAt.Before(b.createdAt) {
			return -1
		}
		if a.createdAt.After(b.createdAt) {
			return 1
		}
		return 0
	}
}

func (mdb *MemDB) toModel(post *storedPost) *model.Post {
	author := &model.User{Id: post.authorId}
	if user, ok := mdb.users[post.authorId]; ok {
		copied := *user
		author = &copied
	}

	var space *model.Space
	if stored, ok := mdb.spaces[post.spaceId]; ok {
		copied := *stored
		space = &copied
	}

	media := make([]*model.Media, len(post.media))
	for i, blobName := range post.media {
		media[i] = &model.Media{BlobName: blobName}
	}

	return &model.Post{
		Id: post.id,
		Author: &model.DisplayableUser{
			User: author,
			AnonymousUser: &model.AnonymousUser{
				DisplayName: post.creatorAlias,
				Avatar:      util.Avatar(post.creatorAlias),
			},
		},
		AuthorId:    post.authorId,
		Anonymous:   post.anonymous,
		Space:       space,
		SpaceId:     post.spaceId,
		EntityId:    post.entityId,
		Title:       post.title,
		Description: post.description,
		Status:      post.status,
		IsAdminOnly: post.isAdminOnly,
		Severity:    post.severity,
		Media:       media,
		CreatedAt:   post.createdAt,
		UpdatedAt:   post.updatedAt,
	}
}

func (mdb *MemDB) SetPostStatus(ctx context.Context, id string, status model.Status) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	post, ok := mdb.posts[id]
	if !ok {
		return fmt.Errorf("post %v not found", id)
	}
	post.status = status
	post.updatedAt = mdb.nextTime()
	return nil
}

func (mdb *MemDB) MarkPostAsDeleted(ctx context.Context, id string) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	post, ok := mdb.posts[id]
	if !ok {
		return fmt.Errorf("post %v not found", id)
	}
	post.status = model.StatusDeleted
	post.description = ""
	post.updatedAt = mdb.nextTime()
	return nil
}

// === spaces and memberships ===

func (mdb *MemDB) CreateSpace(ctx context.Context, name string) (string, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	space := &model.Space{Id: uuid.NewString(), Name: name}
	mdb.spaces[space.Id] = space
	return space.Id, nil
}

// GetSpacesByIds gets spaces. nil ids gets all spaces
func (mdb *MemDB) GetSpacesByIds(ctx context.Context, ids []string) ([]*model.Space, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	var spaces []*model.Space
	if ids == nil {
		for _, space := range mdb.spaces {
			copied := *space
			spaces = append(spaces, &copied)
		}
		return spaces, nil
	}
	for _, id := range ids {
		if space, ok := mdb.spaces[id]; ok {
			copied := *space
			spaces = append(spaces, &copied)
		}
	}
	return spaces, nil
}

func (mdb *MemDB) GetSpacesForUser(ctx context.Context, userId string) ([]*model.Space, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	var spaces []*model.Space
	for _, membership := range mdb.memberships[userId] {
		if space, ok := mdb.spaces[membership.SpaceId]; ok {
			copied := *space
			spaces = append(spaces, &copied)
		}
	}
	return spaces, nil
}

func (mdb *MemDB) AddMember(ctx context.Context, membership *model.Membership) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	existing := mdb.memberships[membership.UserId]
	for i, current := range existing {
		if current.SpaceId == membership.SpaceId {
			existing[i] = membership
			return nil
		}
	}
	mdb.memberships[membership.UserId] = append(existing, membership)
	return nil
}

func (mdb *MemDB) RemoveMember(ctx context.Context, userId, spaceId string) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	memberships := mdb.memberships[userId]
	for i, membership := range memberships {
		if membership.SpaceId == spaceId {
			mdb.memberships[userId] = append(memberships[:i], memberships[i+1:]...)
			return nil
		}
	}
	return nil
}

func (mdb *MemDB) GetMembershipsForUser(ctx context.Context, userId string) ([]*model.Membership, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	memberships := make([]*model.Membership, len(mdb.memberships[userId]))
	copy(memberships, mdb.memberships[userId])
	return memberships, nil
}

// === users ===

func (mdb *MemDB) CreateUser(ctx context.Context, user *model.User) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	copied := *user
	mdb.users[user.Id] = &copied
	return nil
}

func (mdb *MemDB) GetUser(ctx context.Context, id string) (*model.User, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	user, ok := mdb.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

// === reported entities ===

func (mdb *MemDB) CreateEntity(ctx context.Context, req *appDb.CreateEntity) (string, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	entity := &model.ReportedEntity{
		Id:      uuid.NewString(),
		Name:    req.Name,
		Handles: append([]*model.Handle{}, req.Handles...),
	}
	mdb.entities[entity.Id] = entity
	return entity.Id, nil
}

func (mdb *MemDB) GetEntityById(ctx context.Context, id string) (*model.ReportedEntity, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	entity, ok := mdb.entities[id]
	if !ok {
		return nil, nil
	}
	copied := *entity
	return &copied, nil
}

func (mdb *MemDB) SearchEntities(ctx context.Context, term string) ([]*model.ReportedEntity, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	needle := strings.ToLower(term)
	var entities []*model.ReportedEntity
	for _, entity := range mdb.entities {
		if entityMatches(entity, needle) {
			copied := *entity
			entities = append(entities, &copied)
		}
	}
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Name < entities[j].Name
	})
	return entities, nil
}

func entityMatches(entity *model.ReportedEntity, needle string) bool {
	if strings.Contains(strings.ToLower(entity.Name), needle) {
		return true
	}
	for _, handle := range entity.Handles {
		if strings.Contains(strings.ToLower(handle.Handle), needle) {
			return true
		}
	}
	return false
}
