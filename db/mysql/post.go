package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	appDb "github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/Hillsrion/safespace-sub000/util"
	"github.com/google/uuid"
	"github.com/upper/db/v4"
)

type PostDB struct {
	sess db.Session
}

func getPostDB(sess db.Session) *PostDB {
	return &PostDB{sess}
}

func (pdb *PostDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (string, error) {
	postId := uuid.NewString()
	err := pdb.sess.TxContext(ctx, func(sess db.Session) error {
		_, err := sess.SQL().
			InsertInto("post").
			Columns("id", "author_id", "creator_alias", "anonymous", "space_id", "entity_id",
				"title", "description", "severity", "is_admin_only", "status").
			Values(postId, req.AuthorId, req.CreatorAlias, req.Anonymous, nullable(req.SpaceId), nullable(req.EntityId),
				req.Title, req.Description, nullable(string(req.Severity)), req.IsAdminOnly, model.StatusPublished).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		if len(req.Media) == 0 {
			return nil
		}
		batchInserter := sess.SQL().
			InsertInto("post_media").
			Columns("post_id", "blob_name").
			Batch(len(req.Media))
		for _, media := range req.Media {
			batchInserter.Values(postId, media.BlobName)
		}
		batchInserter.Done()
		return batchInserter.Wait()
	}, nil)
	if err != nil {
		return "", err
	}
	return postId, nil
}

type flattenedPost struct {
	Id                string         `db:"id"`
	AuthorId          string         `db:"author_id"`
	AuthorDisplayName sql.NullString `db:"display_name"`
	AuthorAvatar      sql.NullString `db:"avatar"`
	CreatorAlias      string         `db:"creator_alias"`
	Anonymous         bool           `db:"anonymous"`
	SpaceId           sql.NullString `db:"space_id"`
	SpaceName         sql.NullString `db:"space_name"`
	EntityId          sql.NullString `db:"entity_id"`
	Title             string         `db:"title"`
	Description       string         `db:"description"`
	Severity          sql.NullString `db:"severity"`
	IsAdminOnly       bool           `db:"is_admin_only"`
	Status            model.Status   `db:"status"`
	MediaJSONStr      sql.NullString `db:"media_blob_names"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

var postColumns = []interface{}{
	"p.id",
	"p.author_id",
	"person.display_name",
	"person.avatar",
	"p.creator_alias",
	"p.anonymous",
	"p.space_id",
	"s.name as space_name",
	"p.entity_id",
	"p.title",
	"p.description",
	"p.severity",
	"p.is_admin_only",
	"p.status",
	"p.created_at",
	"p.updated_at",
	db.Raw("JSON_ARRAYAGG(pm.blob_name) as media_blob_names"),
}

func (pdb *PostDB) selectPosts() db.Selector {
	return pdb.sess.SQL().
		Select(postColumns...).
		From("post AS p").
		Join("person").On("p.author_id = person.firebase_id").
		LeftJoin("space AS s").On("p.space_id = s.id").
		LeftJoin("post_media AS pm").On("p.id = pm.post_id")
}

func (pdb *PostDB) GetPostById(ctx context.Context, id string) (*model.Post, error) {
	var post flattenedPost
	if err := pdb.selectPosts().
		Where("p.id = ?", id).
		And("p.status <> ?", model.StatusDeleted).
		GroupBy("p.id", "person.firebase_id", "s.id").
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildPostFromFlattened(&post)
}

func (pdb *PostDB) GetPosts(ctx context.Context, query *appDb.PostListQuery) ([]*model.Post, error) {
	selector := pdb.selectPosts().
		Where("p.status <> ?", model.StatusDeleted)
	for _, filter := range query.Filters {
		conds := filterConds(filter)
		if conds != nil {
			selector = selector.And(conds...)
		}
	}
	if query.From != nil {
		selector = selector.And("(p.created_at < ? OR (p.created_at = ? AND p.id < ?))",
			*query.From, *query.From, query.LastId)
	}
	selector = selector.
		GroupBy("p.id", "person.firebase_id", "s.id").
		OrderBy(orderClauses(query.Sorts)...)
	if query.Limit > 0 {
		selector = selector.Limit(query.Limit)
	}

	var flattenedPosts []flattenedPost
	if err := selector.
		IteratorContext(ctx).
		All(&flattenedPosts); err != nil {
		return nil, err
	}
	posts := make([]*model.Post, len(flattenedPosts))
	for i, flattened := range flattenedPosts {
		post, err := buildPostFromFlattened(&flattened)
		if err != nil {
			return nil, err
		}
		posts[i] = post
	}
	return posts, nil
}

// filterConds translates one filter variant into an upper/db condition.
// The switch is exhaustive over db.PostFilter; nil means no clause.
func filterConds(filter appDb.PostFilter) []interface{} {
	switch f := filter.(type) {
	case appDb.ByAuthor:
		return []interface{}{"p.author_id = ?", f.AuthorId}
	case appDb.BySpaces:
		return []interface{}{"p.space_id IN ?", f.SpaceIds}
	case appDb.BySeverity:
		return []interface{}{"p.severity = ?", string(f.Severity)}
	case appDb.ByStatus:
		return []interface{}{"p.status = ?", string(f.Status)}
	case appDb.ByEntity:
		return []interface{}{"p.entity_id = ?", f.EntityId}
	case appDb.Search:
		pattern := "%" + strings.ToLower(f.Term) + "%"
		return []interface{}{"(LOWER(p.title) LIKE ? OR LOWER(p.description) LIKE ?)", pattern, pattern}
	case appDb.VisibleTo:
		return visibleToConds(f)
	}
	panic(fmt.Sprintf("unhandled post filter %T", filter))
}

func visibleToConds(f appDb.VisibleTo) []interface{} {
	if f.SuperAdmin {
		return nil
	}
	clauses := []string{"p.author_id = ?"}
	args := []interface{}{f.ViewerId}
	if len(f.MemberSpaceIds) > 0 {
		clauses = append(clauses, "(p.space_id IN ? AND p.is_admin_only = false)")
		args = append(args, f.MemberSpaceIds)
	}
	if len(f.AdminSpaceIds) > 0 {
		clauses = append(clauses, "p.space_id IN ?")
		args = append(args, f.AdminSpaceIds)
	}
	return append([]interface{}{"(" + strings.Join(clauses, " OR ") + ")"}, args...)
}

// orderClauses translates the sort list. An id tie-break is always
// appended so the keyset cursor stays stable.
func orderClauses(sorts []appDb.PostSort) []interface{} {
	clauses := make([]interface{}, 0, len(sorts)+1)
	for _, sort := range sorts {
		dir := "ASC"
		if sort.Desc {
			dir = "DESC"
		}
		switch sort.Field {
		case appDb.SortBySeverity:
			clauses = append(clauses, db.Raw(fmt.Sprintf(
				"FIELD(p.severity, 'low', 'medium', 'high', 'very_high') %v", dir)))
		case appDb.SortByTitle:
			clauses = append(clauses, db.Raw(fmt.Sprintf("p.title %v", dir)))
		case appDb.SortBySpace:
			clauses = append(clauses, db.Raw(fmt.Sprintf("p.space_id %v", dir)))
		default:
			clauses = append(clauses, db.Raw(fmt.Sprintf("p.created_at %v", dir)))
		}
	}
	if len(clauses) == 0 {
		clauses = append(clauses, db.Raw("p.created_at DESC"))
	}
	return append(clauses, db.Raw("p.id DESC"))
}

func buildPostFromFlattened(post *flattenedPost) (*model.Post, error) {
	media, err := buildMediaFromJSON(post.MediaJSONStr)
	if err != nil {
		return nil, err
	}

	var space *model.Space
	if post.SpaceId.Valid {
		space = &model.Space{
			Id:   post.SpaceId.String,
			Name: post.SpaceName.String,
		}
	}

	built := &model.Post{
		Id: post.Id,
		Author: &model.DisplayableUser{
			User: &model.User{
				Id:          post.AuthorId,
				DisplayName: post.AuthorDisplayName.String,
				Avatar:      post.AuthorAvatar.String,
			},
			AnonymousUser: &model.AnonymousUser{
				DisplayName: post.CreatorAlias,
				Avatar:      util.Avatar(post.CreatorAlias),
			},
		},
		AuthorId:    post.AuthorId,
		Anonymous:   post.Anonymous,
		Space:       space,
		Title:       post.Title,
		Description: post.Description,
		Status:      post.Status,
		IsAdminOnly: post.IsAdminOnly,
		Severity:    model.Severity(post.Severity.String),
		Media:       media,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
	if space != nil {
		built.SpaceId = space.Id
	}
	if post.EntityId.Valid {
		built.EntityId = post.EntityId.String
	}
	return built, nil
}

// buildMediaFromJSON unpacks the JSON_ARRAYAGG column. The left join
// yields [null] for posts without media.
func buildMediaFromJSON(raw sql.NullString) ([]*model.Media, error) {
	media := []*model.Media{}
	if !raw.Valid {
		return media, nil
	}
	var blobNames []*string
	if err := json.Unmarshal([]byte(raw.String), &blobNames); err != nil {
		return nil, err
	}
	for _, blobName := range blobNames {
		if blobName == nil {
			continue
		}
		media = append(media, &model.Media{BlobName: *blobName})
	}
	return media, nil
}

func (pdb *PostDB) SetPostStatus(ctx context.Context, id string, status model.Status) error {
	_, err := pdb.sess.SQL().
		Update("post").
		Set("status", string(status)).
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

func (pdb *PostDB) MarkPostAsDeleted(ctx context.Context, id string) error {
	_, err := pdb.sess.SQL().ExecContext(ctx, db.Raw(`
UPDATE post
	SET status = 'DELETED', description = ''
	WHERE id = ?
`, id))
	return err
}
