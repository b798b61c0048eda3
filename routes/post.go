package routes

import (
	"firebase.google.com/go/v4/auth"
	"github.com/Hillsrion/safespace-sub000/app"
	"github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/middleware"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/Hillsrion/safespace-sub000/services"
	"github.com/Hillsrion/safespace-sub000/util"
	"github.com/gin-gonic/gin"
)

type postRoutes struct {
	db          db.Database
	mediaBucket *services.MediaBucket
}

func AddPostRoutes(group *gin.RouterGroup, database db.Database, authClient *auth.Client, mediaBucket *services.MediaBucket) {
	routes := postRoutes{db: database, mediaBucket: mediaBucket}
	posts := group.Group("/posts", middleware.Auth(database, authClient, &middleware.AuthConfig{}))
	posts.GET("/feed", util.HandlerWrapper(routes.getFeed, &util.HandlerOpts{}))
	posts.GET("/mine", util.HandlerWrapper(routes.getOwnPosts, &util.HandlerOpts{}))
	posts.GET("/all", util.HandlerWrapper(routes.getAllPosts, &util.HandlerOpts{}))
	posts.PUT("", util.HandlerWrapper(routes.createPost, &util.HandlerOpts{}))
	posts.GET("/:id", util.HandlerWrapper(routes.getPostById, &util.HandlerOpts{}))
	posts.POST("/:id/delete", util.HandlerWrapper(routes.deletePost, &util.HandlerOpts{}))
	posts.POST("/:id/status", util.HandlerWrapper(routes.setPostStatus, &util.HandlerOpts{}))
}

func (pr *postRoutes) getFeed(c *gin.Context) (interface{}, *util.HTTPError) {
	opts, httpErr := parseFeedOpts(c)
	if httpErr != nil {
		return nil, httpErr
	}
	opts.SpaceId = c.Query("spaceId")
	page, err := app.GetSpacePosts(c, pr.db, middleware.MustGetUser(c), opts)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return page, nil
}

func (pr *postRoutes) getOwnPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	opts, httpErr := parseFeedOpts(c)
	if httpErr != nil {
		return nil, httpErr
	}
	page, err := app.GetUserPosts(c, pr.db, middleware.MustGetUser(c), opts)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return page, nil
}

func (pr *postRoutes) getAllPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	opts, httpErr := parseFeedOpts(c)
	if httpErr != nil {
		return nil, httpErr
	}
	page, err := app.GetAllPosts(c, pr.db, middleware.MustGetUser(c).Id, opts)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return page, nil
}

func parseFeedOpts(c *gin.Context) (*app.FeedOpts, *util.HTTPError) {
	limit, httpErr := util.ParseLimit(c.Query("limit"), app.DefaultPageSize)
	if httpErr != nil {
		return nil, httpErr
	}
	includeHidden, httpErr := util.ParseBoolParam("includeHidden", c.Query("includeHidden"))
	if httpErr != nil {
		return nil, httpErr
	}
	opts := &app.FeedOpts{
		Limit:         limit,
		Cursor:        c.Query("cursor"),
		IncludeHidden: includeHidden,
	}
	if val := c.Query("status"); val != "" {
		status, err := model.ParseStatus(val)
		if err != nil {
			return nil, util.BadRequestFieldErr("api", "status", err.Error())
		}
		opts.Status = status
	}
	return opts, nil
}

type createPostReq struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	SpaceId        string   `json:"spaceId"`
	EntityId       string   `json:"entityId"`
	Severity       string   `json:"severity"`
	IsAdminOnly    bool     `json:"isAdminOnly"`
	Anonymous      bool     `json:"anonymous"`
	MediaBlobNames []string `json:"mediaBlobNames"`
}

func (pr *postRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}

	title := util.XSSSanitize(req.Title)
	if title == "" {
		return nil, util.BadRequestFieldErr("post", "title", "title is required")
	}

	var severity model.Severity
	if req.Severity != "" {
		parsed, err := model.ParseSeverity(req.Severity)
		if err != nil {
			return nil, util.BadRequestFieldErr("post", "severity", err.Error())
		}
		severity = parsed
	}

	user := middleware.MustGetUser(c)
	if req.SpaceId != "" {
		memberships, err := pr.db.GetMembershipsForUser(c, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		role, isMember := model.RolesBySpace(memberships)[req.SpaceId]
		if !isMember && !user.IsSuperAdmin {
			return nil, util.ForbiddenErr("post")
		}
		if req.IsAdminOnly && !user.IsSuperAdmin && !role.CanModerate() {
			return nil, util.ForbiddenErr("post")
		}
	}

	if req.EntityId != "" {
		entity, err := pr.db.GetEntityById(c, req.EntityId)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if entity == nil {
			return nil, util.NotFoundErr("entity")
		}
	}

	media := make([]*db.CreateMedia, len(req.MediaBlobNames))
	for i, blobName := range req.MediaBlobNames {
		exists, err := pr.mediaBucket.Exists(c, blobName)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if !exists {
			return nil, util.BadRequestFieldErr("post", "mediaBlobNames", "media upload not found")
		}
		media[i] = &db.CreateMedia{BlobName: blobName}
	}

	alias := ""
	if req.Anonymous {
		alias = util.GenerateAlias()
	}

	id, err := pr.db.CreatePost(c, &db.CreatePost{
		AuthorId:     user.Id,
		CreatorAlias: alias,
		Anonymous:    req.Anonymous,
		SpaceId:      req.SpaceId,
		EntityId:     req.EntityId,
		Title:        title,
		Description:  util.XSSSanitize(req.Description),
		Severity:     severity,
		IsAdminOnly:  req.IsAdminOnly,
		Media:        media,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{"success": true, "id": id}, nil
}

func (pr *postRoutes) getPostById(c *gin.Context) (interface{}, *util.HTTPError) {
	post, memberships, httpErr := pr.fetchPostWithMemberships(c)
	if httpErr != nil {
		return nil, httpErr
	}
	user := middleware.MustGetUser(c)
	rolesBySpace := model.RolesBySpace(memberships)
	if !post.VisibleTo(user, rolesBySpace) {
		// a 404 rather than 403 so hidden spaces stay hidden
		return nil, util.NotFoundErr("post")
	}
	return post.MakeDisplayableFor(user, rolesBySpace[post.SpaceId]), nil
}

func (pr *postRoutes) deletePost(c *gin.Context) (interface{}, *util.HTTPError) {
	post, memberships, httpErr := pr.fetchPostWithMemberships(c)
	if httpErr != nil {
		return nil, httpErr
	}
	user := middleware.MustGetUser(c)
	if !post.CanBeDeletedBy(user, model.RolesBySpace(memberships)[post.SpaceId]) {
		return nil, util.ForbiddenErr("post")
	}
	if err := pr.db.MarkPostAsDeleted(c, post.Id); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{"success": true, "action": "deleted"}, nil
}

func (pr *postRoutes) setPostStatus(c *gin.Context) (interface{}, *util.HTTPError) {
	action := c.PostForm("_action")
	var status model.Status
	switch action {
	case "hide":
		status = model.StatusHidden
	case "unhide":
		status = model.StatusPublished
	default:
		return nil, util.BadRequestErr("post", `_action must be "hide" or "unhide"`)
	}

	post, memberships, httpErr := pr.fetchPostWithMemberships(c)
	if httpErr != nil {
		return nil, httpErr
	}
	user := middleware.MustGetUser(c)
	if !post.CanBeModeratedBy(user, model.RolesBySpace(memberships)[post.SpaceId]) {
		return nil, util.ForbiddenErr("post")
	}
	if err := pr.db.SetPostStatus(c, post.Id, status); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{"success": true, "action": action}, nil
}

func (pr *postRoutes) fetchPostWithMemberships(c *gin.Context) (*model.Post, []*model.Membership, *util.HTTPError) {
	post, err := pr.db.GetPostById(c, c.Param("id"))
	if err != nil {
		return nil, nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, nil, util.NotFoundErr("post")
	}
	memberships, err := pr.db.GetMembershipsForUser(c, middleware.MustGetUser(c).Id)
	if err != nil {
		return nil, nil, util.BuildDbHTTPErr(err)
	}
	return post, memberships, nil
}
