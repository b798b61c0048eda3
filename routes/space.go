package routes

import (
	"firebase.google.com/go/v4/auth"
	"github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/middleware"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/Hillsrion/safespace-sub000/util"
	"github.com/gin-gonic/gin"
)

type spaceRoutes struct {
	db db.Database
}

func AddSpaceRoutes(group *gin.RouterGroup, database db.Database, authClient *auth.Client) {
	routes := spaceRoutes{db: database}
	spaces := group.Group("/spaces", middleware.Auth(database, authClient, &middleware.AuthConfig{}))
	spaces.GET("", util.HandlerWrapper(routes.getSpaces, &util.HandlerOpts{}))
	spaces.PUT("", util.HandlerWrapper(routes.createSpace, &util.HandlerOpts{}))
	spaces.POST("/:id/membership", util.HandlerWrapper(routes.updateMembership, &util.HandlerOpts{}))
}

func (sr *spaceRoutes) getSpaces(c *gin.Context) (interface{}, *util.HTTPError) {
	spaces, err := sr.db.GetSpacesForUser(c, middleware.MustGetUser(c).Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if spaces == nil {
		spaces = []*model.Space{}
	}
	return gin.H{"spaces": spaces}, nil
}

type createSpaceReq struct {
	Name string `json:"name"`
}

func (sr *spaceRoutes) createSpace(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createSpaceReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if len(req.Name) < 3 {
		return nil, util.BadRequestFieldErr("space", "name", "space name must be at least 3 characters")
	}

	user := middleware.MustGetUser(c)
	spaceId, err := sr.db.CreateSpace(c, util.XSSSanitize(req.Name))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	// the creator moderates their own space
	if err := sr.db.AddMember(c, &model.Membership{
		UserId:  user.Id,
		SpaceId: spaceId,
		Role:    model.RoleAdmin,
	}); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{"id": spaceId}, nil
}

func (sr *spaceRoutes) updateMembership(c *gin.Context) (interface{}, *util.HTTPError) {
	action := c.PostForm("_action")
	if action != "join" && action != "leave" {
		return nil, util.BadRequestErr("space", `_action must be "join" or "leave"`)
	}

	spaceId := c.Param("id")
	spaces, err := sr.db.GetSpacesByIds(c, []string{spaceId})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if len(spaces) == 0 {
		return nil, util.NotFoundErr("space")
	}

	user := middleware.MustGetUser(c)
	if action == "leave" {
		if err := sr.db.RemoveMember(c, user.Id, spaceId); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"success": true, "action": action}, nil
	}
	if err := sr.db.AddMember(c, &model.Membership{
		UserId:  user.Id,
		SpaceId: spaceId,
		Role:    model.RoleMember,
	}); err != nil && !db.IsDupKeyErr(err) {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{"success": true, "action": action}, nil
}
