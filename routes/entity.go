package routes

import (
	"firebase.google.com/go/v4/auth"
	"github.com/Hillsrion/safespace-sub000/app"
	"github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/middleware"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/Hillsrion/safespace-sub000/util"
	"github.com/gin-gonic/gin"
)

type entityRoutes struct {
	db db.Database
}

func AddEntityRoutes(group *gin.RouterGroup, database db.Database, authClient *auth.Client) {
	routes := entityRoutes{db: database}
	entities := group.Group("/entities", middleware.Auth(database, authClient, &middleware.AuthConfig{}))
	entities.GET("", util.HandlerWrapper(routes.searchEntities, &util.HandlerOpts{}))
	entities.PUT("", util.HandlerWrapper(routes.createEntity, &util.HandlerOpts{}))
	entities.GET("/:id/posts", util.HandlerWrapper(routes.getEntityPosts, &util.HandlerOpts{}))
}

type createEntityReq struct {
	Name    string `json:"name"`
	Handles []struct {
		Platform string `json:"platform"`
		Handle   string `json:"handle"`
	} `json:"handles"`
}

func (er *entityRoutes) createEntity(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createEntityReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	name := util.XSSSanitize(req.Name)
	if name == "" {
		return nil, util.BadRequestFieldErr("entity", "name", "name is required")
	}

	handles := make([]*model.Handle, 0, len(req.Handles))
	for _, handle := range req.Handles {
		if handle.Platform == "" || handle.Handle == "" {
			return nil, util.BadRequestFieldErr("entity", "handles", "handles need both a platform and a handle")
		}
		handles = append(handles, &model.Handle{
			Platform: handle.Platform,
			Handle:   handle.Handle,
		})
	}

	id, err := er.db.CreateEntity(c, &db.CreateEntity{
		Name:    name,
		Handles: handles,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{"id": id}, nil
}

func (er *entityRoutes) searchEntities(c *gin.Context) (interface{}, *util.HTTPError) {
	entities, err := er.db.SearchEntities(c, c.Query("q"))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if entities == nil {
		entities = []*model.ReportedEntity{}
	}
	return entities, nil
}

func (er *entityRoutes) getEntityPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	entityId := c.Param("id")
	entity, err := er.db.GetEntityById(c, entityId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if entity == nil {
		return nil, util.NotFoundErr("entity")
	}
	posts, err := app.GetEntityPosts(c, er.db, middleware.MustGetUser(c), entityId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{"entity": entity, "posts": posts}, nil
}
