package routes

import (
	"firebase.google.com/go/v4/auth"
	"github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/middleware"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/Hillsrion/safespace-sub000/util"
	"github.com/gin-gonic/gin"
)

type userRoutes struct {
	db db.UserDatabase
}

func AddUserRoutes(group *gin.RouterGroup, userDatabase db.UserDatabase, authClient *auth.Client) {
	routes := userRoutes{db: userDatabase}
	users := group.Group("/users", middleware.Auth(userDatabase, authClient, middleware.AllowNoProfile))
	users.PUT("", util.HandlerWrapper(routes.createUser, &util.HandlerOpts{}))
}

type createUserReq struct {
	DisplayName string `json:"displayName"`
}

func (ur *userRoutes) createUser(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createUserReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	displayName := util.XSSSanitize(req.DisplayName)
	if displayName == "" {
		return nil, util.BadRequestFieldErr("user", "displayName", "displayName is required")
	}

	uid := middleware.MustGetToken(c).UID
	if err := ur.db.CreateUser(c, &model.User{
		Id:          uid,
		DisplayName: displayName,
		Avatar:      util.Avatar(uid),
	}); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}
