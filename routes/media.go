package routes

import (
	"firebase.google.com/go/v4/auth"
	"github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/middleware"
	"github.com/Hillsrion/safespace-sub000/services"
	"github.com/Hillsrion/safespace-sub000/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type mediaRoutes struct {
	mediaBucket *services.MediaBucket
}

func AddMediaRoutes(group *gin.RouterGroup, database db.Database, authClient *auth.Client, mediaBucket *services.MediaBucket) {
	routes := mediaRoutes{mediaBucket: mediaBucket}
	media := group.Group("/media", middleware.Auth(database, authClient, &middleware.AuthConfig{}))
	media.GET("/upload-url", util.HandlerWrapper(routes.getUploadURL, &util.HandlerOpts{}))
}

// getUploadURL hands out a signed PUT URL for evidence uploads. The blob
// name is server-generated so clients cannot overwrite existing objects.
func (mr *mediaRoutes) getUploadURL(c *gin.Context) (interface{}, *util.HTTPError) {
	blobName := middleware.MustGetUser(c).Id + "/" + uuid.NewString()
	url, err := mr.mediaBucket.SignedUploadURL(blobName)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return gin.H{"blobName": blobName, "uploadUrl": url}, nil
}
