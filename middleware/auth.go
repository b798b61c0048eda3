package middleware

import (
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/Hillsrion/safespace-sub000/util"
	"github.com/gin-gonic/gin"
)

const (
	TOKEN_KEY = "authToken"
	USER_KEY  = "user"
)

type AuthConfig struct {
	sessionNotRequired bool
	profileNotRequired bool
}

var AllowNoProfile = &AuthConfig{profileNotRequired: true}

// Auth verifies the firebase bearer token and resolves the local user
// profile into the request context.
func Auth(userDB db.UserDatabase, authClient *auth.Client, config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorizationHeader, ok := c.Request.Header["Authorization"]
		if !ok || len(authorizationHeader) == 0 {
			util.HandleHTTPErrorRes(c, util.UnauthorizedErr("api"))
			c.Abort()
			return
		}
		if strings.Index(authorizationHeader[0], "Bearer ") != 0 || len(authorizationHeader[0]) < 8 {
			util.HandleHTTPErrorRes(c, util.UnauthorizedErr("api"))
			c.Abort()
			return
		}
		token, err := authClient.VerifyIDToken(c, authorizationHeader[0][7:])
		if err != nil {
			if config.sessionNotRequired {
				return
			}
			util.HandleHTTPErrorRes(c, util.UnauthorizedErr("api"))
			c.Abort()
			return
		}

		c.Set(TOKEN_KEY, token)

		user, err := userDB.GetUser(c, token.UID)
		if err != nil {
			util.HandleHTTPErrorRes(c, util.BuildDbHTTPErr(err))
			c.Abort()
			return
		}
		if user == nil {
			if config.profileNotRequired {
				return
			}
			util.HandleHTTPErrorRes(c, util.ForbiddenErr("api"))
			c.Abort()
			return
		}
		c.Set(USER_KEY, user)
	}
}

func MustGetToken(c *gin.Context) *auth.Token {
	token, _ := c.Get(TOKEN_KEY)
	return token.(*auth.Token)
}

// MustGetUser assumes the route is behind Auth with a required profile.
func MustGetUser(c *gin.Context) *model.User {
	user, _ := c.Get(USER_KEY)
	return user.(*model.User)
}

// GetUserMaybe returns nil when no profile was resolved.
func GetUserMaybe(c *gin.Context) *model.User {
	user, ok := c.Get(USER_KEY)
	if !ok {
		return nil
	}
	return user.(*model.User)
}
