package routes

import (
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/Hillsrion/safespace-sub000/app"
	"github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/middleware"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/Hillsrion/safespace-sub000/util"
	"github.com/gin-gonic/gin"
)

type filterRoutes struct {
	db db.Database
}

func AddFilterRoutes(group *gin.RouterGroup, database db.Database, authClient *auth.Client) {
	routes := filterRoutes{db: database}
	group.GET("/dashboard-filter",
		middleware.Auth(database, authClient, &middleware.AuthConfig{}),
		util.HandlerWrapper(routes.filterPosts, &util.HandlerOpts{}))
}

func (fr *filterRoutes) filterPosts(c *gin.Context) (interface{}, *util.HTTPError) {
	req, httpErr := parseFilterReq(c)
	if httpErr != nil {
		return nil, httpErr
	}
	posts, err := app.FilterPosts(c, fr.db, middleware.GetUserMaybe(c), req)
	if err != nil {
		if err == app.ErrAdminOnlyFilterNotSpecified {
			return nil, util.BadRequestFieldErr("filter", "adminOnly", err.Error())
		}
		return nil, util.BuildDbHTTPErr(err)
	}
	return posts, nil
}

func parseFilterReq(c *gin.Context) (*app.FilterRequest, *util.HTTPError) {
	myPostsOnly, httpErr := util.ParseBoolParam("myPostsOnly", c.Query("myPostsOnly"))
	if httpErr != nil {
		return nil, httpErr
	}
	adminOnly, httpErr := util.ParseBoolParam("adminOnly", c.Query("adminOnly"))
	if httpErr != nil {
		return nil, httpErr
	}
	groupBySpace, httpErr := util.ParseBoolParam("groupBySpace", c.Query("groupBySpace"))
	if httpErr != nil {
		return nil, httpErr
	}

	req := &app.FilterRequest{
		SearchTerm:  c.Query("q"),
		SpaceIds:    parseIdList(c.QueryArray("spaceIds")),
		MyPostsOnly: myPostsOnly,
		AdminOnly:   adminOnly,
		Sort: app.SortOptions{
			GroupBySpace: groupBySpace,
		},
	}

	if val := c.Query("severity"); val != "" {
		severity, err := model.ParseSeverity(val)
		if err != nil {
			return nil, util.BadRequestFieldErr("filter", "severity", err.Error())
		}
		req.Severity = severity
	}

	orderBy, err := app.ParseOrderField(c.Query("orderBy"))
	if err != nil {
		return nil, util.BadRequestFieldErr("filter", "orderBy", err.Error())
	}
	req.Sort.OrderBy = orderBy

	switch direction := c.Query("orderDirection"); direction {
	case "", "asc", "desc":
		req.Sort.OrderDirection = direction
	default:
		return nil, util.BadRequestFieldErr("filter", "orderDirection", `orderDirection must be "asc" or "desc"`)
	}

	return req, nil
}

// parseIdList accepts both repeated params and comma-joined values.
func parseIdList(vals []string) []string {
	var ids []string
	for _, val := range vals {
		for _, id := range strings.Split(val, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
