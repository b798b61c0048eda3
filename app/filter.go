package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appDb "github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/model"
)

// ErrAdminOnlyFilterNotSpecified rejects the adminOnly dashboard filter.
// The predicate it should apply was never specified upstream, so the
// parameter is refused outright instead of silently matching everything.
var ErrAdminOnlyFilterNotSpecified = errors.New("adminOnly filter has no specified predicate")

type OrderField string

const (
	OrderByDate     OrderField = "date"
	OrderBySeverity            = "severity"
	OrderByTitle               = "title"
)

func ParseOrderField(val string) (OrderField, error) {
	switch OrderField(val) {
	case "", OrderByDate:
		return OrderByDate, nil
	case OrderBySeverity, OrderByTitle:
		return OrderField(val), nil
	}
	return "", fmt.Errorf("unknown orderBy %q", val)
}

type SortOptions struct {
	OrderBy        OrderField
	OrderDirection string // "asc" or "desc"; empty means descending
	GroupBySpace   bool
}

// FilterRequest is the flat set of dashboard filter primitives. Zero
// values mean "not filtered"; omission never adds a predicate clause.
type FilterRequest struct {
	SearchTerm  string
	Severity    model.Severity
	SpaceIds    []string
	MyPostsOnly bool
	AdminOnly   bool
	Sort        SortOptions
}

// FilterPosts translates the request into a single role-scoped query and
// returns the full matching set; this is the filter-panel path, distinct
// from the cursor feed. A nil viewer fails closed to an empty result.
func FilterPosts(ctx context.Context, database appDb.Database, viewer *model.User, req *FilterRequest) ([]*model.Post, error) {
	if req.AdminOnly {
		return nil, ErrAdminOnlyFilterNotSpecified
	}
	if viewer == nil {
		return []*model.Post{}, nil
	}
	memberships, err := database.GetMembershipsForUser(ctx, viewer.Id)
	if err != nil {
		return nil, err
	}

	filters := []appDb.PostFilter{ScopeFor(viewer, memberships)}
	if term := strings.TrimSpace(req.SearchTerm); term != "" {
		filters = append(filters, appDb.Search{Term: term})
	}
	if req.Severity != "" {
		filters = append(filters, appDb.BySeverity{Severity: req.Severity})
	}
	if len(req.SpaceIds) > 0 {
		filters = append(filters, appDb.BySpaces{SpaceIds: req.SpaceIds})
	}
	if req.MyPostsOnly {
		filters = append(filters, appDb.ByAuthor{AuthorId: viewer.Id})
	}

	posts, err := database.GetPosts(ctx, &appDb.PostListQuery{
		Filters: filters,
		Sorts:   buildSorts(&req.Sort),
	})
	if err != nil {
		return nil, err
	}
	return makePostsDisplayable(posts, viewer, memberships), nil
}

// buildSorts normalizes the order list: optional space grouping first,
// then the chosen field, then the created-at-descending fallback, with
// duplicate fields collapsed onto their first appearance. The query
// therefore never executes unordered.
func buildSorts(opts *SortOptions) []appDb.PostSort {
	desc := strings.ToLower(opts.OrderDirection) != "asc"

	var sorts []appDb.PostSort
	if opts.GroupBySpace {
		sorts = append(sorts, appDb.PostSort{Field: appDb.SortBySpace, Desc: desc})
	}
	sorts = append(sorts,
		appDb.PostSort{Field: sortField(opts.OrderBy), Desc: desc},
		appDb.PostSort{Field: appDb.SortByCreatedAt, Desc: true},
	)
	return dedupeSorts(sorts)
}

func sortField(field OrderField) appDb.PostSortField {
	switch field {
	case OrderBySeverity:
		return appDb.SortBySeverity
	case OrderByTitle:
		return appDb.SortByTitle
	}
	return appDb.SortByCreatedAt
}

func dedupeSorts(sorts []appDb.PostSort) []appDb.PostSort {
	seen := make(map[appDb.PostSortField]bool, len(sorts))
	deduped := make([]appDb.PostSort, 0, len(sorts))
	for _, sort := range sorts {
		if seen[sort.Field] {
			continue
		}
		seen[sort.Field] = true
		deduped = append(deduped, sort)
	}
	return deduped
}
