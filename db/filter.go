package db

import "github.com/Hillsrion/safespace-sub000/model"

// PostFilter is a closed set of predicate clauses. Every adapter switches
// over all variants when translating a query, so adding a filter means
// extending the switch in each adapter rather than mutating a loosely
// typed query object.
type PostFilter interface {
	postFilter()
}

type ByAuthor struct {
	AuthorId string
}

type BySpaces struct {
	SpaceIds []string
}

type BySeverity struct {
	Severity model.Severity
}

type ByStatus struct {
	Status model.Status
}

type ByEntity struct {
	EntityId string
}

// Search matches a case-insensitive substring of the title or description.
type Search struct {
	Term string
}

// VisibleTo scopes a query to the posts the viewer may see: everything for
// super-admins, otherwise their own posts, public posts in member spaces,
// and admin-only posts in spaces they moderate.
type VisibleTo struct {
	ViewerId       string
	SuperAdmin     bool
	MemberSpaceIds []string
	AdminSpaceIds  []string
}

func (ByAuthor) postFilter()   {}
func (BySpaces) postFilter()   {}
func (BySeverity) postFilter() {}
func (ByStatus) postFilter()   {}
func (ByEntity) postFilter()   {}
func (Search) postFilter()     {}
func (VisibleTo) postFilter()  {}

type PostSortField string

const (
	SortByCreatedAt PostSortField = "created_at"
	SortBySeverity  PostSortField = "severity"
	SortByTitle     PostSortField = "title"
	SortBySpace     PostSortField = "space_id"
)

type PostSort struct {
	Field PostSortField
	Desc  bool
}
