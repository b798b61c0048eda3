package model

import (
	"fmt"
	"time"
)

// Status is the canonical post status taxonomy. The legacy "active"
// spelling is accepted at the HTTP boundary only (see ParseStatus).
type Status string

const (
	StatusPublished     Status = "PUBLISHED"
	StatusHidden               = "HIDDEN"
	StatusPendingReview        = "PENDING_REVIEW"
	StatusDeleted              = "DELETED"
)

func ParseStatus(val string) (Status, error) {
	switch val {
	case "PUBLISHED", "active", "published":
		return StatusPublished, nil
	case "HIDDEN", "hidden":
		return StatusHidden, nil
	case "PENDING_REVIEW", "pending_review":
		return StatusPendingReview, nil
	}
	return "", fmt.Errorf("unknown status %q", val)
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium            = "medium"
	SeverityHigh              = "high"
	SeverityVeryHigh          = "very_high"
)

func ParseSeverity(val string) (Severity, error) {
	switch Severity(val) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityVeryHigh:
		return Severity(val), nil
	}
	return "", fmt.Errorf("unknown severity %q", val)
}

// Rank orders severities for sorting. An unset severity sorts below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityVeryHigh:
		return 4
	}
	return 0
}

type Media struct {
	BlobName string `json:"blobName"`
}

type Post struct {
	Id          string           `json:"id"`
	Author      *DisplayableUser `json:"author"`
	AuthorId    string           `json:"-"`
	Anonymous   bool             `json:"anonymous"`
	Space       *Space           `json:"space,omitempty"`
	SpaceId     string           `json:"-"`
	EntityId    string           `json:"entityId,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      Status           `json:"status"`
	IsAdminOnly bool             `json:"isAdminOnly"`
	Severity    Severity         `json:"severity,omitempty"`
	Media       []*Media         `json:"media"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// VisibleTo decides whether a single already-fetched post may be shown to
// the viewer. Super-admins and authors always pass; everyone else needs a
// membership in the post's space, and a moderating role when the post is
// admin-only.
func (p *Post) VisibleTo(viewer *User, rolesBySpace map[string]Role) bool {
	if viewer == nil {
		return false
	}
	if viewer.IsSuperAdmin || viewer.Id == p.AuthorId {
		return true
	}
	if p.SpaceId == "" {
		return false
	}
	role, isMember := rolesBySpace[p.SpaceId]
	if !isMember {
		return false
	}
	return !p.IsAdminOnly || role.CanModerate()
}

func (p *Post) CanBeModeratedBy(viewer *User, roleInSpace Role) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsSuperAdmin || roleInSpace.CanModerate()
}

func (p *Post) CanBeDeletedBy(viewer *User, roleInSpace Role) bool {
	if viewer == nil {
		return false
	}
	return viewer.Id == p.AuthorId || p.CanBeModeratedBy(viewer, roleInSpace)
}

// MakeDisplayableFor mutates the post. Anonymous reports keep only the
// alias unless the viewer is the author, a moderator of the space, or a
// super-admin.
func (p *Post) MakeDisplayableFor(viewer *User, roleInSpace Role) *Post {
	if !p.Anonymous || p.Author == nil {
		return p
	}
	if viewer != nil && (viewer.IsSuperAdmin || viewer.Id == p.AuthorId || roleInSpace.CanModerate()) {
		return p
	}
	p.Author = &DisplayableUser{AnonymousUser: p.Author.AnonymousUser}
	return p
}
