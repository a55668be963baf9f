// Package policy centralizes authorization rules. The board has two
// roles, so the rules are plain functions over the User's role
// attribute rather than a pluggable permission registry.
package policy

import (
	"github.com/newsguild/warboard/internal/models"
)

// Feed affordances: what the viewer may do with a given post.
const (
	AffordanceDelete = "delete"
	AffordanceHide   = "hide"
)

// Ownable is implemented by resources that have an owning user.
type Ownable interface {
	GetUserID() uint
}

// Owns reports whether the user owns the resource.
func Owns(u *models.User, res Ownable) bool {
	return u != nil && res != nil && res.GetUserID() == u.ID
}

// CanDeleteNews allows the author and admins to delete a post.
func CanDeleteNews(u *models.User, n *models.News) bool {
	if u == nil || n == nil {
		return false
	}
	return u.IsAdmin() || Owns(u, n)
}

// Affordance returns the action offered next to a post in the feed:
// delete for posts the viewer may remove, hide for everything else.
func Affordance(viewer *models.User, n *models.News) string {
	if CanDeleteNews(viewer, n) {
		return AffordanceDelete
	}
	return AffordanceHide
}
