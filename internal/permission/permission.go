// Package permission holds the role and ownership predicates gating every
// mutating operation. The acting user is always passed in explicitly; nothing
// here reads request state.
package permission

import "reviewhub/internal/models"

// CanManageUsers allows full user-account CRUD.
func CanManageUsers(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanWriteCatalog allows mutation of categories, genres and titles.
// Reads are unconditional and never consult this.
func CanWriteCatalog(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanModifyFeedback allows mutation of a review or comment owned by authorID.
func CanModifyFeedback(actor *models.User, authorID string) bool {
	if actor == nil {
		return false
	}
	return actor.ID == authorID || actor.IsAdmin() || actor.IsModerator()
}
