// Package authz holds every role and ownership rule of the API in one place.
package authz

import (
	"store-rating/backend/app/apperr"
	jwtutil "store-rating/backend/app/jwt"
	"store-rating/backend/app/models"
)

type Action int

const (
	ViewUserRatings Action = iota + 1
	ViewOwnerStores
	ViewUser
	ChangePassword
	CreateUser
	ListUsers
	DeleteUser
	DeleteStore
	AssignStoreOwner
	ViewStats
	CreateStore
	SubmitRating
	UpdateRating
)

// Request names an action and, for self-scoped actions, the id of the user
// the target resource belongs to.
type Request struct {
	Action    Action
	SubjectID uint
}

type Guard struct{}

// Authorize returns nil when id may perform req, an Unauthorized error when
// id is nil and a Forbidden error otherwise.
func (Guard) Authorize(id *jwtutil.Identity, req Request) error {
	if id == nil {
		return apperr.Unauthorized("authentication required")
	}
	switch req.Action {
	case ViewUserRatings, ViewOwnerStores, ViewUser, ChangePassword:
		if id.ID == req.SubjectID || id.Role == models.RoleAdmin {
			return nil
		}
	case CreateUser, ListUsers, DeleteUser, DeleteStore, AssignStoreOwner, ViewStats:
		if id.Role == models.RoleAdmin {
			return nil
		}
	case CreateStore, SubmitRating:
		return nil
	case UpdateRating:
		if id.ID == req.SubjectID {
			return nil
		}
	}
	return apperr.Forbidden("insufficient permissions")
}
