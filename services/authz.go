package services

import (
	"errors"

	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/models"
)

// ErrForbidden is returned whenever the guard denies a mutation. Denial is
// always surfaced to the caller, never swallowed as a no-op.
var ErrForbidden = errors.New("forbidden")

// Op is a mutating operation checked by the guard.
type Op string

const (
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpApprove Op = "approve"
)

// Ownable is any resource with a single owning user.
type Ownable interface {
	OwnerID() uint
}

// CanMutate decides whether an actor may perform op on resource. Pure
// function over the actor and resource passed in; callers load both fresh on
// every request because role and ownership can change between requests.
//
// Policy: owners may update and delete their own resources; admins may do
// anything, including approve (which owners may not).
func CanMutate(actor middleware.Actor, resource Ownable, op Op) bool {
	if actor.IsAdmin() {
		return true
	}
	switch op {
	case OpUpdate, OpDelete:
		return resource.OwnerID() == actor.ID
	case OpApprove:
		return false
	default:
		return false
	}
}

// Authorize is CanMutate with denial surfaced as ErrForbidden.
func Authorize(actor middleware.Actor, resource Ownable, op Op) error {
	if !CanMutate(actor, resource, op) {
		return ErrForbidden
	}
	return nil
}

var _ Ownable = (*models.Question)(nil)
var _ Ownable = (*models.Answer)(nil)
var _ Ownable = (*models.FollowUp)(nil)
var _ Ownable = (*models.Vote)(nil)
var _ Ownable = (*models.Notification)(nil)
