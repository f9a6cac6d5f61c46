// Package access decides whether an actor may perform an action on a resource.
//
// Decisions are pure functions of the actor's current role and identity; nothing
// is cached between requests.
package access

import (
	"net/http"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

// Resource names a row of the rule table.
type Resource string

const (
	ResourceCatalog Resource = "catalog"
	ResourceReview  Resource = "review"
	ResourceComment Resource = "comment"
	ResourceUsers   Resource = "users"
	ResourceSelf    Resource = "self"
)

// Action is either a read (safe method) or a write (everything else).
type Action uint8

const (
	ActionRead Action = iota
	ActionWrite
)

func (a Action) String() string {
	if a == ActionRead {
		return "read"
	}
	return "write"
}

// ActionFromMethod maps an HTTP method onto an Action.
func ActionFromMethod(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	default:
		return ActionWrite
	}
}

// Request is a single (actor, action, resource) triple. Actor is nil for
// anonymous callers. OwnerID is the author of the targeted review or comment
// and stays empty for collection-level requests.
type Request struct {
	Actor    *domain.User
	Action   Action
	Resource Resource
	OwnerID  string
}

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// Authorize evaluates the rule table for r.
func Authorize(r Request) Decision {
	switch r.Resource {
	case ResourceCatalog:
		if r.Action == ActionRead {
			return Allow
		}
		return Decision(r.Actor != nil && r.Actor.IsAdmin())

	case ResourceReview, ResourceComment:
		if r.Action == ActionRead {
			return Allow
		}
		if r.Actor == nil {
			return Deny
		}
		if r.OwnerID == "" || r.OwnerID == r.Actor.ID {
			return Allow
		}
		return Decision(r.Actor.IsModerator())

	case ResourceUsers:
		return Decision(r.Actor != nil && r.Actor.IsAdmin())

	case ResourceSelf:
		return Decision(r.Actor != nil)
	}
	return Deny
}

// Check is Authorize expressed as an error: ErrUnauthenticated when an
// anonymous actor is denied, ErrForbidden when an authenticated one is.
func Check(r Request) error {
	if Authorize(r) {
		return nil
	}
	if r.Actor == nil {
		return domain.ErrUnauthenticated
	}
	return domain.ErrForbidden
}
