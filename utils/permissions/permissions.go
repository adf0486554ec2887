// Package permissions is the single place role logic is evaluated. Every
// handler and service calls into it instead of re-implementing role checks,
// and nothing in here ever inspects an email address or any other identity
// literal: the role claim comes exclusively from the role_assignments table,
// resolved once per request by the auth middleware.
package permissions

import "seenaf/models"

// Actor is the authenticated identity plus its resolved role claim
type Actor struct {
	UserID string
	Role   models.AppRole
}

// IsAdmin reports whether the actor holds the admin capability
func IsAdmin(actor Actor) bool {
	return actor.Role == models.RoleAdmin
}

// CanReadChallenge reports whether the actor may see the given challenge.
// Inactive challenges are visible to admins only; callers must surface the
// negative case as NotFound so hidden and absent are indistinguishable.
func CanReadChallenge(actor Actor, challenge *models.Challenge) bool {
	if challenge.IsActive {
		return true
	}
	return IsAdmin(actor)
}

// CanActFor reports whether the actor may perform an action on behalf of the
// given user. Admins may, but their on-behalf actions must be audited by the
// caller.
func CanActFor(actor Actor, userID string) bool {
	if actor.UserID == userID {
		return true
	}
	return IsAdmin(actor)
}
