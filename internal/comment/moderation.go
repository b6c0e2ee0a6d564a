package comment

import "github.com/datpham-dev/inkwell/internal/platform/sec"

// Moderation rules are pure functions over (current status, requested status,
// actor role) so they can be unit-tested without storage.

// ModeratorRole is the minimum role allowed to change comment statuses and
// delete other users' comments.
const ModeratorRole = sec.RoleEditor

// CanModerate reports whether the role grants moderation rights.
func CanModerate(role sec.UserRole) bool {
	return role.AtLeast(ModeratorRole)
}

// TransitionAllowed reports whether a privileged actor may move a comment
// from the current status to the requested one.
//
// The matrix is intentionally permissive: moderators may overwrite any status
// with any other (including backward moves like APPROVED -> PENDING), and
// setting the current status again is an allowed no-op. Tightening this to a
// forward-only machine is a product decision, not a code constraint.
func TransitionAllowed(current, requested Status, role sec.UserRole) bool {
	if !CanModerate(role) {
		return false
	}
	return current.Valid() && requested.Valid()
}
