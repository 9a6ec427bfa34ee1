package domain

import "time"

type UserID string

// BroadcasterID is the Twitch account id linked to a user. It doubles as the
// channel identifier for moderation lookups.
type BroadcasterID string

type User struct {
	ID            UserID
	BroadcasterID BroadcasterID
	Login         string
	DisplayName   string
	CreatedAt     time.Time
}

// Role is the access tier a user holds on a specific canvas.
type Role string

const (
	RoleNone      Role = ""
	RoleViewer    Role = "viewer"
	RoleAllowed   Role = "allowed"
	RoleModerator Role = "moderator"
	RoleOwner     Role = "owner"
)

// roleLevels gives roles a total order so comparisons never depend on the
// position of a literal in a slice.
var roleLevels = map[Role]int{
	RoleNone:      0,
	RoleViewer:    1,
	RoleAllowed:   2,
	RoleModerator: 3,
	RoleOwner:     4,
}

func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether r ranks at or above other in the role hierarchy.
func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level()
}
