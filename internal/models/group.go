package models

// Group represents a set of members who share costs.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Goa Trip", "Flat 4B").
	Name string

	// CreatorID is the member who created the group. The creator is always
	// a member, cannot be removed, and is the only one allowed to delete
	// the group or remove other members.
	CreatorID string

	// Members holds the opaque user ids in this group, duplicate-free.
	Members []string

	// EventDate is an optional date for the occasion the group tracks,
	// as a Unix timestamp. Zero means unset.
	EventDate int64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is in the member list.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
