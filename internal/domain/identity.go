package domain

// Identity is the verified caller attached to a request.
type Identity struct {
	ID   string
	Role Role
}

// IsModerator reports whether the identity carries the moderator role.
func (i Identity) IsModerator() bool {
	return i.Role == RoleModerator
}
