package actor

// Role is an ordered capability set: everything a lower role can do, every
// higher role can do as well. Comparisons go through AtLeast so that adding a
// role never reintroduces ad hoc string branches.
type Role string

const (
	RolePublic Role = "public"
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
)

var roleRank = map[Role]int{
	RolePublic: 0,
	RoleUser:   1,
	RoleAdmin:  2,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the capabilities of min.
// Unknown roles grant nothing.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	minRank, ok := roleRank[min]
	if !ok {
		return false
	}
	return rank >= minRank
}
