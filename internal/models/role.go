package models

// Role is the closed set of access levels. Ordering matters:
// every capability check goes through AtLeast, never through
// scattered string comparisons.
type Role string

const (
	RoleVisitor     Role = "VISITOR"
	RoleEditorAdmin Role = "EDITOR_ADMIN"
	RoleAdmin       Role = "ADMIN"
)

var roleRank = map[Role]int{
	RoleVisitor:     0,
	RoleEditorAdmin: 1,
	RoleAdmin:       2,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries at least the capabilities of min.
// Unknown roles rank below VISITOR.
func (r Role) AtLeast(min Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	return rr >= roleRank[min]
}
