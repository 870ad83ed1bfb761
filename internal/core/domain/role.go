package domain

import "strings"

// Role is a permission level granted to a user.
type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// DefaultRole is assigned when signup carries no usable role hint.
const DefaultRole = RoleUser

// roleHints maps the hints accepted at signup to roles.
var roleHints = map[string]Role{
	"user":  RoleUser,
	"admin": RoleAdmin,
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleFromHint maps a signup hint ("user", "admin") to a role. Unknown hints
// resolve to DefaultRole.
func RoleFromHint(hint string) Role {
	if r, ok := roleHints[strings.ToLower(strings.TrimSpace(hint))]; ok {
		return r
	}
	return DefaultRole
}

// RolesFromHints resolves a list of hints into a de-duplicated, non-empty
// role list. Admin hints are downgraded unless allowAdmin is set.
func RolesFromHints(hints []string, allowAdmin bool) []Role {
	seen := make(map[Role]struct{}, len(hints))
	roles := make([]Role, 0, len(hints))
	for _, h := range hints {
		r := RoleFromHint(h)
		if r == RoleAdmin && !allowAdmin {
			r = DefaultRole
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	if len(roles) == 0 {
		roles = append(roles, DefaultRole)
	}
	return roles
}

// HasAnyRole reports whether held and allowed share at least one role.
func HasAnyRole(held []Role, allowed ...Role) bool {
	for _, h := range held {
		for _, a := range allowed {
			if h == a {
				return true
			}
		}
	}
	return false
}
