package domain

// Role represents a participant's role in a game
type Role string

const (
	RoleCitizen     Role = "CITIZEN"
	RoleInfiltrator Role = "INFILTRATOR"
	RoleAgent       Role = "AGENT"
	RoleSpy         Role = "SPY"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsDeviant returns true for the minority role that holds different information
func (r Role) IsDeviant() bool {
	return r == RoleInfiltrator || r == RoleSpy
}
