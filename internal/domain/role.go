package domain

// Role determines message visibility and private-routing eligibility.
type Role string

const (
	RoleUser       Role = "user"
	RoleAgent      Role = "agent"
	RoleSupervisor Role = "supervisor"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleSupervisor:
		return true
	}
	return false
}

// Staff reports whether r sees presence churn and private traffic.
// End users do not.
func (r Role) Staff() bool {
	return r == RoleAgent || r == RoleSupervisor
}
