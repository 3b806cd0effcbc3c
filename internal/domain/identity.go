package domain

import "strings"

// Role tags a caller as passenger-class or staff.
type Role string

const (
	RoleUser          Role = "USER"
	RolePassenger     Role = "PASSENGER"
	RoleStationStaff  Role = "STATION_STAFF"
	RoleStationMaster Role = "STATION_MASTER"
	RoleRPFAdmin      Role = "RPF_ADMIN"
	RoleAdmin         Role = "ADMIN"
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleUnknown       Role = "UNKNOWN"
)

var knownRoles = map[Role]struct{}{
	RoleUser:          {},
	RolePassenger:     {},
	RoleStationStaff:  {},
	RoleStationMaster: {},
	RoleRPFAdmin:      {},
	RoleAdmin:         {},
	RoleSuperAdmin:    {},
}

// ParseRole normalizes a role tag; unrecognized tags become RoleUnknown.
func ParseRole(raw string) Role {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := knownRoles[role]; ok {
		return role
	}
	return RoleUnknown
}

// IsPassenger reports whether the role denotes an end-user filer.
func (r Role) IsPassenger() bool {
	return r == RoleUser || r == RolePassenger
}

// IsStaff reports whether the role belongs to operations staff.
func (r Role) IsStaff() bool {
	return r != RoleUnknown && !r.IsPassenger() && r != ""
}

// Identity is the caller as known to the identity provider.
type Identity struct {
	Username string
	FullName *string
	Role     Role
	Station  *string
}
