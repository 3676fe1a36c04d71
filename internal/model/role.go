package model

// Role is a closed enumeration of access levels. Authorization is expressed
// as capability checks against this type instead of string-array membership.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleViewer Role = "VIEWER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleViewer:
		return true
	}
	return false
}

// Capability names one permitted action.
type Capability string

const (
	CapProductWrite      Capability = "product:write"
	CapTransactionView   Capability = "transaction:view"
	CapTransactionWrite  Capability = "transaction:write"
	CapTransactionDelete Capability = "transaction:delete"
	CapUserManage        Capability = "user:manage"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapProductWrite,
		CapTransactionView,
		CapTransactionWrite,
		CapTransactionDelete,
		CapUserManage,
	},
	RoleStaff: {
		CapProductWrite,
		CapTransactionView,
		CapTransactionWrite,
	},
	RoleViewer: {
		CapTransactionView,
	},
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}
