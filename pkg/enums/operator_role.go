package enums

import "fmt"

// OperatorRole is the role carried in an operator's access token.
type OperatorRole string

const (
	OperatorRoleSalesRep   OperatorRole = "sales_rep"
	OperatorRoleCashier    OperatorRole = "cashier"
	OperatorRoleSupervisor OperatorRole = "supervisor"
)

var validOperatorRoles = []OperatorRole{
	OperatorRoleSalesRep,
	OperatorRoleCashier,
	OperatorRoleSupervisor,
}

// String implements fmt.Stringer.
func (o OperatorRole) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OperatorRole.
func (o OperatorRole) IsValid() bool {
	for _, candidate := range validOperatorRoles {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOperatorRole converts raw input into an OperatorRole.
func ParseOperatorRole(value string) (OperatorRole, error) {
	for _, candidate := range validOperatorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid operator role %q", value)
}
