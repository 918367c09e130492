package model

// Role is the verified role of the caller.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Identity is the already-authenticated caller of an operation.
type Identity struct {
	UserID int64
	Role   Role
}

// IsOperator reports whether the caller belongs to the operations team.
func (i Identity) IsOperator() bool {
	return i.Role == RoleEmployee || i.Role == RoleAdmin
}
