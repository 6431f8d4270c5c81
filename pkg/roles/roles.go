package roles

// Role is the permission level assigned to a user account.
type Role string

const (
	Field     Role = "field"
	Manager   Role = "manager"
	Admin     Role = "admin"
	Superuser Role = "superuser"
)

type HierarchyLevel int

const (
	FieldLevel     HierarchyLevel = 1
	ManagerLevel   HierarchyLevel = 2
	AdminLevel     HierarchyLevel = 3
	SuperuserLevel HierarchyLevel = 4
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Field:
		return FieldLevel
	case Manager:
		return ManagerLevel
	case Admin:
		return AdminLevel
	case Superuser:
		return SuperuserLevel
	default:
		return FieldLevel
	}
}

// HasPermission reports whether the role is at least the required role.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case Field, Manager, Admin, Superuser:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
