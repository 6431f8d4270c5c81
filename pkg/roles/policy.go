package roles

import "time"

// Policy rules that depend on more than the plain role hierarchy live here,
// so handlers don't each grow their own ownership branching.

// CanEditAssembly: creators may rework their own drafts and rejected
// assemblies, admins may edit anything.
func CanEditAssembly(role Role, isOwner bool, status string) bool {
	if role.HasPermission(Admin) {
		return true
	}
	if !isOwner {
		return false
	}
	return status == "draft" || status == "rejected"
}

// CanDeleteAssembly: creators may only discard their own drafts.
func CanDeleteAssembly(role Role, isOwner bool, status string) bool {
	if role.HasPermission(Admin) {
		return true
	}
	return isOwner && status == "draft"
}

// CanDecideAssembly gates the approve/reject operations.
func CanDecideAssembly(role Role) bool {
	return role.HasPermission(Admin)
}

// CanDeleteUsageLog: the creator or an admin may delete, but a field-role
// creator only on the day the usage was logged.
func CanDeleteUsageLog(role Role, isOwner bool, logDate time.Time, now time.Time) bool {
	if role.HasPermission(Admin) {
		return true
	}
	if !isOwner {
		return false
	}
	if role == Field {
		y1, m1, d1 := logDate.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	return true
}

// CanGrantRole: a user may only assign roles below their own level, except
// superusers who may assign anything.
func CanGrantRole(actor Role, target Role) bool {
	if actor == Superuser {
		return true
	}
	return actor.GetHierarchyLevel() > target.GetHierarchyLevel()
}
