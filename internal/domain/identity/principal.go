package identity

import "github.com/labstock/backend/internal/domain/plan"

// Principal is the authenticated caller of an operation.
// It is built from a stored user or from verified token claims.
type Principal struct {
	Username   string
	Role       Role
	Department string
}

// IsAdmin reports administrator role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsStorage reports membership of the storage department
func (p Principal) IsStorage() bool {
	return p.Department == plan.DepartmentStorage
}

// IsQuality reports membership of the quality department
func (p Principal) IsQuality() bool {
	return p.Department == plan.DepartmentQuality
}

// CanIssue reports whether p may issue stock and process store requests
func (p Principal) CanIssue() bool {
	return p.IsAdmin() || p.IsStorage()
}

// CanManageStock reports whether p may receive, edit or remove stock
func (p Principal) CanManageStock() bool {
	return p.IsAdmin() || p.IsStorage()
}

// CanResolveOverflow reports whether p may approve or reject overflow requests
func (p Principal) CanResolveOverflow() bool {
	return p.IsAdmin() || p.IsQuality()
}

// CanEditNeedsOf reports whether p may create, edit or delete needs of department.
// Administrators never edit need content.
func (p Principal) CanEditNeedsOf(department string) bool {
	return !p.IsAdmin() && p.Department == department && plan.IsNeedsDepartment(department)
}

// CanSubmitStoreRequestFor reports whether p may ask the store to issue for department
func (p Principal) CanSubmitStoreRequestFor(department string) bool {
	return !p.IsAdmin() && p.Department == department && !p.IsStorage() && !p.IsQuality()
}

// CanViewAllDepartments reports whether p sees every department's needs and requests
func (p Principal) CanViewAllDepartments() bool {
	return p.IsAdmin() || p.IsStorage() || p.IsQuality()
}

// CanView reports whether p may read data belonging to department
func (p Principal) CanView(department string) bool {
	return p.CanViewAllDepartments() || p.Department == department
}
