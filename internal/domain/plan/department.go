package plan

import "slices"

// Department names
const (
	DepartmentWater          = "Отдел по анализу воды"
	DepartmentAir            = "Отдел по анализу воздуха"
	DepartmentSoil           = "Отдел по анализу почв, продукции и отходов"
	DepartmentBiology        = "Отдел биологического анализа"
	DepartmentChromatography = "Отдел хроматографического анализа"
	DepartmentQuality        = "Отдел управления качеством"
	DepartmentStorage        = "Учет, хранение и выдача"
)

// NeedsDepartments are the departments that hold plan entries
var NeedsDepartments = []string{
	DepartmentWater,
	DepartmentAir,
	DepartmentSoil,
	DepartmentBiology,
	DepartmentChromatography,
	DepartmentQuality,
}

// Departments lists every department a user can belong to
var Departments = append(slices.Clone(NeedsDepartments), DepartmentStorage)

// IsNeedsDepartment reports whether d can own need entries
func IsNeedsDepartment(d string) bool {
	return slices.Contains(NeedsDepartments, d)
}

// IsDepartment reports whether d is a known department
func IsDepartment(d string) bool {
	return slices.Contains(Departments, d)
}
