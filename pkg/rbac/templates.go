package rbac

// roleTemplates is the canned template library shipped with the binary.
// Templates only seed custom roles at creation time; instantiated roles
// keep their own copy of the permission list.
var roleTemplates = []RoleTemplate{
	{
		Name:           "HR Manager",
		Description:    "Staff records, payroll and recruitment across the HR module.",
		SuggestedRoles: []BuiltInRole{RoleSchoolAdmin, RoleSubAdmin},
		Permissions: []Permission{
			{Module: ModuleDashboard, Actions: view},
			{Module: ModuleTeachers, Actions: manage},
			{Module: ModuleHR, Actions: full},
			{Module: ModuleReports, Actions: viewExport},
		},
	},
	{
		Name:           "Finance Manager",
		Description:    "Fee collection and accounting with export access for audits.",
		SuggestedRoles: []BuiltInRole{RoleAccountant, RoleSubAdmin},
		Permissions: []Permission{
			{Module: ModuleDashboard, Actions: view},
			{Module: ModuleFees, Actions: manage},
			{Module: ModuleAccounting, Actions: viewExport},
			{Module: ModuleReports, Actions: viewExport},
		},
	},
	{
		Name:           "Academic Coordinator",
		Description:    "Class scheduling, attendance oversight and exam administration.",
		SuggestedRoles: []BuiltInRole{RoleSubAdmin, RoleTeacher},
		Permissions: []Permission{
			{Module: ModuleDashboard, Actions: view},
			{Module: ModuleStudents, Actions: view},
			{Module: ModuleClasses, Actions: full},
			{Module: ModuleAttendance, Actions: manage},
			{Module: ModuleExams, Actions: full},
			{Module: ModuleReports, Actions: view},
		},
	},
	{
		Name:           "Front Desk",
		Description:    "Admissions intake and visitor-facing student lookups.",
		SuggestedRoles: []BuiltInRole{RoleReceptionist},
		Permissions: []Permission{
			{Module: ModuleDashboard, Actions: view},
			{Module: ModuleStudents, Actions: manage},
			{Module: ModuleNotices, Actions: manage},
		},
	},
	{
		Name:           "Transport Manager",
		Description:    "Route planning and vehicle inventory.",
		SuggestedRoles: []BuiltInRole{RoleSubAdmin, RoleMaintenance},
		Permissions: []Permission{
			{Module: ModuleDashboard, Actions: view},
			{Module: ModuleTransport, Actions: full},
			{Module: ModuleInventory, Actions: view},
		},
	},
	{
		Name:           "Hostel Warden",
		Description:    "Hostel allocation and resident student records.",
		SuggestedRoles: []BuiltInRole{RoleSubAdmin},
		Permissions: []Permission{
			{Module: ModuleDashboard, Actions: view},
			{Module: ModuleStudents, Actions: view},
			{Module: ModuleHostel, Actions: full},
			{Module: ModuleNotices, Actions: view},
		},
	},
}

// Templates returns the template library in stable order. The returned
// slice is a deep copy; edits to it never reach the catalog.
func Templates() []RoleTemplate {
	out := make([]RoleTemplate, len(roleTemplates))
	for i, t := range roleTemplates {
		out[i] = cloneTemplate(t)
	}
	return out
}

// TemplateByName looks up a template by its exact name.
func TemplateByName(name string) (RoleTemplate, bool) {
	for _, t := range roleTemplates {
		if t.Name == name {
			return cloneTemplate(t), true
		}
	}
	return RoleTemplate{}, false
}

func cloneTemplate(t RoleTemplate) RoleTemplate {
	return RoleTemplate{
		Name:           t.Name,
		Description:    t.Description,
		SuggestedRoles: append([]BuiltInRole(nil), t.SuggestedRoles...),
		Permissions:    ClonePermissions(t.Permissions),
	}
}
