package rbac

// view is a shorthand action set used throughout the default table.
var (
	view       = []Action{ActionView}
	viewExport = []Action{ActionView, ActionExport}
	manage     = []Action{ActionView, ActionCreate, ActionEdit}
	full       = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionExport, ActionImport}
)

// defaultPermissions is the immutable default table: one entry per
// built-in role, initialized at process start and never mutated.
// Every role reaches the dashboard; everything else is role-specific.
var defaultPermissions = map[BuiltInRole][]Permission{
	RoleSuperAdmin: AllPermissions(),
	RoleSchoolAdmin: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleStudents, Actions: full},
		{Module: ModuleTeachers, Actions: full},
		{Module: ModuleClasses, Actions: full},
		{Module: ModuleAttendance, Actions: full},
		{Module: ModuleExams, Actions: full},
		{Module: ModuleFees, Actions: full},
		{Module: ModuleAccounting, Actions: full},
		{Module: ModuleLibrary, Actions: full},
		{Module: ModuleTransport, Actions: full},
		{Module: ModuleHostel, Actions: full},
		{Module: ModuleHR, Actions: full},
		{Module: ModuleInventory, Actions: full},
		{Module: ModuleNotices, Actions: full},
		{Module: ModuleReports, Actions: viewExport},
		{Module: ModuleSettings, Actions: manage},
		{Module: ModuleRoles, Actions: full},
	},
	RoleSubAdmin: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleStudents, Actions: manage},
		{Module: ModuleTeachers, Actions: view},
		{Module: ModuleClasses, Actions: manage},
		{Module: ModuleAttendance, Actions: manage},
		{Module: ModuleExams, Actions: manage},
		{Module: ModuleNotices, Actions: manage},
		{Module: ModuleReports, Actions: view},
	},
	RoleTeacher: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleStudents, Actions: view},
		{Module: ModuleClasses, Actions: view},
		{Module: ModuleAttendance, Actions: manage},
		{Module: ModuleExams, Actions: manage},
		{Module: ModuleLibrary, Actions: view},
		{Module: ModuleNotices, Actions: view},
	},
	RoleStudent: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleClasses, Actions: view},
		{Module: ModuleAttendance, Actions: view},
		{Module: ModuleExams, Actions: view},
		{Module: ModuleFees, Actions: view},
		{Module: ModuleLibrary, Actions: view},
		{Module: ModuleNotices, Actions: view},
	},
	RoleParent: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleAttendance, Actions: view},
		{Module: ModuleExams, Actions: view},
		{Module: ModuleFees, Actions: view},
		{Module: ModuleNotices, Actions: view},
	},
	RoleAccountant: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleStudents, Actions: view},
		{Module: ModuleFees, Actions: full},
		{Module: ModuleAccounting, Actions: full},
		{Module: ModuleReports, Actions: viewExport},
	},
	RoleLibrarian: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleStudents, Actions: view},
		{Module: ModuleLibrary, Actions: full},
		{Module: ModuleReports, Actions: view},
	},
	RoleReceptionist: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleStudents, Actions: manage},
		{Module: ModuleNotices, Actions: view},
	},
	RoleNurse: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleStudents, Actions: view},
		{Module: ModuleNotices, Actions: view},
	},
	RoleSecurity: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleNotices, Actions: view},
	},
	RoleMaintenance: {
		{Module: ModuleDashboard, Actions: view},
		{Module: ModuleInventory, Actions: manage},
		{Module: ModuleNotices, Actions: view},
	},
}

// DefaultPermissions returns the default permission list for a built-in
// role. The result is a deep copy safe for the caller to mutate. It is a
// total function over the closed enumeration; an unrecognized role
// yields nil.
func DefaultPermissions(role BuiltInRole) []Permission {
	perms, ok := defaultPermissions[role]
	if !ok {
		return nil
	}
	return ClonePermissions(perms)
}

// AllPermissions returns a permission list granting every action on
// every module, in stable catalog order.
func AllPermissions() []Permission {
	perms := make([]Permission, len(allModules))
	for i, m := range allModules {
		perms[i] = Permission{Module: m, Actions: Actions()}
	}
	return perms
}
