package rbac

import (
	"slices"

	"github.com/google/uuid"
)

// Module identifies a functional area of the administration application.
// The set is closed and known at compile time.
type Module string

const (
	ModuleDashboard  Module = "dashboard"
	ModuleStudents   Module = "students"
	ModuleTeachers   Module = "teachers"
	ModuleClasses    Module = "classes"
	ModuleAttendance Module = "attendance"
	ModuleExams      Module = "exams"
	ModuleFees       Module = "fees"
	ModuleAccounting Module = "accounting"
	ModuleLibrary    Module = "library"
	ModuleTransport  Module = "transport"
	ModuleHostel     Module = "hostel"
	ModuleHR         Module = "hr"
	ModuleInventory  Module = "inventory"
	ModuleNotices    Module = "notices"
	ModuleReports    Module = "reports"
	ModuleSettings   Module = "settings"
	ModuleRoles      Module = "roles"
)

// allModules lists every module in stable catalog order.
var allModules = []Module{
	ModuleDashboard,
	ModuleStudents,
	ModuleTeachers,
	ModuleClasses,
	ModuleAttendance,
	ModuleExams,
	ModuleFees,
	ModuleAccounting,
	ModuleLibrary,
	ModuleTransport,
	ModuleHostel,
	ModuleHR,
	ModuleInventory,
	ModuleNotices,
	ModuleReports,
	ModuleSettings,
	ModuleRoles,
}

// Modules returns all known modules in stable catalog order.
func Modules() []Module {
	return slices.Clone(allModules)
}

// Valid reports whether the module is part of the closed enumeration.
func (m Module) Valid() bool {
	return slices.Contains(allModules, m)
}

// Action identifies an operation class performed against a module.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
	ActionImport Action = "import"
)

var allActions = []Action{
	ActionView,
	ActionCreate,
	ActionEdit,
	ActionDelete,
	ActionExport,
	ActionImport,
}

// Actions returns all known actions in stable catalog order.
func Actions() []Action {
	return slices.Clone(allActions)
}

// Valid reports whether the action is part of the closed enumeration.
func (a Action) Valid() bool {
	return slices.Contains(allActions, a)
}

// Permission grants a set of actions on a single module. Within one
// permission list a module appears at most once; the action set is the
// union of actions granted for it.
type Permission struct {
	Module  Module   `json:"module" bson:"module"`
	Actions []Action `json:"actions" bson:"actions"`
}

// Allows reports whether the permission's action set contains the action.
func (p Permission) Allows(action Action) bool {
	return slices.Contains(p.Actions, action)
}

// BuiltInRole is one of the fixed roles shipped with the application.
// Every identity carries exactly one built-in role.
type BuiltInRole string

const (
	RoleSuperAdmin   BuiltInRole = "super_admin"
	RoleSchoolAdmin  BuiltInRole = "school_admin"
	RoleSubAdmin     BuiltInRole = "sub_admin"
	RoleTeacher      BuiltInRole = "teacher"
	RoleStudent      BuiltInRole = "student"
	RoleParent       BuiltInRole = "parent"
	RoleAccountant   BuiltInRole = "accountant"
	RoleLibrarian    BuiltInRole = "librarian"
	RoleReceptionist BuiltInRole = "receptionist"
	RoleNurse        BuiltInRole = "nurse"
	RoleSecurity     BuiltInRole = "security"
	RoleMaintenance  BuiltInRole = "maintenance"
)

var allBuiltInRoles = []BuiltInRole{
	RoleSuperAdmin,
	RoleSchoolAdmin,
	RoleSubAdmin,
	RoleTeacher,
	RoleStudent,
	RoleParent,
	RoleAccountant,
	RoleLibrarian,
	RoleReceptionist,
	RoleNurse,
	RoleSecurity,
	RoleMaintenance,
}

// BuiltInRoles returns all built-in roles in stable catalog order.
func BuiltInRoles() []BuiltInRole {
	return slices.Clone(allBuiltInRoles)
}

// Valid reports whether the role is part of the closed enumeration.
func (r BuiltInRole) Valid() bool {
	return slices.Contains(allBuiltInRoles, r)
}

// Identity is the minimal view of an authenticated principal the
// authorization layer needs. It is supplied by the external identity
// provider; this package never constructs or validates credentials.
type Identity struct {
	ID       uuid.UUID   `json:"id"`
	TenantID uuid.UUID   `json:"tenant_id"`
	Role     BuiltInRole `json:"role"`

	// PermissionOverride, when non-empty, replaces the role's default
	// permission table entirely. It is hand-authored per account by
	// tenant administrators and absent for most users.
	PermissionOverride []Permission `json:"permission_override,omitempty"`
}

// RoleTemplate is a canned permission bundle used to pre-fill a custom
// role at creation time. Templates are static and tenant-independent;
// instantiated roles keep no reference back to them.
type RoleTemplate struct {
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	SuggestedRoles []BuiltInRole `json:"suggested_roles"`
	Permissions    []Permission  `json:"permissions"`
}

// ClonePermissions returns a deep copy of the permission list so callers
// can mutate the result without aliasing shared catalog data.
func ClonePermissions(perms []Permission) []Permission {
	if perms == nil {
		return nil
	}
	out := make([]Permission, len(perms))
	for i, p := range perms {
		out[i] = Permission{
			Module:  p.Module,
			Actions: slices.Clone(p.Actions),
		}
	}
	return out
}
