// Package roles is the canonical role vocabulary shared by the
// identity-access modules. Capabilities derived from roles live in the
// authorization-service policy; this package only answers "is this a role"
// and normalizes the legacy aliases some key-management clients still send.
package roles

const (
	Student = "student"
	Teacher = "teacher"
	Admin   = "admin"
)

// Legacy key-management clients used viewer/editor/admin. The mapping is
// defined once, here: viewer=student, editor=teacher.
var legacyAliases = map[string]string{
	"viewer": Student,
	"editor": Teacher,
}

func IsValid(role string) bool {
	switch role {
	case Student, Teacher, Admin:
		return true
	default:
		return false
	}
}

// Canonical resolves a role name or legacy alias to the canonical
// vocabulary. The second return reports whether the input named any role.
func Canonical(role string) (string, bool) {
	if IsValid(role) {
		return role, true
	}
	if mapped, ok := legacyAliases[role]; ok {
		return mapped, true
	}
	return "", false
}

// IsStaff reports whether the role carries the staff privilege flag.
func IsStaff(role string) bool {
	return role == Teacher || role == Admin
}

// IsSuperuser reports whether the role carries the superuser privilege flag.
func IsSuperuser(role string) bool {
	return role == Admin
}
