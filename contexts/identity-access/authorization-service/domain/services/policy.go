package services

import (
	"athenaeum/internal/shared/principal"
	"athenaeum/internal/shared/roles"
)

// CanEdit grants teachers and admins edit rights on any resource; everyone
// else only on their own.
func CanEdit(p principal.Principal, authorID string) bool {
	if !p.Authenticated {
		return false
	}
	if roles.IsStaff(p.Role) {
		return true
	}
	return authorID != "" && p.AccountID == authorID
}

// CanDelete is stricter than CanEdit: only admins reach beyond their own
// resources.
func CanDelete(p principal.Principal, authorID string) bool {
	if !p.Authenticated {
		return false
	}
	if roles.IsSuperuser(p.Role) {
		return true
	}
	return authorID != "" && p.AccountID == authorID
}

// CanCreateContent is a staff capability: teachers and admins publish to
// the library, students consume it.
func CanCreateContent(p principal.Principal) bool {
	return p.Authenticated && roles.IsStaff(p.Role)
}

// CanManageTopics is a staff capability (teacher or admin).
func CanManageTopics(p principal.Principal) bool {
	return p.Authenticated && roles.IsStaff(p.Role)
}

// CanManageKeys gates key generation, revocation, and the creator-scoped
// listing (teacher or admin).
func CanManageKeys(p principal.Principal) bool {
	return p.Authenticated && roles.IsStaff(p.Role)
}

// CanManageAccounts gates the account roster and admin mutations.
func CanManageAccounts(p principal.Principal) bool {
	return p.Authenticated && roles.IsSuperuser(p.Role)
}
