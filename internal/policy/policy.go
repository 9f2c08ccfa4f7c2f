// Package policy is the role-based permission matrix gating every admin page
// and admin-management action. Every rule is a static lookup so the whole
// policy can be audited in one place. All functions are pure and total:
// unrecognized pages or access levels fall back closed, never panic.
package policy

import "github.com/yizeng/gab/gin/gorm/school-election/internal/domain"

// Page names the admin pages the policy knows about.
type Page string

const (
	PageDashboard       Page = "dashboard"
	PageElections       Page = "elections"
	PageStudents        Page = "students"
	PageResults         Page = "results"
	PageAdminManagement Page = "adminManagement"
	PageActivity        Page = "activity"
)

// DefaultPagePath is where an unrecognized role lands.
const DefaultPagePath = "/admin"

var pageRoles = map[Page][]domain.AccessLevel{
	PageDashboard:       {domain.AccessRoot, domain.AccessSystemAdmin},
	PageElections:       {domain.AccessRoot, domain.AccessSystemAdmin},
	PageStudents:        {domain.AccessRoot, domain.AccessSystemAdmin, domain.AccessTeacher},
	PageResults:         {domain.AccessRoot, domain.AccessSystemAdmin, domain.AccessObserver},
	PageAdminManagement: {domain.AccessRoot, domain.AccessSystemAdmin},
	PageActivity:        {domain.AccessRoot, domain.AccessSystemAdmin},
}

var defaultPages = map[domain.AccessLevel]string{
	domain.AccessRoot:        "/admin",
	domain.AccessSystemAdmin: "/admin",
	domain.AccessTeacher:     "/admin/students",
	domain.AccessObserver:    "/admin/results",
}

// creatableLevels also drives CanCreateAdmin and CanDeleteAdmin; the three
// must always agree.
var creatableLevels = map[domain.AccessLevel][]domain.AccessLevel{
	domain.AccessRoot: {
		domain.AccessRoot,
		domain.AccessSystemAdmin,
		domain.AccessTeacher,
		domain.AccessObserver,
	},
	domain.AccessSystemAdmin: {
		domain.AccessTeacher,
		domain.AccessObserver,
	},
}

// CanAccessPage reports whether the given role may load the given admin page.
// Unknown pages and unknown roles are denied.
func CanAccessPage(page Page, level domain.AccessLevel) bool {
	for _, allowed := range pageRoles[page] {
		if allowed == level {
			return true
		}
	}
	return false
}

// DefaultPage is the landing path for a role, used both after login and as the
// redirect target on a policy denial.
func DefaultPage(level domain.AccessLevel) string {
	if path, ok := defaultPages[level]; ok {
		return path
	}
	return DefaultPagePath
}

// CanCreateAdmin reports whether an actor may create an account with the
// target level. Root may create anyone; system admins may only create
// teachers and observers, never peers or root.
func CanCreateAdmin(actor, target domain.AccessLevel) bool {
	for _, level := range creatableLevels[actor] {
		if level == target {
			return true
		}
	}
	return false
}

// CreatableAccessLevels lists, in canonical order, the levels the actor may
// assign when creating an account. Empty for teachers and observers.
func CreatableAccessLevels(actor domain.AccessLevel) []domain.AccessLevel {
	levels := creatableLevels[actor]
	out := make([]domain.AccessLevel, len(levels))
	copy(out, levels)
	return out
}

// CanDeleteAdmin mirrors CanCreateAdmin. Deleting one's own account is not
// special-cased here; callers add that guard.
func CanDeleteAdmin(actor, target domain.AccessLevel) bool {
	return CanCreateAdmin(actor, target)
}

// CanEditAdmin reports whether the actor may edit another admin's role or
// identity. Only root may.
func CanEditAdmin(actor domain.AccessLevel) bool {
	return actor == domain.AccessRoot
}

func CanViewAdminManagement(level domain.AccessLevel) bool {
	return level == domain.AccessRoot || level == domain.AccessSystemAdmin
}

func CanManageStudents(level domain.AccessLevel) bool {
	return level == domain.AccessRoot || level == domain.AccessSystemAdmin
}
