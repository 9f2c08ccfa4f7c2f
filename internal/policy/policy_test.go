package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
)

var allLevels = []domain.AccessLevel{
	domain.AccessRoot,
	domain.AccessSystemAdmin,
	domain.AccessTeacher,
	domain.AccessObserver,
}

func TestCanAccessPage(t *testing.T) {
	allowed := map[Page][]domain.AccessLevel{
		PageDashboard:       {domain.AccessRoot, domain.AccessSystemAdmin},
		PageElections:       {domain.AccessRoot, domain.AccessSystemAdmin},
		PageStudents:        {domain.AccessRoot, domain.AccessSystemAdmin, domain.AccessTeacher},
		PageResults:         {domain.AccessRoot, domain.AccessSystemAdmin, domain.AccessObserver},
		PageAdminManagement: {domain.AccessRoot, domain.AccessSystemAdmin},
		PageActivity:        {domain.AccessRoot, domain.AccessSystemAdmin},
	}

	for page, levels := range allowed {
		want := make(map[domain.AccessLevel]bool)
		for _, l := range levels {
			want[l] = true
		}
		for _, l := range allLevels {
			assert.Equalf(t, want[l], CanAccessPage(page, l), "page %q level %v", page, l)
		}
	}
}

func TestCanAccessPage_EveryPageHasAnAllowedRole(t *testing.T) {
	for page := range pageRoles {
		found := false
		for _, l := range allLevels {
			if CanAccessPage(page, l) {
				found = true
				break
			}
		}
		assert.Truef(t, found, "page %q has no allowed role", page)
	}
}

func TestCanAccessPage_UnknownInputsAreDenied(t *testing.T) {
	assert.False(t, CanAccessPage(Page("settings"), domain.AccessRoot))
	assert.False(t, CanAccessPage(PageDashboard, domain.AccessLevel(42)))
	assert.False(t, CanAccessPage(Page(""), domain.AccessLevel(-1)))
}

func TestDefaultPage(t *testing.T) {
	assert.Equal(t, "/admin", DefaultPage(domain.AccessRoot))
	assert.Equal(t, "/admin", DefaultPage(domain.AccessSystemAdmin))
	assert.Equal(t, "/admin/students", DefaultPage(domain.AccessTeacher))
	assert.Equal(t, "/admin/results", DefaultPage(domain.AccessObserver))

	// Unrecognized roles fall back to /admin instead of failing.
	assert.Equal(t, "/admin", DefaultPage(domain.AccessLevel(99)))
	assert.Equal(t, "/admin", DefaultPage(domain.AccessLevel(-5)))
}

func TestCanCreateAdmin(t *testing.T) {
	tests := []struct {
		actor  domain.AccessLevel
		target domain.AccessLevel
		want   bool
	}{
		{domain.AccessRoot, domain.AccessRoot, true},
		{domain.AccessRoot, domain.AccessSystemAdmin, true},
		{domain.AccessRoot, domain.AccessTeacher, true},
		{domain.AccessRoot, domain.AccessObserver, true},

		{domain.AccessSystemAdmin, domain.AccessRoot, false},
		{domain.AccessSystemAdmin, domain.AccessSystemAdmin, false},
		{domain.AccessSystemAdmin, domain.AccessTeacher, true},
		{domain.AccessSystemAdmin, domain.AccessObserver, true},

		{domain.AccessTeacher, domain.AccessObserver, false},
		{domain.AccessObserver, domain.AccessObserver, false},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, CanCreateAdmin(tt.actor, tt.target), "actor %v target %v", tt.actor, tt.target)
	}
}

// Create, delete and the creatable list are one rule; verify they never drift.
func TestAdminRulesAgree(t *testing.T) {
	for _, actor := range allLevels {
		creatable := make(map[domain.AccessLevel]bool)
		for _, l := range CreatableAccessLevels(actor) {
			creatable[l] = true
		}
		for _, target := range allLevels {
			assert.Equalf(t, CanCreateAdmin(actor, target), CanDeleteAdmin(actor, target),
				"create/delete disagree for actor %v target %v", actor, target)
			assert.Equalf(t, CanCreateAdmin(actor, target), creatable[target],
				"create/creatable disagree for actor %v target %v", actor, target)
		}
	}
}

func TestCreatableAccessLevels_Order(t *testing.T) {
	assert.Equal(t, allLevels, CreatableAccessLevels(domain.AccessRoot))
	assert.Equal(t,
		[]domain.AccessLevel{domain.AccessTeacher, domain.AccessObserver},
		CreatableAccessLevels(domain.AccessSystemAdmin))
	assert.Empty(t, CreatableAccessLevels(domain.AccessTeacher))
	assert.Empty(t, CreatableAccessLevels(domain.AccessObserver))
}

func TestCanEditAdmin(t *testing.T) {
	assert.True(t, CanEditAdmin(domain.AccessRoot))
	assert.False(t, CanEditAdmin(domain.AccessSystemAdmin))
	assert.False(t, CanEditAdmin(domain.AccessTeacher))
	assert.False(t, CanEditAdmin(domain.AccessObserver))
}

func TestTwoTierPredicates(t *testing.T) {
	for _, l := range allLevels {
		want := l == domain.AccessRoot || l == domain.AccessSystemAdmin
		assert.Equal(t, want, CanViewAdminManagement(l))
		assert.Equal(t, want, CanManageStudents(l))
	}
	assert.False(t, CanViewAdminManagement(domain.AccessLevel(7)))
	assert.False(t, CanManageStudents(domain.AccessLevel(7)))
}
