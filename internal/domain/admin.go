package domain

import "time"

// AccessLevel is the closed set of admin privilege tiers. It is stored as a
// small integer tag; any value outside the declared constants is treated as
// unrecognized and falls back to the least privileged path everywhere.
type AccessLevel int

const (
	AccessRoot AccessLevel = iota
	AccessSystemAdmin
	AccessTeacher
	AccessObserver
)

var accessLevelNames = map[AccessLevel]string{
	AccessRoot:        "root",
	AccessSystemAdmin: "system_admin",
	AccessTeacher:     "teacher",
	AccessObserver:    "observer",
}

func (l AccessLevel) String() string {
	if name, ok := accessLevelNames[l]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether l is one of the declared access levels.
func (l AccessLevel) Valid() bool {
	_, ok := accessLevelNames[l]
	return ok
}

// ParseAccessLevel maps a role string coming from a session or request back to
// an AccessLevel. The second return value is false for unrecognized values.
func ParseAccessLevel(s string) (AccessLevel, bool) {
	for level, name := range accessLevelNames {
		if name == s {
			return level, true
		}
	}
	return 0, false
}

type AdminAccount struct {
	ID           uint        `json:"id"`
	Username     string      `json:"username"`
	DisplayName  string      `json:"display_name"`
	AccessLevel  AccessLevel `json:"access_level"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// AdminUpdate carries the fields an admin edit may change. Nil means "leave
// as is". AccessLevel changes are restricted to root by the policy layer.
type AdminUpdate struct {
	DisplayName *string      `json:"display_name"`
	Password    *string      `json:"password"`
	AccessLevel *AccessLevel `json:"access_level"`
}
