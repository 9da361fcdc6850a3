package constants

import "fmt"

const (
	RoleMale       = "male"
	RoleFemale     = "female"
	RoleImam       = "imam"
	RoleSuperadmin = "superadmin"
)

// Template pesan error role
const (
	ErrOnlyMembersCanAccess    = "❌ Hanya member (male/female) yang boleh mengakses fitur %s."
	ErrOnlyImamsCanAccess      = "❌ Hanya imam yang boleh mengakses fitur %s."
	ErrOnlySuperadminCanAccess = "❌ Hanya superadmin yang boleh mengakses fitur %s."
)

func RoleErrorMember(feature string) string {
	return fmt.Sprintf(ErrOnlyMembersCanAccess, feature)
}

func RoleErrorImam(feature string) string {
	return fmt.Sprintf(ErrOnlyImamsCanAccess, feature)
}

func RoleErrorSuperadmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperadminCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleMale,
		RoleFemale,
		RoleImam,
		RoleSuperadmin,
	}

	MemberRoles = []string{
		RoleMale,
		RoleFemale,
	}

	ImamOnly = []string{
		RoleImam,
	}

	SuperadminOnly = []string{
		RoleSuperadmin,
	}
)
