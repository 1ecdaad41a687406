package models

type UserRole string

const (
	SpaceAdminRole UserRole = "SPACE_ADMIN_ROLE"
	FounderRole    UserRole = "FOUNDER_ROLE"
	ValidatorRole  UserRole = "VALIDATOR_ROLE"
)

var roleHumanName = map[UserRole]string{
	SpaceAdminRole: "Space administrator",
	FounderRole:    "Founder",
	ValidatorRole:  "Validator",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsSpaceAdmin() bool {
	return r == SpaceAdminRole
}

const SystemUser = "system"
