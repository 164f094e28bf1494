package models

// RoleType is the global role of an identity.
type RoleType string

const (
	RoleStudent  RoleType = "student"
	RoleClubHead RoleType = "club_head"
	RoleAdmin    RoleType = "admin"
)

// Valid reports whether r is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleClubHead, RoleAdmin:
		return true
	}
	return false
}

// RequestStatus is the moderation state of a pending submission.
// pending is the only non-terminal state.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// MembershipRole is the role an identity holds inside one club.
type MembershipRole string

const (
	MembershipRoleMember MembershipRole = "member"
	MembershipRoleHead   MembershipRole = "head"
)
