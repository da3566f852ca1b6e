package entity

type Role string

const (
	RoleMember Role = "member"
	RoleElder  Role = "elder"
	RoleAdmin  Role = "admin"
)

// IsLeader reports whether the role may author follow-up notes and record
// attendance.
func (r Role) IsLeader() bool {
	return r == RoleElder || r == RoleAdmin
}

type ProfileStatus string

const (
	ProfileActive  ProfileStatus = "active"
	ProfileBanned  ProfileStatus = "banned"
	ProfileRemoved ProfileStatus = "removed"
)

// Profile is one row per user. Role and status changes are authoritative only
// from the remote service; the client never writes them.
type Profile struct {
	Base
	FullName  string        `json:"full_name"`
	Email     string        `json:"email"`
	AvatarURL string        `json:"avatar_url"`
	Bio       string        `json:"bio"`
	Role      Role          `json:"role"`
	Status    ProfileStatus `json:"status"`
	Points    int           `json:"points"`
}
