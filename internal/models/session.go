package models

// Session is the caller identity resolved once per request from a bearer token.
type Session struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Team     Team   `json:"team,omitempty"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// CanManage reports whether the caller may edit students of the given team.
// Admins manage everyone, leaders only their own team.
func (s Session) CanManage(team Team) bool {
	if s.IsAdmin() {
		return true
	}
	return s.Role == RoleLeader && s.Team != "" && s.Team == team
}
