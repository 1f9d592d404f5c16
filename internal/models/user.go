package models

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLeader Role = "leader"
)

type User struct {
	Username     string `db:"username" json:"username" validate:"required,max=64"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         Role   `db:"role" json:"role" validate:"required,oneof=admin leader"`
	Team         Team   `db:"team" json:"team,omitempty" validate:"required_if=Role leader"`
}
