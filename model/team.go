package model

import (
	"time"
)

// Membership roles shared by teams and boards.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ValidRole reports whether role is one of the accepted membership roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

type Team struct {
	TeamID      int       `gorm:"column:team_id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedByID int       `gorm:"column:created_by_id" json:"created_by_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Relations
	CreatedBy   User         `gorm:"foreignKey:CreatedByID;references:UserID" json:"-"`
	Memberships []TeamMember `gorm:"foreignKey:TeamID;references:TeamID;constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

type TeamMember struct {
	TeamID   int       `gorm:"column:team_id;primaryKey" json:"team_id"`
	UserID   int       `gorm:"column:user_id;primaryKey" json:"user_id"`
	Role     string    `gorm:"column:role;type:varchar(10);default:'member';not null" json:"role"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
