package model

import (
	"time"
)

type Board struct {
	BoardID     int       `gorm:"column:board_id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	TeamID      int       `gorm:"column:team_id;not null" json:"team_id"`
	CreatedByID int       `gorm:"column:created_by_id" json:"created_by_id"`
	IsPublic    bool      `gorm:"column:is_public;default:false" json:"is_public"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Relations
	Team        Team          `gorm:"foreignKey:TeamID;references:TeamID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy   User          `gorm:"foreignKey:CreatedByID;references:UserID" json:"-"`
	Memberships []BoardMember `gorm:"foreignKey:BoardID;references:BoardID;constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
}

func (Board) TableName() string {
	return "boards"
}

type BoardMember struct {
	BoardID  int       `gorm:"column:board_id;primaryKey" json:"board_id"`
	UserID   int       `gorm:"column:user_id;primaryKey" json:"user_id"`
	Role     string    `gorm:"column:role;type:varchar(10);default:'member';not null" json:"role"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (BoardMember) TableName() string {
	return "board_members"
}
