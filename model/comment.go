package model

import (
	"time"
)

type Comment struct {
	CommentID int       `gorm:"column:comment_id;primaryKey;autoIncrement" json:"id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	TaskID    int       `gorm:"column:task_id;not null;index" json:"task_id"`
	UserID    int       `gorm:"column:user_id;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
