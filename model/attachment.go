package model

import (
	"time"
)

type Attachment struct {
	AttachmentID int       `gorm:"column:attachment_id;primaryKey;autoIncrement" json:"id"`
	Filename     string    `gorm:"column:filename;type:varchar(255);not null" json:"filename"`
	FilePath     string    `gorm:"column:file_path;type:varchar(512);not null" json:"file_path"`
	URL          string    `gorm:"column:url;type:varchar(512)" json:"url"`
	TaskID       int       `gorm:"column:task_id;not null;index" json:"task_id"`
	UserID       int       `gorm:"column:user_id;not null" json:"user_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;references:UserID" json:"-"`
}

func (Attachment) TableName() string {
	return "attachments"
}
