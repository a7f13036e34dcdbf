package model

import (
	"time"
)

type User struct {
	UserID         int       `gorm:"column:user_id;primaryKey;autoIncrement" json:"id"`
	Email          string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Username       string    `gorm:"column:username;type:varchar(100);uniqueIndex;not null" json:"username"`
	HashedPassword string    `gorm:"column:hashed_password;type:varchar(255);not null" json:"-"`
	FullName       string    `gorm:"column:full_name;type:varchar(255)" json:"full_name"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
