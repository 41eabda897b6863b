package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. The password hash lives on the same row.
type UserModel struct {
	ID           uuid.UUID `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(80);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Name         string    `gorm:"type:varchar(120)"`
	Age          int
	Gender       string `gorm:"type:varchar(10)"`
	Phone        string `gorm:"type:varchar(20)"`
	GovtID       string `gorm:"column:govt_id;type:varchar(50)"`
	Language     string `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Documents []DocumentModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
