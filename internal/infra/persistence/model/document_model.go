package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentModel mirrors the 'documents' table. UserID references users.id.
type DocumentModel struct {
	ID           uuid.UUID `gorm:"primaryKey"`
	UserID       uuid.UUID `gorm:"index;not null"`
	Title        string    `gorm:"type:varchar(200);not null"`
	OriginalName string    `gorm:"type:varchar(255);not null"`
	StoredName   string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	ContentType  string    `gorm:"type:varchar(255);not null"`
	SizeBytes    int64     `gorm:"not null"`
	Checksum     string    `gorm:"type:varchar(64);not null"`
	UploadDate   time.Time `gorm:"type:date;not null"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (DocumentModel) TableName() string {
	return "documents"
}
