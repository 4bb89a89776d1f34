package models

import (
	"time"
)

// Document is the metadata row for a file a member uploaded. The row is
// created only after the file is durably on disk and size-checked; it is
// never mutated afterwards.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Filename   string    `gorm:"type:varchar(255);not null" json:"filename"`
	StoredPath string    `gorm:"type:varchar(512);not null" json:"-"`
	Mime       string    `gorm:"type:varchar(120)" json:"mime"`
	SizeBytes  int64     `gorm:"not null" json:"size_bytes"`
	Note       *string   `gorm:"type:varchar(500)" json:"note,omitempty"`
	UploadedAt time.Time `gorm:"index" json:"uploaded_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
