package models

import (
	"time"
)

type News struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Image     *string   `gorm:"type:varchar(255)" json:"image,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type Trainer struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"type:varchar(120);not null" json:"name"`
	Bio   string  `gorm:"type:text;not null" json:"bio"`
	Photo *string `gorm:"type:varchar(255)" json:"photo,omitempty"`
}

// Signup is a trial-training request left through the public form.
type Signup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Email     string    `gorm:"type:varchar(120);not null" json:"email"`
	Phone     *string   `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Activity  string    `gorm:"type:varchar(120);not null" json:"activity"`
	CreatedAt time.Time `json:"created_at"`
}
