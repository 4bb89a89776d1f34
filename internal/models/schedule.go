package models

// Schedule is a recurring weekly training slot.
// DayOfWeek: 0=Mon ... 6=Sun. Time is "HH:MM".
// At most one entry per (day, time) pair, checked at creation time.
type Schedule struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	DayOfWeek  int     `gorm:"not null;index" json:"day_of_week"`
	Time       string  `gorm:"type:varchar(50);not null" json:"time"`
	Activity   string  `gorm:"type:varchar(120);not null" json:"activity"`
	Discipline *string `gorm:"type:varchar(50)" json:"discipline,omitempty"`
	Coach      *string `gorm:"type:varchar(120)" json:"coach,omitempty"`
	Age        *string `gorm:"type:varchar(50)" json:"age,omitempty"`
}
