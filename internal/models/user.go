package models

import (
	"time"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     *string `gorm:"type:varchar(80);uniqueIndex" json:"username,omitempty"`
	PasswordHash string  `gorm:"type:varchar(255)" json:"-"` // Never expose password hash in JSON
	FullName     *string `gorm:"type:varchar(255)" json:"full_name,omitempty"`
	Level        *string `gorm:"type:varchar(120)" json:"level,omitempty"`
	GroupName    *string `gorm:"type:varchar(120)" json:"group_name,omitempty"`
	Role         Role    `gorm:"type:varchar(10);not null;default:'user';index" json:"role"`
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`

	// Legacy flags predating the role tag. The role tag is authoritative;
	// IsAdmin is kept in sync on every role change so that databases written
	// by older deployments and by this one agree.
	IsAdmin      bool `gorm:"not null;default:false" json:"is_admin"`
	IsSuperadmin bool `gorm:"not null;default:false" json:"is_superadmin"`

	AvatarPath *string   `gorm:"type:varchar(512)" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// RoleGrantsAdmin reports whether a role tag carries admin rights.
func RoleGrantsAdmin(r Role) bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// HasAdminRights checks the role tag first and falls back to the legacy
// flags, so rows reconciled from old schemas are still recognized.
func (u *User) HasAdminRights() bool {
	return RoleGrantsAdmin(u.Role) || u.IsAdmin || u.IsSuperadmin
}

func (u *User) HasSuperadminRights() bool {
	return u.Role == RoleSuperadmin || u.IsSuperadmin
}

// RoleChangeLog is an append-only audit record of role elevations and
// demotions. Rows are never updated or deleted.
type RoleChangeLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   uint      `gorm:"not null;index" json:"actor_id"`
	TargetID  uint      `gorm:"not null;index" json:"target_id"`
	OldRole   Role      `gorm:"type:varchar(10);not null" json:"old_role"`
	NewRole   Role      `gorm:"type:varchar(10);not null" json:"new_role"`
	CreatedAt time.Time `json:"created_at"`
}
