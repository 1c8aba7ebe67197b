package models

import "time"

// Role is one of the closed set of account roles. It is fixed at creation.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleStoreOwner Role = "store_owner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

// User.Password holds a bcrypt hash. Rows imported from the legacy system
// may still hold plaintext until their next successful login.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:60;not null"`
	Email     string `gorm:"uniqueIndex;size:191;not null"`
	Password  string `gorm:"size:255;not null"`
	Address   string `gorm:"size:400"`
	Role      Role   `gorm:"size:32;not null;default:user;check:chk_users_role,role IN ('admin','user','store_owner')"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
